package notifications

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// Create writes a single notification row for a user.
func Create(ctx context.Context, dbi db.DB, userID, ntype, title, body string) error {
	_, err := dbi.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, body, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		uuid.New().String(), userID, ntype, title, body, time.Now(),
	)
	return err
}

// List returns the authenticated user's notifications, newest first.
func List(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, type, title, body, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		uid, limit, offset,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch notifications"})
	}
	defer rows.Close()

	items := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read notification"})
		}
		items = append(items, n)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// UnreadCount returns the badge count for the dashboard header.
func UnreadCount(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var count int
	err := db.Conn.QueryRow(c.Request().Context(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, uid,
	).Scan(&count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count notifications"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkRead flags a single notification as read.
func MarkRead(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "notification id required"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update notification"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked read"})
}

// MarkAllRead flags everything unread as read.
func MarkAllRead(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update notifications"})
	}

	return c.JSON(http.StatusOK, echo.Map{"updated": tag.RowsAffected()})
}
