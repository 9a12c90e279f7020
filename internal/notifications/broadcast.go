package notifications

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// broadcastChunkSize bounds the per-call payload of the bulk insert.
const broadcastChunkSize = 500

type BroadcastRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

// Broadcast creates one notification row per non-suspended user, inserted in
// chunks, and returns the number of rows created.
func Broadcast(ctx context.Context, dbi db.DB, title, body string) (int64, error) {
	rows, err := dbi.Query(ctx, `SELECT id FROM users WHERE is_active = TRUE`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	now := time.Now()
	var created int64
	for _, chunk := range chunkIDs(userIDs, broadcastChunkSize) {
		src := make([][]any, 0, len(chunk))
		for _, uid := range chunk {
			src = append(src, []any{uuid.New().String(), uid, TypeBroadcast, title, body, false, now})
		}
		n, err := dbi.CopyFrom(ctx,
			pgx.Identifier{"notifications"},
			[]string{"id", "user_id", "type", "title", "body", "is_read", "created_at"},
			pgx.CopyFromRows(src),
		)
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}

// chunkIDs splits ids into slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	return append(chunks, ids)
}

// AdminBroadcast sends a notification to every active user.
func AdminBroadcast(c echo.Context) error {
	req := new(BroadcastRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	created, err := Broadcast(c.Request().Context(), db.Conn, req.Title, req.Body)
	if err != nil {
		logrus.Errorf("broadcast failed after %d rows: %v", created, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "broadcast failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"created": created})
}
