package courses

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// CompleteModule records a module as completed for the user. Re-completing
// is a no-op.
func CompleteModule(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID := c.Param("id")
	moduleID := c.Param("module_id")
	if courseID == "" || moduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course and module id required"})
	}

	ctx := c.Request().Context()

	// Progress only counts for courses the user owns.
	var owned bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND course_id = $2 AND status = $3)`,
		uid, courseID, StatusCompleted,
	).Scan(&owned); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not inspect purchases"})
	}
	if !owned {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "course not purchased"})
	}

	var belongs bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_modules WHERE id = $1 AND course_id = $2)`,
		moduleID, courseID,
	).Scan(&belongs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not inspect modules"})
	}
	if !belongs {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "module not found"})
	}

	if _, err := db.Conn.Exec(ctx,
		`INSERT INTO course_progress (user_id, module_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, module_id) DO NOTHING`,
		uid, moduleID,
	); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record progress"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "module completed"})
}

// GetProgress returns completed/total module counts and a percentage for
// the course progress card.
func GetProgress(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID := c.Param("id")
	if courseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course id required"})
	}

	ctx := c.Request().Context()

	var total, completed int
	if err := db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM course_modules WHERE course_id = $1`, courseID,
	).Scan(&total); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count modules"})
	}
	if err := db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM course_progress p
		 JOIN course_modules m ON m.id = p.module_id
		 WHERE p.user_id = $1 AND m.course_id = $2`,
		uid, courseID,
	).Scan(&completed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count progress"})
	}

	percent := 0
	if total > 0 {
		percent = completed * 100 / total
	}

	return c.JSON(http.StatusOK, echo.Map{
		"course_id": courseID,
		"total":     total,
		"completed": completed,
		"percent":   percent,
	})
}
