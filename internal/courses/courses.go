package courses

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
)

// ListCourses returns the published catalog. Cached briefly since the
// catalog changes rarely and every dashboard render hits it.
func ListCourses(c echo.Context) error {
	ctx := c.Request().Context()

	var cached []Course
	if cache.Get(ctx, cache.CourseListKey, &cached) {
		return c.JSON(http.StatusOK, echo.Map{"courses": cached})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id, title, description, price, is_published, created_at
		 FROM courses
		 WHERE is_published = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch courses"})
	}
	defer rows.Close()

	list := []Course{}
	for rows.Next() {
		var course Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Price, &course.IsPublished, &course.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read course record"})
		}
		list = append(list, course)
	}

	cache.Set(ctx, cache.CourseListKey, list, 60*time.Second)
	return c.JSON(http.StatusOK, echo.Map{"courses": list})
}

// GetCourse returns one course with its module list.
func GetCourse(c echo.Context) error {
	courseID := c.Param("id")
	if courseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course id required"})
	}

	ctx := c.Request().Context()

	var course Course
	err := db.Conn.QueryRow(ctx,
		`SELECT id, title, description, price, is_published, created_at
		 FROM courses WHERE id = $1 AND is_published = TRUE`, courseID).
		Scan(&course.ID, &course.Title, &course.Description, &course.Price, &course.IsPublished, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch course"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id, course_id, title, position, duration_minutes
		 FROM course_modules
		 WHERE course_id = $1
		 ORDER BY position ASC`, courseID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch modules"})
	}
	defer rows.Close()

	modules := []Module{}
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Position, &m.DurationMinutes); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read module record"})
		}
		modules = append(modules, m)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"course":  course,
		"modules": modules,
	})
}
