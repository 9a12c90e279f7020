package admin

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
)

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	AssetKey    string `json:"asset_key"`
}

// POST /admin/courses
func CreateCourse(c echo.Context) error {
	req := new(CreateCourseRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	courseID := uuid.New().String()
	_, err := db.Conn.Exec(c.Request().Context(),
		`INSERT INTO courses (id, title, description, price, asset_key, is_published, created_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		courseID, req.Title, req.Description, req.Price, req.AssetKey, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create course"})
	}

	return c.JSON(http.StatusOK, echo.Map{"course_id": courseID, "is_published": false})
}

type AddModuleRequest struct {
	Title           string `json:"title" validate:"required"`
	Position        int    `json:"position" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
}

// POST /admin/courses/:id/modules
func AddModule(c echo.Context) error {
	courseID := c.Param("id")
	if courseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course id required"})
	}

	req := new(AddModuleRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	moduleID := uuid.New().String()
	_, err := db.Conn.Exec(c.Request().Context(),
		`INSERT INTO course_modules (id, course_id, title, position, duration_minutes)
		 VALUES ($1, $2, $3, $4, $5)`,
		moduleID, courseID, req.Title, req.Position, req.DurationMinutes,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add module"})
	}

	return c.JSON(http.StatusOK, echo.Map{"module_id": moduleID})
}

// POST /admin/courses/:id/publish
func PublishCourse(c echo.Context) error {
	courseID := c.Param("id")
	if courseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course id required"})
	}

	ctx := c.Request().Context()
	tag, err := db.Conn.Exec(ctx,
		`UPDATE courses SET is_published = TRUE WHERE id = $1`, courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not publish course"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}

	cache.Del(ctx, cache.CourseListKey)
	return c.JSON(http.StatusOK, echo.Map{"message": "course published", "course_id": courseID})
}
