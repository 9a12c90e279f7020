package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// Me returns the currently authenticated user's profile.
func Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var id, name, email, role, referralCode string
	err := db.Conn.QueryRow(c.Request().Context(),
		`SELECT id, name, email, role, referral_code FROM users WHERE id = $1`, uid).
		Scan(&id, &name, &email, &role, &referralCode)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":            id,
		"name":          name,
		"email":         email,
		"role":          role,
		"referral_code": referralCode,
	})
}
