package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := c.Request().Context()

	var users, courses, purchases, pendingPayouts int
	var revenue, liabilities int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE is_published = TRUE`).Scan(&courses)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE status = 'completed'`).Scan(&purchases)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM payouts WHERE status = 'pending'`).Scan(&pendingPayouts)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM purchases WHERE status = 'completed'`).Scan(&revenue)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM wallets`).Scan(&liabilities)

	return c.JSON(http.StatusOK, echo.Map{
		"users":              users,
		"courses":            courses,
		"purchases":          purchases,
		"pending_payouts":    pendingPayouts,
		"revenue":            revenue,
		"wallet_liabilities": liabilities,
	})
}
