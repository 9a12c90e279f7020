package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

type AdminWallet struct {
	UserID         string    `json:"user_id"`
	Balance        int64     `json:"balance"`
	TotalEarned    int64     `json:"total_earned"`
	TotalWithdrawn int64     `json:"total_withdrawn"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GET /admin/wallets
func ListWallets(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT user_id, balance, total_earned, total_withdrawn, updated_at
		 FROM wallets ORDER BY balance DESC`,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch wallets"})
	}
	defer rows.Close()

	wallets := []AdminWallet{}
	for rows.Next() {
		var w AdminWallet
		if err := rows.Scan(&w.UserID, &w.Balance, &w.TotalEarned, &w.TotalWithdrawn, &w.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read wallet record"})
		}
		wallets = append(wallets, w)
	}
	return c.JSON(http.StatusOK, echo.Map{"wallets": wallets})
}
