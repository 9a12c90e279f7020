package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
)

// Balance returns the authenticated user's wallet summary.
func Balance(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()

	var w Wallet
	if cache.Get(ctx, cache.WalletKey(uid), &w) {
		return c.JSON(http.StatusOK, w)
	}

	err := db.Conn.QueryRow(ctx,
		`SELECT user_id, balance, total_earned, total_withdrawn, updated_at
		 FROM wallets WHERE user_id = $1`, uid).
		Scan(&w.UserID, &w.Balance, &w.TotalEarned, &w.TotalWithdrawn, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch wallet"})
	}

	cache.Set(ctx, cache.WalletKey(uid), w, 30*time.Second)
	return c.JSON(http.StatusOK, w)
}
