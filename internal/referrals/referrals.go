package referrals

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

// Me returns the user's referral code, how many users signed up with it,
// and lifetime referral earnings from the ledger.
func Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()

	var code string
	if err := db.Conn.QueryRow(ctx,
		`SELECT referral_code FROM users WHERE id = $1`, uid,
	).Scan(&code); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	var referred int
	if err := db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE referred_by = $1`, uid,
	).Scan(&referred); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not count referrals"})
	}

	var earned int64
	if err := db.Conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
		 WHERE user_id = $1 AND type = 'credit' AND reference_id LIKE 'purchase:%'`, uid,
	).Scan(&earned); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not sum earnings"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"referral_code":  code,
		"referred_users": referred,
		"total_earned":   earned,
	})
}
