package wallet

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

type WithdrawRequest struct {
	MethodID string `json:"method_id" validate:"required,uuid4"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

// RequestWithdrawal places a payout request: the amount is held from the
// balance immediately and the payout waits for confirmation.
func RequestWithdrawal(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(WithdrawRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	payout, err := CreatePayout(c.Request().Context(), db.Conn, uid, req.MethodID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, ErrInsufficientBalance):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient balance"})
		case errors.Is(err, ErrMethodNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout method not found"})
		case errors.Is(err, ErrWalletNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create payout"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payout_id": payout.ID,
		"amount":    payout.Amount,
		"status":    payout.Status,
		"message":   "Withdrawal requested, funds held until payout is confirmed",
	})
}

// ListPayouts returns the user's payout requests, newest first.
func ListPayouts(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, method_id, amount, status, reference, created_at, processed_at
		 FROM payouts
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch payouts"})
	}
	defer rows.Close()

	payouts := []Payout{}
	for rows.Next() {
		var p Payout
		if err := rows.Scan(&p.ID, &p.UserID, &p.MethodID, &p.Amount, &p.Status, &p.Reference, &p.CreatedAt, &p.ProcessedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read payout record"})
		}
		payouts = append(payouts, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"payouts": payouts})
}
