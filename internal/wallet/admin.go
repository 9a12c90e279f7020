package wallet

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/alerts"
	"github.com/learnhub-ng/learnhub/internal/db"
	"github.com/learnhub-ng/learnhub/internal/notifications"
)

// AdminListTransactions returns the full ledger for admin monitoring.
func AdminListTransactions(c echo.Context) error {
	limit, offset := pageParams(c)

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, type, amount, status, reference_id, description, created_at
		 FROM wallet_transactions
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	defer rows.Close()

	txs := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.ReferenceID, &t.Description, &t.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read transaction record"})
		}
		txs = append(txs, t)
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}

// AdminListPendingPayouts returns the payout queue.
func AdminListPendingPayouts(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, method_id, amount, status, reference, created_at, processed_at
		 FROM payouts
		 WHERE status = $1
		 ORDER BY created_at ASC`, StatusPending,
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

	return c.JSON(http.StatusOK, echo.Map{"pending_payouts": payouts})
}

type AdminCreditRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description"`
}

// AdminCreditWallet applies a manual adjustment credit to a user's wallet,
// recorded in the ledger like any other earning.
func AdminCreditWallet(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	req := new(AdminCreditRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	description := req.Description
	if description == "" {
		description = "manual adjustment"
	}

	entryID, err := Credit(c.Request().Context(), db.Conn, userID, req.Amount,
		AdjustmentRef(uuid.New().String()), description)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, ErrWalletNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not credit wallet"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"entry_id": entryID,
		"user_id":  userID,
		"amount":   req.Amount,
	})
}

type AdminPayoutActionRequest struct {
	Reference string `json:"reference"`
}

// AdminCompletePayout is the manual fallback to the confirmation webhook.
func AdminCompletePayout(c echo.Context) error {
	payoutID := c.Param("id")
	if payoutID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payout id required"})
	}

	req := new(AdminPayoutActionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	st, err := SettlePayout(ctx, db.Conn, payoutID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrPayoutNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout not found"})
		case errors.Is(err, ErrAlreadySettled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payout already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not complete payout"})
		}
	}

	if !st.AlreadyProcessed {
		notifyPayoutSettled(c, st, true)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payout_id":         st.PayoutID,
		"status":            StatusCompleted,
		"already_processed": st.AlreadyProcessed,
	})
}

// AdminFailPayout rejects a pending payout and refunds the held amount.
func AdminFailPayout(c echo.Context) error {
	payoutID := c.Param("id")
	if payoutID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payout id required"})
	}

	req := new(AdminPayoutActionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	st, err := FailPayout(ctx, db.Conn, payoutID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrPayoutNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout not found"})
		case errors.Is(err, ErrAlreadySettled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "payout already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fail payout"})
		}
	}

	if !st.AlreadyProcessed {
		notifyPayoutSettled(c, st, false)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payout_id":         st.PayoutID,
		"status":            StatusFailed,
		"already_processed": st.AlreadyProcessed,
	})
}

// notifyPayoutSettled writes the in-app notification and enqueues the email.
// Best-effort: the settlement already committed.
func notifyPayoutSettled(c echo.Context, st *Settlement, completed bool) {
	ctx := c.Request().Context()

	title, ntype := "Withdrawal failed", notifications.TypePayoutFailed
	if completed {
		title, ntype = "Withdrawal completed", notifications.TypePayoutCompleted
	}
	if err := notifications.Create(ctx, db.Conn, st.UserID, ntype, title, ""); err != nil {
		logrus.Warnf("payout %s: notification write failed: %v", st.PayoutID, err)
	}

	var email string
	if err := db.Conn.QueryRow(ctx,
		`SELECT email FROM users WHERE id = $1`, st.UserID,
	).Scan(&email); err == nil && completed {
		_ = alerts.EnqueuePayoutCompleted(st.UserID, email, st.PayoutID, st.Amount)
	}
}
