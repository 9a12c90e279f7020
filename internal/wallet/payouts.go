package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
)

// Settlement is the outcome of confirming or failing a payout.
type Settlement struct {
	PayoutID         string `json:"payout_id"`
	UserID           string `json:"user_id"`
	Amount           int64  `json:"amount"`
	Reference        string `json:"reference,omitempty"`
	AlreadyProcessed bool   `json:"already_processed"`
}

// CreatePayout debits the wallet and records a pending payout as one
// transaction. The row lock taken by the balance UPDATE serializes
// concurrent payout requests for the same user.
func CreatePayout(ctx context.Context, dbi db.DB, userID, methodID string, amount int64) (*Payout, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := dbi.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var owned bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payout_methods WHERE id = $1 AND user_id = $2)`,
		methodID, userID,
	).Scan(&owned); err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrMethodNotFound
	}

	payoutID := uuid.New().String()
	if _, err := holdTx(ctx, tx, userID, amount, payoutID); err != nil {
		return nil, err
	}

	createdAt := time.Now()
	if _, err := tx.Exec(ctx,
		`INSERT INTO payouts (id, user_id, method_id, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		payoutID, userID, methodID, amount, StatusPending, createdAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.Del(ctx, cache.WalletKey(userID))
	return &Payout{
		ID:        payoutID,
		UserID:    userID,
		MethodID:  methodID,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: createdAt,
	}, nil
}

// SettlePayout transitions a pending payout to completed exactly once:
// total_withdrawn goes up by the payout amount and the held debit entry
// flips to completed. A replay for an already-completed payout is a no-op
// reported through AlreadyProcessed.
func SettlePayout(ctx context.Context, dbi db.DB, payoutID, reference string) (*Settlement, error) {
	tx, err := dbi.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		userID string
		amount int64
		status string
	)
	err = tx.QueryRow(ctx,
		`SELECT user_id, amount, status FROM payouts WHERE id = $1 FOR UPDATE`,
		payoutID,
	).Scan(&userID, &amount, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}

	switch status {
	case StatusCompleted:
		return &Settlement{PayoutID: payoutID, UserID: userID, Amount: amount, AlreadyProcessed: true}, nil
	case StatusFailed:
		return nil, ErrAlreadySettled
	}

	if _, err := tx.Exec(ctx,
		`UPDATE payouts SET status = $1, reference = $2, processed_at = NOW()
		 WHERE id = $3 AND status = $4`,
		StatusCompleted, reference, payoutID, StatusPending,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET total_withdrawn = total_withdrawn + $1, updated_at = NOW()
		 WHERE user_id = $2`,
		amount, userID,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallet_transactions SET status = $1
		 WHERE reference_id = $2 AND type = $3`,
		StatusCompleted, PayoutRef(payoutID), TypeDebit,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.Del(ctx, cache.WalletKey(userID))
	return &Settlement{PayoutID: payoutID, UserID: userID, Amount: amount, Reference: reference}, nil
}

// FailPayout marks a pending payout failed and refunds the held amount.
func FailPayout(ctx context.Context, dbi db.DB, payoutID, reason string) (*Settlement, error) {
	tx, err := dbi.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		userID string
		amount int64
		status string
	)
	err = tx.QueryRow(ctx,
		`SELECT user_id, amount, status FROM payouts WHERE id = $1 FOR UPDATE`,
		payoutID,
	).Scan(&userID, &amount, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}

	switch status {
	case StatusFailed:
		return &Settlement{PayoutID: payoutID, UserID: userID, Amount: amount, AlreadyProcessed: true}, nil
	case StatusCompleted:
		return nil, ErrAlreadySettled
	}

	if _, err := tx.Exec(ctx,
		`UPDATE payouts SET status = $1, reference = $2, processed_at = NOW()
		 WHERE id = $3 AND status = $4`,
		StatusFailed, reason, payoutID, StatusPending,
	); err != nil {
		return nil, err
	}

	// Give the held amount back.
	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE user_id = $2`,
		amount, userID,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wallet_transactions SET status = $1
		 WHERE reference_id = $2 AND type = $3`,
		StatusFailed, PayoutRef(payoutID), TypeDebit,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.Del(ctx, cache.WalletKey(userID))
	return &Settlement{PayoutID: payoutID, UserID: userID, Amount: amount, Reference: reason}, nil
}
