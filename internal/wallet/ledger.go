package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
)

// execer is the subset of pgx.Tx (and the pool) the ledger writes through.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Credit adds amount to the user's balance and total_earned and appends a
// completed credit entry. Balance update and ledger append commit together
// or not at all.
func Credit(ctx context.Context, dbi db.DB, userID string, amount int64, referenceID, description string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	tx, err := dbi.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	entryID, err := CreditTx(ctx, tx, userID, amount, referenceID, description)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	cache.Del(ctx, cache.WalletKey(userID))
	return entryID, nil
}

// CreditTx applies a credit inside a caller-owned transaction, so callers
// can make the credit atomic with their own writes.
func CreditTx(ctx context.Context, q execer, userID string, amount int64, referenceID, description string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	tag, err := q.Exec(ctx,
		`UPDATE wallets
		 SET balance = balance + $1, total_earned = total_earned + $1, updated_at = NOW()
		 WHERE user_id = $2`,
		amount, userID,
	)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrWalletNotFound
	}

	entryID := uuid.New().String()
	_, err = q.Exec(ctx,
		`INSERT INTO wallet_transactions (id, user_id, type, amount, status, reference_id, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entryID, userID, TypeCredit, amount, StatusCompleted, referenceID, description, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// holdTx debits the balance for a pending payout. The conditional UPDATE is
// the insufficient-balance guard: zero rows affected means the debit would
// have driven the balance negative, and nothing is written.
func holdTx(ctx context.Context, q execer, userID string, amount int64, payoutID string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	tag, err := q.Exec(ctx,
		`UPDATE wallets
		 SET balance = balance - $1, updated_at = NOW()
		 WHERE user_id = $2 AND balance >= $1`,
		amount, userID,
	)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1)`, userID,
		).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return "", ErrWalletNotFound
		}
		return "", ErrInsufficientBalance
	}

	entryID := uuid.New().String()
	_, err = q.Exec(ctx,
		`INSERT INTO wallet_transactions (id, user_id, type, amount, status, reference_id, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entryID, userID, TypeDebit, amount, StatusPending, PayoutRef(payoutID), "withdrawal", time.Now(),
	)
	if err != nil {
		return "", err
	}
	return entryID, nil
}
