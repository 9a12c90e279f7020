package wallet

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayoutMethodNotOwned(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{false}}}}

	_, err := CreatePayout(context.Background(), &fakeDB{tx: tx}, "user-1", "method-1", 5000)
	assert.ErrorIs(t, err, ErrMethodNotFound)
	assert.True(t, tx.rolledBack)
}

func TestCreatePayoutHoldsBalanceAndRecordsPending(t *testing.T) {
	tx := &fakeTx{
		rows: []fakeRow{{vals: []any{true}}},
		tags: []pgconn.CommandTag{tag("UPDATE 1"), tag("INSERT 0 1"), tag("INSERT 0 1")},
	}

	p, err := CreatePayout(context.Background(), &fakeDB{tx: tx}, "user-1", "method-1", 5000)
	require.NoError(t, err)
	assert.True(t, tx.committed)

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "method-1", p.MethodID)
	assert.Equal(t, int64(5000), p.Amount)
	assert.Equal(t, StatusPending, p.Status)
	assert.NotEmpty(t, p.ID)

	// hold debit, debit ledger entry, payout row
	require.Len(t, tx.execSQL, 3)
	assert.Contains(t, tx.execSQL[2], "INSERT INTO payouts")
}

func TestCreatePayoutInsufficientBalance(t *testing.T) {
	tx := &fakeTx{
		rows: []fakeRow{{vals: []any{true}}, {vals: []any{true}}},
		tags: []pgconn.CommandTag{tag("UPDATE 0")},
	}

	_, err := CreatePayout(context.Background(), &fakeDB{tx: tx}, "user-1", "method-1", 5000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.False(t, tx.committed)
}

func TestSettlePayoutCompletesPending(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusPending}}}}

	s, err := SettlePayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "TXN123")
	require.NoError(t, err)
	assert.True(t, tx.committed)

	assert.Equal(t, "payout-1", s.PayoutID)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, int64(5000), s.Amount)
	assert.Equal(t, "TXN123", s.Reference)
	assert.False(t, s.AlreadyProcessed)

	// payout status, total_withdrawn, ledger entry status
	require.Len(t, tx.execSQL, 3)
	assert.Contains(t, tx.execSQL[1], "total_withdrawn = total_withdrawn + $1")
	assert.Contains(t, tx.execSQL[2], "UPDATE wallet_transactions")
}

func TestSettlePayoutReplayIsIdempotent(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusCompleted}}}}

	s, err := SettlePayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "TXN123")
	require.NoError(t, err)
	assert.True(t, s.AlreadyProcessed)
	assert.Empty(t, tx.execSQL, "a replay must not touch the wallet again")
	assert.False(t, tx.committed)
}

func TestSettlePayoutFailedPayoutConflicts(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusFailed}}}}

	_, err := SettlePayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "TXN123")
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestSettlePayoutNotFound(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{err: pgx.ErrNoRows}}}

	_, err := SettlePayout(context.Background(), &fakeDB{tx: tx}, "missing", "")
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestFailPayoutRefundsHeldAmount(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusPending}}}}

	s, err := FailPayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "bank rejected")
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, "bank rejected", s.Reference)

	require.Len(t, tx.execSQL, 3)
	assert.Contains(t, tx.execSQL[1], "balance = balance + $1")
	assert.NotContains(t, tx.execSQL[1], "total_withdrawn", "a failed payout never counts as withdrawn")
}

func TestFailPayoutCompletedPayoutConflicts(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusCompleted}}}}

	_, err := FailPayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "too late")
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestFailPayoutReplayIsIdempotent(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{vals: []any{"user-1", int64(5000), StatusFailed}}}}

	s, err := FailPayout(context.Background(), &fakeDB{tx: tx}, "payout-1", "again")
	require.NoError(t, err)
	assert.True(t, s.AlreadyProcessed)
	assert.Empty(t, tx.execSQL)
}
