package wallet

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow is a scripted pgx.Row. Scan copies vals into the destinations.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch v := r.vals[i].(type) {
		case string:
			*(d.(*string)) = v
		case int64:
			*(d.(*int64)) = v
		case bool:
			*(d.(*bool)) = v
		}
	}
	return nil
}

// fakeTx records statements and replays scripted results. Embedding pgx.Tx
// panics on anything the code under test should not touch.
type fakeTx struct {
	pgx.Tx

	tags []pgconn.CommandTag
	rows []fakeRow

	execSQL    []string
	execArgs   [][]any
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	t.execArgs = append(t.execArgs, args)
	if len(t.tags) == 0 {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	tag := t.tags[0]
	t.tags = t.tags[1:]
	return tag, nil
}

func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	row := t.rows[0]
	t.rows = t.rows[1:]
	return row
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeDB hands out a single scripted transaction.
type fakeDB struct {
	tx *fakeTx
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) { return f.tx, nil }

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected Exec outside transaction")
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow outside transaction")
}

func (f *fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom")
}

func tag(s string) pgconn.CommandTag { return pgconn.NewCommandTag(s) }

func TestLedgerRefs(t *testing.T) {
	assert.Equal(t, "payout:p1", PayoutRef("p1"))
	assert.Equal(t, "purchase:x1", PurchaseRef("x1"))
	assert.Equal(t, "adjustment:a1", AdjustmentRef("a1"))
}

func TestCreditTxRejectsNonPositiveAmount(t *testing.T) {
	tx := &fakeTx{}

	_, err := CreditTx(context.Background(), tx, "user-1", 0, "ref", "desc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = CreditTx(context.Background(), tx, "user-1", -500, "ref", "desc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, tx.execSQL)
}

func TestCreditTxWalletMissing(t *testing.T) {
	tx := &fakeTx{tags: []pgconn.CommandTag{tag("UPDATE 0")}}

	_, err := CreditTx(context.Background(), tx, "ghost", 1000, "ref", "desc")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.Len(t, tx.execSQL, 1, "no ledger entry after a failed balance update")
}

func TestCreditTxWritesBalanceAndLedgerEntry(t *testing.T) {
	tx := &fakeTx{tags: []pgconn.CommandTag{tag("UPDATE 1"), tag("INSERT 0 1")}}

	entryID, err := CreditTx(context.Background(), tx, "user-1", 2500, "purchase:p1", "referral commission")
	require.NoError(t, err)
	assert.NotEmpty(t, entryID)

	require.Len(t, tx.execSQL, 2)
	assert.Contains(t, tx.execSQL[0], "total_earned = total_earned + $1")
	assert.Contains(t, tx.execSQL[1], "INSERT INTO wallet_transactions")

	entry := tx.execArgs[1]
	assert.Equal(t, "user-1", entry[1])
	assert.Equal(t, TypeCredit, entry[2])
	assert.Equal(t, int64(2500), entry[3])
	assert.Equal(t, StatusCompleted, entry[4])
	assert.Equal(t, "purchase:p1", entry[5])
}

func TestCreditCommitsTransaction(t *testing.T) {
	tx := &fakeTx{tags: []pgconn.CommandTag{tag("UPDATE 1"), tag("INSERT 0 1")}}

	entryID, err := Credit(context.Background(), &fakeDB{tx: tx}, "user-1", 1000, "ref", "desc")
	require.NoError(t, err)
	assert.NotEmpty(t, entryID)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestCreditRollsBackWhenWalletMissing(t *testing.T) {
	tx := &fakeTx{tags: []pgconn.CommandTag{tag("UPDATE 0")}}

	_, err := Credit(context.Background(), &fakeDB{tx: tx}, "ghost", 1000, "ref", "desc")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestHoldTxInsufficientBalance(t *testing.T) {
	tx := &fakeTx{
		tags: []pgconn.CommandTag{tag("UPDATE 0")},
		rows: []fakeRow{{vals: []any{true}}},
	}

	_, err := holdTx(context.Background(), tx, "user-1", 999999, "payout-1")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Len(t, tx.execSQL, 1, "no pending debit entry on a rejected hold")
}

func TestHoldTxWalletMissing(t *testing.T) {
	tx := &fakeTx{
		tags: []pgconn.CommandTag{tag("UPDATE 0")},
		rows: []fakeRow{{vals: []any{false}}},
	}

	_, err := holdTx(context.Background(), tx, "ghost", 1000, "payout-1")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestHoldTxRecordsPendingDebit(t *testing.T) {
	tx := &fakeTx{tags: []pgconn.CommandTag{tag("UPDATE 1"), tag("INSERT 0 1")}}

	entryID, err := holdTx(context.Background(), tx, "user-1", 5000, "payout-1")
	require.NoError(t, err)
	assert.NotEmpty(t, entryID)

	require.Len(t, tx.execSQL, 2)
	assert.Contains(t, tx.execSQL[0], "balance >= $1", "debit must be guarded against overdraft")

	entry := tx.execArgs[1]
	assert.Equal(t, TypeDebit, entry[2])
	assert.Equal(t, StatusPending, entry[4])
	assert.Equal(t, PayoutRef("payout-1"), entry[5])
}
