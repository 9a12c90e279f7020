package courses

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-ng/learnhub/internal/wallet"
)

// fakeRow is a scripted pgx.Row. Scan copies vals into the destinations;
// a nil val leaves a pointer destination nil.
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
			switch p := d.(type) {
			case *string:
				*p = v
			case **string:
				s := v
				*p = &s
			}
		case int64:
			*(d.(*int64)) = v
		case bool:
			*(d.(*bool)) = v
		case nil:
			if p, ok := d.(**string); ok {
				*p = nil
			}
		}
	}
	return nil
}

type fakeTx struct {
	pgx.Tx

	rows []fakeRow

	execSQL    []string
	execArgs   [][]any
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	t.execArgs = append(t.execArgs, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
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

func TestConfirmPurchaseCreditsReferrer(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{
		{vals: []any{"course-1", int64(50000), StatusPending}},
		{vals: []any{"referrer-1"}},
	}}

	conf, err := confirmPurchase(context.Background(), &fakeDB{tx: tx}, "buyer-1", "purchase-1")
	require.NoError(t, err)
	assert.True(t, tx.committed)

	assert.Equal(t, "purchase-1", conf.PurchaseID)
	assert.Equal(t, "course-1", conf.CourseID)
	assert.Equal(t, int64(50000), conf.Amount)
	assert.False(t, conf.AlreadyProcessed)

	// The handler invalidates the referrer's cached wallet off these fields.
	assert.Equal(t, "referrer-1", conf.ReferrerID)
	assert.Equal(t, int64(5000), conf.Commission)

	// purchase status, wallet credit, ledger entry
	require.Len(t, tx.execSQL, 3)
	assert.Contains(t, tx.execSQL[0], "UPDATE purchases")
	assert.Contains(t, tx.execSQL[1], "total_earned = total_earned + $1")
	assert.Contains(t, tx.execSQL[2], "INSERT INTO wallet_transactions")

	entry := tx.execArgs[2]
	assert.Equal(t, "referrer-1", entry[1])
	assert.Equal(t, int64(5000), entry[3])
	assert.Equal(t, wallet.PurchaseRef("purchase-1"), entry[5])
}

func TestConfirmPurchaseWithoutReferrer(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{
		{vals: []any{"course-1", int64(50000), StatusPending}},
		{vals: []any{nil}},
	}}

	conf, err := confirmPurchase(context.Background(), &fakeDB{tx: tx}, "buyer-1", "purchase-1")
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Empty(t, conf.ReferrerID)
	assert.Zero(t, conf.Commission)

	require.Len(t, tx.execSQL, 1, "no wallet writes without a referrer")
	assert.Contains(t, tx.execSQL[0], "UPDATE purchases")
}

func TestConfirmPurchaseZeroCommission(t *testing.T) {
	old := CommissionPct
	CommissionPct = 0
	defer func() { CommissionPct = old }()

	tx := &fakeTx{rows: []fakeRow{
		{vals: []any{"course-1", int64(50000), StatusPending}},
		{vals: []any{"referrer-1"}},
	}}

	conf, err := confirmPurchase(context.Background(), &fakeDB{tx: tx}, "buyer-1", "purchase-1")
	require.NoError(t, err)
	assert.Zero(t, conf.Commission)
	require.Len(t, tx.execSQL, 1)
}

func TestConfirmPurchaseReplayIsIdempotent(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{
		{vals: []any{"course-1", int64(50000), StatusCompleted}},
	}}

	conf, err := confirmPurchase(context.Background(), &fakeDB{tx: tx}, "buyer-1", "purchase-1")
	require.NoError(t, err)
	assert.True(t, conf.AlreadyProcessed)
	assert.Empty(t, tx.execSQL, "a replay must not credit the referrer again")
	assert.False(t, tx.committed)
}

func TestConfirmPurchaseNotFound(t *testing.T) {
	tx := &fakeTx{rows: []fakeRow{{err: pgx.ErrNoRows}}}

	_, err := confirmPurchase(context.Background(), &fakeDB{tx: tx}, "buyer-1", "missing")
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestPaymentURL(t *testing.T) {
	old := PaymentURLBase
	defer func() { PaymentURLBase = old }()

	PaymentURLBase = ""
	assert.Equal(t, "https://pay.learnhub.dev/mock/p1", paymentURL("p1"))

	PaymentURLBase = "https://pay.example.com/checkout/"
	assert.Equal(t, "https://pay.example.com/checkout/p1", paymentURL("p1"))
}
