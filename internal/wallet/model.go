package wallet

import "time"

// Transaction directions.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction and payout statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payout method kinds.
const (
	MethodUPI  = "upi"
	MethodBank = "bank"
)

type Wallet struct {
	UserID         string    `json:"user_id"`
	Balance        int64     `json:"balance"`
	TotalEarned    int64     `json:"total_earned"`
	TotalWithdrawn int64     `json:"total_withdrawn"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is an append-only ledger entry. Amount is always positive;
// Type carries the direction.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Payout struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	MethodID    string     `json:"method_id"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	Reference   string     `json:"reference,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type PayoutMethod struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"`
	UPIID         string    `json:"upi_id,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	IFSC          string    `json:"ifsc,omitempty"`
	Label         string    `json:"label,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// PayoutRef builds the ledger reference for a payout's debit entry.
func PayoutRef(payoutID string) string { return "payout:" + payoutID }

// PurchaseRef builds the ledger reference for a referral commission credit.
func PurchaseRef(purchaseID string) string { return "purchase:" + purchaseID }

// AdjustmentRef builds the ledger reference for a manual admin credit.
func AdjustmentRef(adjustmentID string) string { return "adjustment:" + adjustmentID }
