package notifications

import "time"

// Notification types rendered by the dashboard.
const (
	TypeSystem          = "system"
	TypeBroadcast       = "broadcast"
	TypePurchase        = "purchase"
	TypeReferral        = "referral"
	TypePayoutCompleted = "payout_completed"
	TypePayoutFailed    = "payout_failed"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
