package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail    = "email:welcome"
	TaskPurchaseReceipt = "email:purchase_receipt"
	TaskPayoutCompleted = "email:payout_completed"
	TaskReferralEarned  = "email:referral_earned"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Purchase receipt payload
type PurchaseReceiptPayload struct {
	UserID      string        `json:"user_id"`
	Email       string        `json:"email"`
	CourseTitle string        `json:"course_title"`
	Amount      int64         `json:"amount"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

// Payout completed payload
type PayoutCompletedPayload struct {
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	PayoutID string        `json:"payout_id"`
	Amount   int64         `json:"amount"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Referral commission payload
type ReferralEarnedPayload struct {
	UserID   string        `json:"user_id"`
	Email    string        `json:"email"`
	Amount   int64         `json:"amount"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
