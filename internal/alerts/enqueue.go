package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	base = strings.TrimRight(base, "/")

	subject := fmt.Sprintf("Welcome to LearnHub, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining LearnHub.\n\nOpen your dashboard: %s\n\nShare your referral code from the dashboard to start earning.", name, base)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePurchaseReceipt mails the buyer after a confirmed purchase
func EnqueuePurchaseReceipt(userID, email, courseTitle string, amount int64) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your LearnHub receipt",
		Body:    fmt.Sprintf("Your purchase of %s is confirmed. Amount paid: %s.", courseTitle, formatAmount(amount)),
	}
	payload := PurchaseReceiptPayload{UserID: userID, Email: email, CourseTitle: courseTitle, Amount: amount, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPurchaseReceipt, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePayoutCompleted mails the user once a withdrawal is paid out
func EnqueuePayoutCompleted(userID, email, payoutID string, amount int64) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your withdrawal has been paid",
		Body:    fmt.Sprintf("Payout %s for %s has been completed and sent to your payout method.", payoutID, formatAmount(amount)),
	}
	payload := PayoutCompletedPayload{UserID: userID, Email: email, PayoutID: payoutID, Amount: amount, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPayoutCompleted, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueReferralEarned mails the referrer about a new commission
func EnqueueReferralEarned(userID, email string, amount int64) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "You earned a referral commission",
		Body:    fmt.Sprintf("Someone you referred just bought a course. %s has been added to your wallet.", formatAmount(amount)),
	}
	payload := ReferralEarnedPayload{UserID: userID, Email: email, Amount: amount, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskReferralEarned, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// formatAmount renders paise as rupees for email bodies.
func formatAmount(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}
