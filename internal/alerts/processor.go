package alerts

import (
	"context"
	"encoding/json"
	"os"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		if host := os.Getenv("REDIS_HOST"); host != "" {
			port := os.Getenv("REDIS_PORT")
			if port == "" {
				port = "6379"
			}
			redisAddr = host + ":" + port
		} else {
			redisAddr = "127.0.0.1:6379"
		}
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr, Password: os.Getenv("REDIS_PASS")}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskPurchaseReceipt, handlePurchaseReceipt)
	mux.HandleFunc(TaskPayoutCompleted, handlePayoutCompleted)
	mux.HandleFunc(TaskReferralEarned, handleReferralEarned)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			logrus.Errorf("asynq server stopped: %v", err)
		}
	}()

	logrus.Infof("asynq initialized (addr=%s)", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		logrus.Errorf("[notify] welcome email send failed: %v", err)
		return err
	}
	logrus.Infof("[notify] welcome email sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func handlePurchaseReceipt(_ context.Context, t *asynq.Task) error {
	var p PurchaseReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		logrus.Errorf("[notify] purchase receipt send failed: %v", err)
		return err
	}
	logrus.Infof("[notify] purchase receipt sent -> to=%s course=%q", p.Email, p.CourseTitle)
	return nil
}

func handlePayoutCompleted(_ context.Context, t *asynq.Task) error {
	var p PayoutCompletedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		logrus.Errorf("[notify] payout email send failed: %v", err)
		return err
	}
	logrus.Infof("[notify] payout email sent -> payout=%s to=%s", p.PayoutID, p.Email)
	return nil
}

func handleReferralEarned(_ context.Context, t *asynq.Task) error {
	var p ReferralEarnedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		logrus.Errorf("[notify] referral email send failed: %v", err)
		return err
	}
	logrus.Infof("[notify] referral email sent -> to=%s", p.Email)
	return nil
}
