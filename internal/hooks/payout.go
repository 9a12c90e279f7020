package hooks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/alerts"
	"github.com/learnhub-ng/learnhub/internal/db"
	"github.com/learnhub-ng/learnhub/internal/notifications"
	"github.com/learnhub-ng/learnhub/internal/wallet"
)

type payoutWebhookBody struct {
	Message string `json:"message"`
}

// PayoutWebhook receives the payment provider's chat-bot confirmation and
// settles the payout. Replays are acknowledged without a second debit.
func PayoutWebhook(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
			return
		}

		if err := VerifySignature([]byte(secret), body, c.GetHeader(SignatureHeader)); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}

		var req payoutWebhookBody
		if err := json.Unmarshal(body, &req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		payoutID, reference, err := ParsePaidCommand(req.Message)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		st, err := wallet.SettlePayout(c.Request.Context(), db.Conn, payoutID, reference)
		if err != nil {
			switch {
			case errors.Is(err, wallet.ErrPayoutNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
			case errors.Is(err, wallet.ErrAlreadySettled):
				c.JSON(http.StatusConflict, gin.H{"error": "payout already settled"})
			default:
				logrus.Errorf("payout webhook: settle %s failed: %v", payoutID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not settle payout"})
			}
			return
		}

		if !st.AlreadyProcessed {
			ctx := c.Request.Context()
			if err := notifications.Create(ctx, db.Conn, st.UserID,
				notifications.TypePayoutCompleted, "Withdrawal completed", ""); err != nil {
				logrus.Warnf("payout webhook: notification write failed: %v", err)
			}
			var email string
			if err := db.Conn.QueryRow(ctx,
				`SELECT email FROM users WHERE id = $1`, st.UserID,
			).Scan(&email); err == nil {
				_ = alerts.EnqueuePayoutCompleted(st.UserID, email, st.PayoutID, st.Amount)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"payout_id":         st.PayoutID,
			"status":            wallet.StatusCompleted,
			"already_processed": st.AlreadyProcessed,
		})
	}
}
