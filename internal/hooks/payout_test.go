package hooks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// The pre-database stages of the webhook: signature check, body shape,
// command parse. Settlement itself is covered by the wallet package tests.

func postWebhook(secret, body, sig string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hooks/payout", PayoutWebhook(secret))

	req := httptest.NewRequest(http.MethodPost, "/hooks/payout", strings.NewReader(body))
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPayoutWebhookRejectsMissingSignature(t *testing.T) {
	rec := postWebhook("hook-secret", `{"message":"/paid abc"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayoutWebhookRejectsBadSignature(t *testing.T) {
	body := `{"message":"/paid abc"}`
	sig := Sign([]byte("other-secret"), []byte(body))

	rec := postWebhook("hook-secret", body, sig)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayoutWebhookRejectsMalformedBody(t *testing.T) {
	body := `not json`
	sig := Sign([]byte("hook-secret"), []byte(body))

	rec := postWebhook("hook-secret", body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayoutWebhookRejectsUnknownCommand(t *testing.T) {
	body := `{"message":"/refund 8b5c0a1e-7d43-4b9a-9d1e-2f6a8c4b0d11"}`
	sig := Sign([]byte("hook-secret"), []byte(body))

	rec := postWebhook("hook-secret", body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown command")
}

func TestPayoutWebhookRejectsBadPayoutID(t *testing.T) {
	body := `{"message":"/paid not-a-uuid"}`
	sig := Sign([]byte("hook-secret"), []byte(body))

	rec := postWebhook("hook-secret", body, sig)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed payout id")
}
