package hooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Hook-Signature"

var ErrBadSignature = errors.New("webhook signature mismatch")

// Sign computes the hex signature for a payload. Exposed so senders and
// tests can build valid requests.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the signature header against the raw body before
// anything in the payload is trusted.
func VerifySignature(secret, body []byte, got string) error {
	if got == "" {
		return ErrBadSignature
	}
	want := Sign(secret, body)
	if !hmac.Equal([]byte(want), []byte(got)) {
		return ErrBadSignature
	}
	return nil
}
