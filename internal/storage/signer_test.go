package storage

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	s := NewSigner("download-secret", "https://cdn.learnhub.dev/assets")
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	raw := s.SignedURL("courses/go-basics.zip", now)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	expires := u.Query().Get("expires")
	sig := u.Query().Get("sig")
	assert.Equal(t, strconv.FormatInt(now.Add(DownloadTTL).Unix(), 10), expires)

	err = s.Verify("courses/go-basics.zip", expires, sig, now)
	assert.NoError(t, err)

	// Still valid one second before expiry.
	err = s.Verify("courses/go-basics.zip", expires, sig, now.Add(DownloadTTL-time.Second))
	assert.NoError(t, err)
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("download-secret", "https://cdn.learnhub.dev/assets")
	now := time.Now()

	raw := s.SignedURL("a.zip", now)
	u, _ := url.Parse(raw)

	err := s.Verify("a.zip", u.Query().Get("expires"), u.Query().Get("sig"), now.Add(DownloadTTL+time.Second))
	assert.ErrorIs(t, err, ErrURLExpired)
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := NewSigner("download-secret", "https://cdn.learnhub.dev/assets")
	now := time.Now()

	raw := s.SignedURL("a.zip", now)
	u, _ := url.Parse(raw)
	expires := u.Query().Get("expires")
	sig := u.Query().Get("sig")

	// Different asset with the same signature.
	assert.ErrorIs(t, s.Verify("b.zip", expires, sig, now), ErrBadSignature)

	// Pushed-out expiry invalidates the signature.
	later := strconv.FormatInt(now.Add(48*time.Hour).Unix(), 10)
	assert.ErrorIs(t, s.Verify("a.zip", later, sig, now), ErrBadSignature)

	// Signature minted with another secret.
	other := NewSigner("other-secret", "https://cdn.learnhub.dev/assets")
	assert.ErrorIs(t, other.Verify("a.zip", expires, sig, now), ErrBadSignature)
}

func TestVerifyMalformedExpiry(t *testing.T) {
	s := NewSigner("download-secret", "https://cdn.learnhub.dev/assets")

	err := s.Verify("a.zip", "not-a-number", "whatever", time.Now())
	assert.ErrorIs(t, err, ErrMalformedExpiry)
}
