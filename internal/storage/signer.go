package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DownloadTTL is the fixed validity window for signed download URLs.
const DownloadTTL = 3600 * time.Second

var (
	ErrURLExpired      = errors.New("signed url expired")
	ErrBadSignature    = errors.New("signature mismatch")
	ErrMalformedExpiry = errors.New("malformed expiry")
)

// Signer issues capability URLs for stored course assets. Anyone holding a
// valid URL can fetch the object until the expiry passes.
type Signer struct {
	Secret  []byte
	BaseURL string
}

func NewSigner(secret, baseURL string) *Signer {
	return &Signer{Secret: []byte(secret), BaseURL: baseURL}
}

// SignedURL returns a URL for assetKey valid for DownloadTTL from now.
func (s *Signer) SignedURL(assetKey string, now time.Time) string {
	expires := now.Add(DownloadTTL).Unix()
	sig := s.sign(assetKey, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)
	return s.BaseURL + "/" + assetKey + "?" + q.Encode()
}

// Verify checks a previously issued signature for assetKey.
func (s *Signer) Verify(assetKey, expiresStr, sig string, now time.Time) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrMalformedExpiry
	}
	if now.Unix() > expires {
		return ErrURLExpired
	}
	want := s.sign(assetKey, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

func (s *Signer) sign(assetKey string, expires int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	fmt.Fprintf(mac, "%s\n%d", assetKey, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
