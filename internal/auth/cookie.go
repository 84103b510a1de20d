package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedCookie = errors.New("malformed cookie")
	ErrBadSignature    = errors.New("invalid cookie signature")
	ErrCookieExpired   = errors.New("cookie expired")
)

var b64 = base64.RawURLEncoding

// CookieSigner binds a value to an expiry with HMAC-SHA256. The wire form is
// "value.expires.signature", each part unpadded base64url except expires,
// which is unix seconds (0 for no expiry).
type CookieSigner struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCookieSigner returns a signer whose cookies stop verifying after maxAge.
// A zero maxAge issues cookies that never expire.
func NewCookieSigner(secret string, maxAge time.Duration) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

func (s *CookieSigner) MaxAge() time.Duration { return s.maxAge }

func (s *CookieSigner) Sign(value string) string {
	var expires int64
	if s.maxAge > 0 {
		expires = s.now().Add(s.maxAge).Unix()
	}
	payload := b64.EncodeToString([]byte(value)) + "." + strconv.FormatInt(expires, 10)
	return payload + "." + b64.EncodeToString(s.mac(payload))
}

// Verify returns the signed value, or an error when the cookie was tampered
// with or has expired.
func (s *CookieSigner) Verify(signed string) (string, error) {
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return "", ErrMalformedCookie
	}
	value, err := b64.DecodeString(parts[0])
	if err != nil {
		return "", ErrMalformedCookie
	}
	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrMalformedCookie
	}
	signature, err := b64.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedCookie
	}

	if !hmac.Equal(signature, s.mac(parts[0]+"."+parts[1])) {
		return "", ErrBadSignature
	}
	if expires != 0 && s.now().Unix() >= expires {
		return "", ErrCookieExpired
	}
	return string(value), nil
}

func (s *CookieSigner) mac(payload string) []byte {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(payload))
	return m.Sum(nil)
}
