// internal/form/csrf.go
//
// Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  The server must
//   verify this token on POST to ensure the request came from a page it
//   rendered.  Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – keyed with the configured secret.  Verifies authenticity.
//
//   Verification checks the signature and that the timestamp is within
//   MaxAge.  No server-side sessions are required.
//
// Workflow
//   •  NewTokens(key)   → signer built from config (random key if empty).
//   •  t.Generate()     → token string for the renderer.
//   •  t.Verify(tok)    → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	minKeyLen  = 32

	// MaxAge is how long a rendered form stays submittable.
	MaxAge = 2 * time.Hour
)

// Tokens signs and verifies CSRF tokens.  Safe for concurrent use.
type Tokens struct {
	key []byte
	now func() time.Time
}

// NewTokens builds a signer from a base64url key of at least 32 decoded
// bytes.  An empty key yields a random per-process key, which invalidates
// open forms on restart.  The second result reports whether the key was
// generated.
func NewTokens(keyB64 string) (*Tokens, bool, error) {
	if keyB64 == "" {
		key := make([]byte, minKeyLen)
		if _, err := rand.Read(key); err != nil {
			return nil, false, fmt.Errorf("csrf key: %w", err)
		}
		return &Tokens{key: key, now: time.Now}, true, nil
	}

	key, err := base64.RawURLEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, false, fmt.Errorf("csrf key: not base64url: %w", err)
	}
	if len(key) < minKeyLen {
		return nil, false, fmt.Errorf("csrf key: need at least %d bytes, got %d", minKeyLen, len(key))
	}
	return &Tokens{key: key, now: time.Now}, false, nil
}

// Generate creates a new token.  Call once per form render.
func (t *Tokens) Generate() (string, error) {
	buf := make([]byte, nonceBytes+8, tokenBytes)
	if _, err := rand.Read(buf[:nonceBytes]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(buf[nonceBytes:], uint64(t.now().UnixMicro()))
	buf = append(buf, t.sign(buf[:nonceBytes], buf[nonceBytes:])...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok passes HMAC and age checks.
func (t *Tokens) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := t.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		// Older than MaxAge, or from the future beyond clock skew.
		return false
	}
	return hmac.Equal(sig, t.sign(nonce, tsBytes))
}

func (t *Tokens) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, t.key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
