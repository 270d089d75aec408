package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reset tokens are single-use by construction: the signature covers the
// principal's current password hash, so changing the password invalidates
// any token issued before the change.

var resetSalt = []byte("app.internal.token.reset")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeUID encodes a principal id for use in a reset link.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(raw), nil
}

// MakeResetToken generates a password reset token bound to the principal's
// id and current password hash.
func MakeResetToken(secret []byte, id string, passwordHash []byte, now time.Time) string {
	return makeTokenWithTimestamp(secret, id, passwordHash, now.Unix())
}

// VerifyResetToken checks a reset token's signature and age.
func VerifyResetToken(secret []byte, id string, passwordHash []byte, tok string, now time.Time, ttl time.Duration) error {
	if tok == "" {
		return ErrInvalidToken
	}
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}
	raw, err := b32.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	expected := makeTokenWithTimestamp(secret, id, passwordHash, ts)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(tok)) == 0 {
		return ErrInvalidToken
	}

	if now.Sub(time.Unix(ts, 0)) > ttl {
		return ErrTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(secret []byte, id string, passwordHash []byte, ts int64) string {
	tsB32 := b32.EncodeToString([]byte(strconv.FormatInt(ts, 10)))
	return fmt.Sprintf("%s-%s", tsB32, sign(secret, hashValue(id, passwordHash, ts)))
}

func sign(secret, val []byte) string {
	key := sha256.Sum256(append(resetSalt, secret...))
	h := hmac.New(sha256.New, key[:])
	h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(id string, passwordHash []byte, ts int64) []byte {
	var val bytes.Buffer
	val.WriteString(id)
	val.Write(passwordHash)
	val.WriteString(strconv.FormatInt(ts, 10))
	return val.Bytes()
}
