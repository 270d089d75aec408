package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndValidate(t *testing.T) {
	signed, exp, err := Issue(testSecret, "user-1", "student", time.Hour)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := Validate(signed, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "student", claims.Role)
}

func TestValidateWrongSecret(t *testing.T) {
	signed, _, err := Issue(testSecret, "user-1", "admin", time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, []byte("other-secret"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	signed, _, err := Issue(testSecret, "user-1", "student", -time.Minute)
	require.NoError(t, err)

	_, err = Validate(signed, testSecret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateGarbage(t *testing.T) {
	_, err := Validate("not-a-token", testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenRoundTrip(t *testing.T) {
	now := time.Now()
	hash := []byte("bcrypt-hash")
	tok := MakeResetToken(testSecret, "user-1", hash, now)

	require.NoError(t, VerifyResetToken(testSecret, "user-1", hash, tok, now, 72*time.Hour))
}

func TestResetTokenInvalidatedByPasswordChange(t *testing.T) {
	now := time.Now()
	tok := MakeResetToken(testSecret, "user-1", []byte("old-hash"), now)

	err := VerifyResetToken(testSecret, "user-1", []byte("new-hash"), tok, now, 72*time.Hour)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenExpired(t *testing.T) {
	issued := time.Now().Add(-100 * time.Hour)
	hash := []byte("h")
	tok := MakeResetToken(testSecret, "user-1", hash, issued)

	err := VerifyResetToken(testSecret, "user-1", hash, tok, time.Now(), 72*time.Hour)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetTokenTampered(t *testing.T) {
	now := time.Now()
	hash := []byte("h")
	tok := MakeResetToken(testSecret, "user-1", hash, now)

	require.Error(t, VerifyResetToken(testSecret, "user-2", hash, tok, now, time.Hour))
	require.Error(t, VerifyResetToken(testSecret, "user-1", hash, tok+"x", now, time.Hour))
	require.Error(t, VerifyResetToken(testSecret, "user-1", hash, "", now, time.Hour))
}

func TestUIDEncoding(t *testing.T) {
	uid := EncodeUID("3f6c0a52-9d1e-4a7b-8a30-1c2d3e4f5a6b")
	id, err := DecodeUID(uid)
	require.NoError(t, err)
	require.Equal(t, "3f6c0a52-9d1e-4a7b-8a30-1c2d3e4f5a6b", id)

	_, err = DecodeUID("%%%")
	require.Error(t, err)
}
