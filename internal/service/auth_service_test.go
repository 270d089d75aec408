package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"app/internal/model"
	"app/internal/token"
)

var testJWTSecret = []byte("auth-test-secret")

func newAuthService(repo *fakeProfileRepo) AuthService {
	return NewAuthService(repo, testJWTSecret, time.Hour, time.Hour, testLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	grade := 4
	p, tok, err := svc.Register(ctx, "Lina", "Lina@Example.com", "secret1", &grade)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, model.RoleStudent, p.Role)
	require.Equal(t, model.PlanFree, p.Plan)
	require.Equal(t, "lina@example.com", p.Email)
	require.True(t, p.IsActive)

	claims, err := token.Validate(tok, testJWTSecret)
	require.NoError(t, err)
	require.Equal(t, p.ID, claims.Subject)
	require.Equal(t, "student", claims.Role)

	p2, _, err := svc.Login(ctx, "lina@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, p.ID, p2.ID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newFakeProfileRepo())

	_, _, err := svc.Register(context.Background(), "X", "x@example.com", "12345", nil)
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeProfileRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "A", "same@example.com", "secret1", nil)
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "B", "same@example.com", "secret2", nil)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	svc := newAuthService(newFakeProfileRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "A", "known@example.com", "secret1", nil)
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "unknown@example.com", "whatever")
	_, _, wrongErr := svc.Login(ctx, "known@example.com", "wrongpass")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	p, _, err := svc.Register(ctx, "A", "a@example.com", "secret1", nil)
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, p.ID, false))

	_, _, err = svc.Login(ctx, "a@example.com", "secret1")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	p, _, err := svc.Register(ctx, "A", "a@example.com", "secret1", nil)
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, p.ID, "wrong", "newsecret"), ErrInvalidCredentials)
	require.ErrorIs(t, svc.ChangePassword(ctx, p.ID, "secret1", "short"), ErrPasswordTooShort)
	require.NoError(t, svc.ChangePassword(ctx, p.ID, "secret1", "newsecret"))

	_, _, err = svc.Login(ctx, "a@example.com", "newsecret")
	require.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "A", "a@example.com", "secret1", nil)
	require.NoError(t, err)

	uid, tok, err := svc.RequestPasswordReset(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, uid)
	require.NotEmpty(t, tok)

	require.NoError(t, svc.ResetPassword(ctx, uid, tok, "brandnew"))

	_, _, err = svc.Login(ctx, "a@example.com", "brandnew")
	require.NoError(t, err)

	// The token was bound to the old hash, so it cannot be replayed.
	require.ErrorIs(t, svc.ResetPassword(ctx, uid, tok, "another1"), ErrInvalidCredentials)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc := newAuthService(newFakeProfileRepo())

	uid, tok, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	require.Empty(t, uid)
	require.Empty(t, tok)
}

func TestPasswordsAreStoredHashed(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newAuthService(repo)

	p, _, err := svc.Register(context.Background(), "A", "a@example.com", "secret1", nil)
	require.NoError(t, err)

	stored := repo.byID[p.ID]
	require.NotEqual(t, []byte("secret1"), stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("secret1")))
}
