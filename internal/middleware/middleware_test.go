package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"app/internal/access"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/token"
)

var testSecret = []byte("middleware-test-secret")

type stubProfileRepo struct {
	repository.ProfileRepository
	profiles map[string]*model.Principal
}

func (s *stubProfileRepo) GetByID(_ context.Context, id string) (*model.Principal, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func authedRequest(t *testing.T, userID, role string) *http.Request {
	t.Helper()
	tok, _, err := token.Issue(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func TestAuthMiddlewareResolvesPrincipal(t *testing.T) {
	grade := 2
	repo := &stubProfileRepo{profiles: map[string]*model.Principal{
		"u-1": {ID: "u-1", Role: model.RoleStudent, Grade: &grade, IsActive: true},
	}}

	var seen *model.Principal
	handler := AuthMiddleware(testSecret, repo, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		session, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, access.Allowed, session.CanAccess(access.StudentArea))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "u-1", "student"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "u-1", seen.ID)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*model.Principal{}}
	handler := AuthMiddleware(testSecret, repo, zerolog.Nop())(okHandler())

	// No header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic foo")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token for a deleted account.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "ghost", "student"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardEnforcesCategory(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*model.Principal{
		"asst": {ID: "asst", Role: model.RoleAssistant, IsActive: true},
	}}
	auth := AuthMiddleware(testSecret, repo, zerolog.Nop())

	adminOnly := auth(Guard(access.AdminArea, time.Second)(okHandler()))
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, authedRequest(t, "asst", "assistant"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	assistantOnly := auth(Guard(access.AssistantArea, time.Second)(okHandler()))
	rec = httptest.NewRecorder()
	assistantOnly.ServeHTTP(rec, authedRequest(t, "asst", "assistant"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardDeniesSuspendedAccount(t *testing.T) {
	repo := &stubProfileRepo{profiles: map[string]*model.Principal{
		"adm": {ID: "adm", Role: model.RoleAdmin, IsActive: false},
	}}
	handler := AuthMiddleware(testSecret, repo, zerolog.Nop())(Guard(access.AdminArea, time.Second)(okHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "adm", "admin"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardWithoutAuthDeniesProtectedRoutes(t *testing.T) {
	handler := Guard(access.StudentArea, time.Second)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
