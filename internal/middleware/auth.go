// Package middleware contains the HTTP middleware chain: request logging,
// authentication, and the route guard.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"app/internal/access"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/token"
)

// contextKey is unexported to avoid context collisions.
type contextKey string

const (
	principalContextKey = contextKey("principal")
	sessionContextKey   = contextKey("session")
)

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*model.Principal)
	return p, ok
}

// SessionFromContext returns the request's access session, if any.
func SessionFromContext(ctx context.Context) (*access.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*access.Session)
	return s, ok
}

// AuthMiddleware validates the bearer token, loads the caller's profile, and
// resolves the request's access session with it. Requests without a valid
// token never reach the wrapped handler.
func AuthMiddleware(jwtSecret []byte, profiles repository.ProfileRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("middleware", "auth").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := token.Validate(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			session := access.NewSession()
			p, err := profiles.GetByID(r.Context(), claims.Subject)
			if err != nil {
				// A token for a deleted account resolves to anonymous, so
				// the guard denies it instead of a dangling 500.
				session.ResolveAnonymous()
				log.Warn().Err(err).Str("user_id", claims.Subject).Msg("Token subject has no profile")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			session.Resolve(p)

			ctx := context.WithValue(r.Context(), principalContextKey, p)
			ctx = context.WithValue(ctx, sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
