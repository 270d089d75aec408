package middleware

import (
	"context"
	"net/http"
	"time"

	"app/internal/access"
)

// Guard enforces a route category on top of AuthMiddleware. The session's
// decision is awaited with a bounded timeout; a session that never resolves
// is denied rather than let through.
func Guard(category access.Category, timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				// No auth middleware ran: the caller is anonymous.
				session = access.NewSession()
				session.ResolveAnonymous()
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			if session.Authorize(ctx, category) != access.Allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
