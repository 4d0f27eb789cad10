package middleware

import (
	"net/http"

	"github.com/dukerupert/festa/internal/cookie"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/service"
)

// WithAdmin extracts the admin from the admin session cookie and adds it to
// the request context. It never rejects; pair it with RequireAdmin.
func WithAdmin(authService service.AdminAuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := cookie.Get(r, cookie.AdminCookieName)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := authService.Authenticate(r.Context(), sessionID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 401 unless WithAdmin found a live admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAdmin(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
