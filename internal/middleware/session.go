package middleware

import (
	"net/http"
	"time"

	"github.com/dukerupert/festa/internal/cookie"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/service"
)

// WithSession gives every shopper an anonymous session. The id from the
// named cookie is reused when present; otherwise a new one is issued. The
// cookie is refreshed on each request so active shoppers keep their kit and
// cart.
func WithSession(cookies *cookie.Config, name string, maxAge time.Duration) func(http.Handler) http.Handler {
	if name == "" {
		name = cookie.ShopperCookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := cookie.Get(r, name)
			if !validSessionID(sessionID) {
				var err error
				sessionID, err = service.GenerateSessionID()
				if err != nil {
					respondInternalError(w, r, err)
					return
				}
			}
			cookies.SetSession(w, name, sessionID, maxAge)

			ctx := domain.NewContextWithSession(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validSessionID accepts only ids shaped like GenerateSessionID output so a
// client cannot pick an arbitrarily long key.
func validSessionID(id string) bool {
	if len(id) != 44 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '=':
		default:
			return false
		}
	}
	return true
}
