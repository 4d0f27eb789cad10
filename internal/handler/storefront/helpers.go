package storefront

import (
	"net/http"

	"github.com/dukerupert/festa/internal/domain"
)

// sessionID returns the shopper session set by middleware.WithSession.
func sessionID(r *http.Request) (string, error) {
	id := domain.SessionFromContext(r.Context())
	if id == "" {
		return "", domain.Unauthorized("storefront.session", "Session cookie required")
	}
	return id, nil
}
