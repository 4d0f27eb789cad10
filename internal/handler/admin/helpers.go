package admin

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/festa/internal/middleware"
)

// requestLogger is the request-scoped logger carrying the admin email.
func requestLogger(r *http.Request) *slog.Logger {
	return middleware.GetLogger(r.Context())
}
