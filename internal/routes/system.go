package routes

import (
	"net/http"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/router"
)

// RegisterSystemRoutes registers health, metrics, uploaded images and the
// JSON catch-all for unknown paths.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	r.Get("/health", deps.Health)

	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.UploadsDir != "" {
		r.Static(deps.UploadsPrefix, deps.UploadsDir)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.ErrorResponse(w, req, domain.Errorf(domain.ENOTFOUND, "router", "No route matches %s %s", req.Method, req.URL.Path))
	})
}
