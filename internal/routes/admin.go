package routes

import (
	"github.com/dukerupert/festa/internal/middleware"
	"github.com/dukerupert/festa/internal/router"
)

// RegisterAdminRoutes registers the admin JSON API under /api/admin.
// Everything except login requires a signed-in admin and a CSRF token.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	r.Post("/api/admin/login", deps.AuthHandler.Login,
		middleware.RateLimit(deps.LoginLimit),
		middleware.MaxBodySize(4*middleware.KB),
	)

	admin := r.Group(
		middleware.WithAdmin(deps.AuthService),
		middleware.RequireAdmin,
		middleware.CSRF(middleware.DefaultCSRFConfig(deps.Cookies)),
	)
	body := middleware.MaxBodySize()

	// Session
	admin.Get("/api/admin/me", deps.AuthHandler.Me)
	admin.Post("/api/admin/logout", deps.AuthHandler.Logout)

	// Components
	admin.Get("/api/admin/components", deps.ComponentHandler.List)
	admin.Post("/api/admin/components", deps.ComponentHandler.Create, body)
	admin.Get("/api/admin/components/{id}", deps.ComponentHandler.Get)
	admin.Put("/api/admin/components/{id}", deps.ComponentHandler.Update, body)
	admin.Delete("/api/admin/components/{id}", deps.ComponentHandler.Delete)
	admin.Put("/api/admin/components/{id}/disabled", deps.ComponentHandler.SetDisabled, body)
	admin.Post("/api/admin/components/{id}/image", deps.ComponentHandler.UploadImage,
		middleware.MaxBodySize(middleware.UploadMaxBodySize))

	// Sections
	admin.Get("/api/admin/sections", deps.SectionHandler.List)
	admin.Post("/api/admin/sections", deps.SectionHandler.Create, body)
	admin.Put("/api/admin/sections/{id}", deps.SectionHandler.Update, body)
	admin.Delete("/api/admin/sections/{id}", deps.SectionHandler.Delete)

	// Orders
	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get)
	admin.Put("/api/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus, body)

	// Settings
	admin.Get("/api/admin/settings", deps.SettingsHandler.Get)
	admin.Put("/api/admin/settings", deps.SettingsHandler.Save, body)
}
