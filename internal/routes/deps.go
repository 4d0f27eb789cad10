package routes

import (
	"net/http"
	"time"

	"github.com/dukerupert/festa/internal/cookie"
	"github.com/dukerupert/festa/internal/handler/admin"
	"github.com/dukerupert/festa/internal/handler/storefront"
	"github.com/dukerupert/festa/internal/middleware"
	"github.com/dukerupert/festa/internal/service"
)

// StorefrontDeps contains dependencies for the shopper API
type StorefrontDeps struct {
	CatalogHandler  *storefront.CatalogHandler
	KitHandler      *storefront.KitHandler
	CartHandler     *storefront.CartHandler
	CheckoutHandler *storefront.CheckoutHandler

	// Shopper session cookie
	Cookies       *cookie.Config
	SessionCookie string
	SessionTTL    time.Duration

	// CheckoutLimit throttles order submission per client IP
	CheckoutLimit middleware.RateLimiterConfig
}

// AdminDeps contains dependencies for the admin API
type AdminDeps struct {
	AuthService service.AdminAuthService
	Cookies     *cookie.Config

	// Auth
	AuthHandler *admin.AuthHandler

	// Catalog
	ComponentHandler *admin.ComponentHandler
	SectionHandler   *admin.SectionHandler

	// Orders
	OrderHandler *admin.OrderHandler

	// Settings
	SettingsHandler *admin.SettingsHandler

	// LoginLimit throttles sign-in attempts per client IP
	LoginLimit middleware.RateLimiterConfig
}

// SystemDeps contains dependencies for operational endpoints
type SystemDeps struct {
	// Health reports readiness, typically by pinging the database
	Health http.HandlerFunc

	// Metrics serves the Prometheus exposition format. Nil disables /metrics.
	Metrics http.Handler

	// UploadsPrefix and UploadsDir serve locally stored images. Empty
	// UploadsDir disables the route.
	UploadsPrefix string
	UploadsDir    string
}
