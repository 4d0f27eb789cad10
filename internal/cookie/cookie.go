// Package cookie sets and reads the cookies that carry the shopper session,
// the admin session and the admin CSRF token.
package cookie

import (
	"net/http"
	"time"
)

// Cookie names used throughout the application.
const (
	// ShopperCookieName is the default name of the anonymous shopper session.
	ShopperCookieName = "festa_session"

	// AdminCookieName carries the signed-in admin session.
	AdminCookieName = "festa_admin"

	// CSRFCookieName stores the admin CSRF token.
	CSRFCookieName = "festa_csrf"
)

// Config holds the attributes shared by every cookie the app sets.
type Config struct {
	// Secure requires HTTPS. True in production.
	Secure bool

	// Domain scopes cookies; empty means the host that set them.
	Domain string
}

// NewConfig creates a new cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets an HttpOnly session cookie that lives for maxAge.
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetReadable sets a cookie scripts can read, for tokens a client must echo
// back in a header.
func (c *Config) SetReadable(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear removes a cookie set by this Config.
func (c *Config) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
