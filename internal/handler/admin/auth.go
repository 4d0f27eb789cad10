package admin

import (
	"net/http"
	"time"

	"github.com/dukerupert/festa/internal/cookie"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

// AuthHandler signs the store admin in and out.
type AuthHandler struct {
	auth       service.AdminAuthService
	cookies    *cookie.Config
	sessionTTL time.Duration
}

// NewAuthHandler creates a new admin auth handler
func NewAuthHandler(auth service.AdminAuthService, cookies *cookie.Config, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=200"`
}

type adminResponse struct {
	Email string `json:"email"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sessionID, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.SetSession(w, cookie.AdminCookieName, sessionID, h.sessionTTL)
	handler.WriteJSON(w, http.StatusOK, adminResponse{Email: req.Email})
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if admin := domain.AdminFromContext(r.Context()); admin != nil {
		h.auth.Logout(r.Context(), admin.SessionID)
	}
	h.cookies.Clear(w, cookie.AdminCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/admin/me. Clients call it first to learn whether
// they are signed in and to pick up the CSRF token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := domain.MustAdmin(r.Context())
	handler.WriteJSON(w, http.StatusOK, adminResponse{Email: admin.Email})
}
