package admin

import (
	"net/http"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

// SettingsHandler edits the store-wide settings.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type settingsRequest struct {
	StoreName     string `json:"store_name"`
	WhatsAppPhone string `json:"whatsapp_phone"`
	Greeting      string `json:"greeting" validate:"max=500"`
}

// Get handles GET /api/admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, settings)
}

// Save handles PUT /api/admin/settings
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	settings := &domain.StoreSettings{
		StoreName:     req.StoreName,
		WhatsAppPhone: req.WhatsAppPhone,
		Greeting:      req.Greeting,
	}
	if err := h.settings.Save(r.Context(), settings); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	requestLogger(r).Info("store settings saved")
	handler.WriteJSON(w, http.StatusOK, settings)
}
