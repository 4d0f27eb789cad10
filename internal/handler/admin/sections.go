package admin

import (
	"net/http"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

// SectionHandler manages catalog sections.
type SectionHandler struct {
	sections service.SectionService
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sections service.SectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

// sectionRequest leaves Slug empty to derive it from the name.
type sectionRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	Slug      string `json:"slug" validate:"max=80"`
	SortOrder int    `json:"sort_order"`
	Visible   bool   `json:"visible"`
}

// List handles GET /api/admin/sections, hidden sections included.
func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.sections.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if sections == nil {
		sections = []domain.Section{}
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// Create handles POST /api/admin/sections
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	section := &domain.Section{Name: req.Name, Slug: req.Slug, SortOrder: req.SortOrder, Visible: req.Visible}
	if err := h.sections.Create(r.Context(), section); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, section)
}

// Update handles PUT /api/admin/sections/{id}
func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req sectionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	section := &domain.Section{ID: id, Name: req.Name, Slug: req.Slug, SortOrder: req.SortOrder, Visible: req.Visible}
	if err := h.sections.Update(r.Context(), section); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, section)
}

// Delete handles DELETE /api/admin/sections/{id}
func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.sections.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
