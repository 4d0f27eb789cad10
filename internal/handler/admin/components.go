package admin

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

// ComponentHandler manages catalog components.
type ComponentHandler struct {
	components service.ComponentService
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(components service.ComponentService) *ComponentHandler {
	return &ComponentHandler{components: components}
}

// componentRequest is the editable part of a component. Image and
// timestamps are managed by the server.
type componentRequest struct {
	Name        string                `json:"name" validate:"required,max=120"`
	Description string                `json:"description" validate:"max=2000"`
	Price       decimal.Decimal       `json:"price"`
	Kind        domain.ComponentKind  `json:"kind" validate:"required"`
	Unit        domain.Unit           `json:"unit" validate:"required"`
	Dimensions  domain.Dimensions     `json:"dimensions"`
	SectionID   uuid.NullUUID         `json:"section_id"`
	InStock     bool                  `json:"in_stock"`
	SortOrder   int                   `json:"sort_order"`
	Container   *domain.ContainerSpec `json:"container"`
	Fill        *domain.FillSpec      `json:"fill"`
	Ribbon      *domain.RibbonSpec    `json:"ribbon"`
	Recipe      *domain.RecipeSpec    `json:"recipe"`
}

func (req componentRequest) apply(c *domain.Component) {
	c.Name = req.Name
	c.Description = req.Description
	c.Price = req.Price
	c.Kind = req.Kind
	c.Unit = req.Unit
	c.Dimensions = req.Dimensions
	c.SectionID = req.SectionID
	c.InStock = req.InStock
	c.SortOrder = req.SortOrder
	c.Container = req.Container
	c.Fill = req.Fill
	c.Ribbon = req.Ribbon
	c.Recipe = req.Recipe
}

type disabledRequest struct {
	Disabled bool `json:"disabled"`
}

// List handles GET /api/admin/components. Disabled components are included.
func (h *ComponentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ComponentFilter{
		Kind:            domain.ComponentKind(q.Get("kind")),
		IncludeDisabled: true,
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		handler.ErrorResponse(w, r, domain.NewValidationError("admin.components.list", "kind", "unknown component kind"))
		return
	}
	sectionID, err := handler.ParseOptionalUUID("section_id", q.Get("section_id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter.SectionID = sectionID

	components, err := h.components.List(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if components == nil {
		components = []domain.Component{}
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"components": components})
}

// Get handles GET /api/admin/components/{id}
func (h *ComponentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	c, err := h.components.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, c)
}

// Create handles POST /api/admin/components
func (h *ComponentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	c := &domain.Component{}
	req.apply(c)
	if err := h.components.Create(r.Context(), c); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	requestLogger(r).Info("component created", "component_id", c.ID, "name", c.Name)
	handler.WriteJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/admin/components/{id}. The image and disabled
// flag are kept; they have their own endpoints.
func (h *ComponentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req componentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	c, err := h.components.Get(ctx, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.apply(c)
	if err := h.components.Update(ctx, c); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, c)
}

// SetDisabled handles PUT /api/admin/components/{id}/disabled
func (h *ComponentHandler) SetDisabled(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req disabledRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	c, err := h.components.SetDisabled(r.Context(), id, req.Disabled)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/admin/components/{id}
func (h *ComponentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.components.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/admin/components/{id}/image with a
// multipart "image" file.
func (h *ComponentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "admin.components.upload", "Image is too large"))
			return
		}
		handler.ErrorResponse(w, r, domain.NewValidationError("admin.components.upload", "image", "expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		handler.ErrorResponse(w, r, domain.NewValidationError("admin.components.upload", "image", "image file is required"))
		return
	}
	defer file.Close()

	c, err := h.components.UploadImage(r.Context(), id, service.ImageUpload{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	requestLogger(r).Info("component image uploaded",
		"component_id", c.ID,
		"size", header.Size,
	)
	handler.WriteJSON(w, http.StatusOK, c)
}
