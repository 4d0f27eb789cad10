package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/service"
)

// KitHandler exposes the kit builder of the current shopper session.
type KitHandler struct {
	kits service.KitService
}

// NewKitHandler creates a new kit handler
func NewKitHandler(kits service.KitService) *KitHandler {
	return &KitHandler{kits: kits}
}

type startKitRequest struct {
	RecipeID uuid.NullUUID `json:"recipe_id"`
}

type componentRequest struct {
	ComponentID uuid.UUID `json:"component_id" validate:"required"`
}

type optionalComponentRequest struct {
	ComponentID uuid.NullUUID `json:"component_id"`
}

type addItemRequest struct {
	ComponentID uuid.UUID `json:"component_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"min=1,max=99"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

type ribbonRequest struct {
	Kind        kit.RibbonKind       `json:"kind" validate:"required,oneof=none pull_bow stock_bow custom"`
	AccessoryID uuid.NullUUID        `json:"accessory_id"`
	Style       ribbon.Style         `json:"style" validate:"omitempty,oneof=simple double"`
	Size        domain.CapacityClass `json:"size" validate:"omitempty,oneof=P M G"`
	PrimaryID   uuid.NullUUID        `json:"primary_id"`
	SecondaryID uuid.NullUUID        `json:"secondary_id"`
}

type styleRequest struct {
	Style string `json:"style" validate:"max=60"`
}

// kitAction is the shape shared by every builder operation: run fn for the
// session and answer with the resulting view.
func (h *KitHandler) kitAction(w http.ResponseWriter, r *http.Request, fn func(sessionID string) (*service.KitView, error)) {
	sid, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	view, err := fn(sid)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, view)
}

// Get handles GET /api/kit
func (h *KitHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.Get(r.Context(), sid)
	})
}

// Start handles POST /api/kit/start. An empty body starts a blank kit.
func (h *KitHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startKitRequest
	if r.ContentLength != 0 {
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.Start(r.Context(), sid, req.RecipeID)
	})
}

// SetContainer handles PUT /api/kit/container
func (h *KitHandler) SetContainer(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.SetContainer(r.Context(), sid, req.ComponentID)
	})
}

// AddItem handles POST /api/kit/items
func (h *KitHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.AddItem(r.Context(), sid, req.ComponentID, req.Quantity)
	})
}

// UpdateItem handles PATCH /api/kit/items/{id}. A quantity of zero removes
// the item.
func (h *KitHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req quantityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.UpdateItem(r.Context(), sid, id, req.Quantity)
	})
}

// RemoveItem handles DELETE /api/kit/items/{id}
func (h *KitHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.RemoveItem(r.Context(), sid, id)
	})
}

// SetWrapper handles PUT /api/kit/wrapper. A null component clears it.
func (h *KitHandler) SetWrapper(w http.ResponseWriter, r *http.Request) {
	var req optionalComponentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.SetWrapper(r.Context(), sid, req.ComponentID)
	})
}

// WrapperOptions handles GET /api/kit/wrappers
func (h *KitHandler) WrapperOptions(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	wrappers, err := h.kits.WrapperOptions(r.Context(), sid)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"wrappers": nonNil(wrappers)})
}

// SetFiller handles PUT /api/kit/filler. A null component clears it.
func (h *KitHandler) SetFiller(w http.ResponseWriter, r *http.Request) {
	var req optionalComponentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.SetFiller(r.Context(), sid, req.ComponentID)
	})
}

// SetRibbon handles PUT /api/kit/ribbon
func (h *KitHandler) SetRibbon(w http.ResponseWriter, r *http.Request) {
	var req ribbonRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	choice := service.RibbonChoice{
		Kind:        req.Kind,
		AccessoryID: req.AccessoryID,
		Style:       req.Style,
		Size:        req.Size,
		PrimaryID:   req.PrimaryID,
		SecondaryID: req.SecondaryID,
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.SetRibbon(r.Context(), sid, choice)
	})
}

// SetStyle handles PUT /api/kit/style
func (h *KitHandler) SetStyle(w http.ResponseWriter, r *http.Request) {
	var req styleRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.SetStyle(r.Context(), sid, req.Style)
	})
}

// Advance handles POST /api/kit/advance
func (h *KitHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.Advance(r.Context(), sid)
	})
}

// Back handles POST /api/kit/back
func (h *KitHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.kitAction(w, r, func(sid string) (*service.KitView, error) {
		return h.kits.Back(r.Context(), sid)
	})
}

// Finalize handles POST /api/kit/finalize. The finished kit lands in the
// cart, which is returned.
func (h *KitHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	cart, err := h.kits.Finalize(r.Context(), sid)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, cart)
}
