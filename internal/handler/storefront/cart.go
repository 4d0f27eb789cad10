package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/balloon"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type ribbonCutRequest struct {
	MaterialID uuid.UUID            `json:"material_id" validate:"required"`
	Style      ribbon.Style         `json:"style" validate:"required,oneof=simple double"`
	Size       domain.CapacityClass `json:"size" validate:"required,oneof=P M G"`
	Quantity   int                  `json:"quantity" validate:"min=1,max=99"`
}

type balloonChoiceRequest struct {
	ComponentID uuid.UUID `json:"component_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"min=1,max=500"`
}

type balloonRequest struct {
	Balloons    []balloonChoiceRequest `json:"balloons" validate:"required,min=1,max=20,dive"`
	Helium      bool                   `json:"helium"`
	Arrangement balloon.Arrangement    `json:"arrangement" validate:"required,oneof=loose bouquet garland"`
}

type lineQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

func (h *CartHandler) cartAction(w http.ResponseWriter, r *http.Request, status int, fn func(sessionID string) (*service.CartView, error)) {
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
	handler.WriteJSON(w, status, view)
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, http.StatusOK, func(sid string) (*service.CartView, error) {
		return h.carts.Get(r.Context(), sid)
	})
}

// AddProduct handles POST /api/cart/products
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.cartAction(w, r, http.StatusCreated, func(sid string) (*service.CartView, error) {
		return h.carts.AddProduct(r.Context(), sid, req.ComponentID, req.Quantity)
	})
}

// AddRibbonCut handles POST /api/cart/ribbons
func (h *CartHandler) AddRibbonCut(w http.ResponseWriter, r *http.Request) {
	var req ribbonCutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	params := service.RibbonCutParams{
		MaterialID: req.MaterialID,
		Style:      req.Style,
		Size:       req.Size,
		Quantity:   req.Quantity,
	}
	h.cartAction(w, r, http.StatusCreated, func(sid string) (*service.CartView, error) {
		return h.carts.AddRibbonCut(r.Context(), sid, params)
	})
}

// AddBalloons handles POST /api/cart/balloons
func (h *CartHandler) AddBalloons(w http.ResponseWriter, r *http.Request) {
	var req balloonRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	params := service.BalloonParams{
		Helium:      req.Helium,
		Arrangement: req.Arrangement,
	}
	for _, b := range req.Balloons {
		params.Balloons = append(params.Balloons, service.BalloonChoice{ComponentID: b.ComponentID, Quantity: b.Quantity})
	}
	h.cartAction(w, r, http.StatusCreated, func(sid string) (*service.CartView, error) {
		return h.carts.AddBalloons(r.Context(), sid, params)
	})
}

// UpdateLine handles PATCH /api/cart/lines/{id}. Zero removes the line.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req lineQuantityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.cartAction(w, r, http.StatusOK, func(sid string) (*service.CartView, error) {
		return h.carts.SetQuantity(r.Context(), sid, id, req.Quantity)
	})
}

// RemoveLine handles DELETE /api/cart/lines/{id}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.cartAction(w, r, http.StatusOK, func(sid string) (*service.CartView, error) {
		return h.carts.RemoveLine(r.Context(), sid, id)
	})
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.carts.Clear(r.Context(), sid); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
