package admin

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

// OrderHandler lets the admin follow submitted orders.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// List handles GET /api/admin/orders?status=&limit=&offset=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "admin.orders.list"
	q := r.URL.Query()

	filter := domain.OrderFilter{Status: domain.OrderStatus(q.Get("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		handler.ErrorResponse(w, r, domain.NewValidationError(op, "status", "unknown order status"))
		return
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handler.ErrorResponse(w, r, domain.NewValidationError(op, name, "must be a non-negative number"))
			return
		}
		*dst = n
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	detail, err := h.orders.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, detail)
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req statusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	requestLogger(r).Info("order status updated", "order_id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}
