package storefront

import (
	"net/http"
	"time"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/service"
)

const deliveryDateLayout = "2006-01-02"

// CheckoutHandler submits the cart as an order.
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
	DeliveryDate  string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
}

// Submit handles POST /api/checkout. Name, phone and date rules are enforced
// by the checkout service so they are reported the same way everywhere.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req checkoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	params := service.CheckoutParams{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}
	if req.DeliveryDate != "" {
		date, err := time.Parse(deliveryDateLayout, req.DeliveryDate)
		if err != nil {
			handler.ErrorResponse(w, r, domain.NewValidationError("checkout.submit", "delivery_date", "must be a date formatted as "+deliveryDateLayout))
			return
		}
		params.DeliveryDate = &date
	}

	result, err := h.checkout.Submit(r.Context(), sid, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, result)
}
