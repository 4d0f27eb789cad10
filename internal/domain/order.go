package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrOrderNotFound      = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart          = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidOrderStatus = &Error{Code: EINVALID, Message: "Unknown order status"}
	ErrStoreNotConfigured = &Error{Code: EUNAVAILABLE, Message: "Store contact phone is not configured"}
)

// OrderStatus is the lifecycle state of a submitted order.
// Payment happens in the chat conversation, so the store only tracks fulfilment.
type OrderStatus string

const (
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusSubmitted, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a checked-out cart handed off to the store.
// Lines holds the cart line list exactly as it was serialized at checkout.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	Number        int64           `json:"number"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Notes         string          `json:"notes,omitempty"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	Lines         json.RawMessage `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Summary       string          `json:"summary"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DisplayNumber formats the order number the way it appears in messages.
func (o *Order) DisplayNumber() string {
	return fmt.Sprintf("#%05d", o.Number)
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Offset int
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create stores the order and fills in ID, Number and timestamps.
	Create(ctx context.Context, o *Order) error

	// Get returns ErrOrderNotFound when no order has the given id.
	Get(ctx context.Context, id uuid.UUID) (*Order, error)

	// SetSummary stores the handoff text built after the number was assigned.
	SetSummary(ctx context.Context, id uuid.UUID, summary string) error

	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
}
