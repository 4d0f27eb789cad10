package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
)

// OrderService lets the admin follow up on submitted orders.
type OrderService interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// OrderDetail is an order with its captured lines decoded.
type OrderDetail struct {
	domain.Order
	Items []cart.Line `json:"items"`
}

type orderService struct {
	repo   domain.OrderRepository
	logger *slog.Logger
}

// NewOrderService creates a new OrderService instance
func NewOrderService(repo domain.OrderRepository, logger *slog.Logger) OrderService {
	return &orderService{repo: repo, logger: logger}
}

func (s *orderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidOrderStatus, domain.EINVALID, "order.list", domain.ErrInvalidOrderStatus.Message)
	}
	return s.repo.List(ctx, filter)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: *o}
	if err := json.Unmarshal(o.Lines, &detail.Items); err != nil {
		// The raw lines and summary are still shown.
		s.logger.WarnContext(ctx, "failed to decode order lines", "order_id", o.ID, "error", err)
	}
	return detail, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.WrapError(domain.ErrInvalidOrderStatus, domain.EINVALID, "order.update_status", domain.ErrInvalidOrderStatus.Message)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
