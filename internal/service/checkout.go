package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handoff"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/dukerupert/festa/internal/telemetry"
)

// CheckoutService turns a session's cart into an order handed off to the store.
type CheckoutService interface {
	Submit(ctx context.Context, sessionID string, params CheckoutParams) (*CheckoutResult, error)
}

// CheckoutParams is what the shopper tells the store about themselves.
type CheckoutParams struct {
	CustomerName  string     `validate:"required,max=120"`
	CustomerPhone string     `validate:"required,phone"`
	Notes         string     `validate:"max=1000"`
	DeliveryDate  *time.Time `validate:"omitempty"`
}

// CheckoutResult carries the saved order and the link that opens the chat
// with the store, pre-filled with the order summary.
type CheckoutResult struct {
	Order    *domain.Order `json:"order"`
	Summary  string        `json:"summary"`
	ChatLink string        `json:"chat_link"`
}

var nonDigits = regexp.MustCompile(`\D`)

// normalizePhone keeps only the digits of a phone number.
func normalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

func newCheckoutValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		n := len(normalizePhone(fl.Field().String()))
		return n >= 10 && n <= 15
	})
	return v
}

type checkoutService struct {
	carts      CartService
	orders     domain.OrderRepository
	components domain.ComponentRepository
	settings   SettingsService
	publisher  handoff.Publisher
	validate   *validator.Validate
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance. loc is the
// store's time zone, used to decide which calendar day is today; nil means UTC.
func NewCheckoutService(
	carts CartService,
	orders domain.OrderRepository,
	components domain.ComponentRepository,
	settings SettingsService,
	publisher handoff.Publisher,
	loc *time.Location,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) CheckoutService {
	if loc == nil {
		loc = time.UTC
	}
	return &checkoutService{
		carts:      carts,
		orders:     orders,
		components: components,
		settings:   settings,
		publisher:  publisher,
		validate:   newCheckoutValidator(),
		metrics:    metrics,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

// Submit saves the order, clears the cart and announces the order. Once the
// order is saved, later failures are logged and do not fail the checkout.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, params CheckoutParams) (*CheckoutResult, error) {
	const op = "checkout.submit"

	params.CustomerName = strings.TrimSpace(params.CustomerName)
	params.Notes = strings.TrimSpace(params.Notes)
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	store, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if store.WhatsAppPhone == "" {
		return nil, domain.WrapError(domain.ErrStoreNotConfigured, domain.EUNAVAILABLE, op, domain.ErrStoreNotConfigured.Message)
	}

	result := &CheckoutResult{}
	var captured []cart.Line
	err = s.carts.Consume(ctx, sessionID, func(lines []cart.Line, total decimal.Decimal) error {
		data, err := json.Marshal(lines)
		if err != nil {
			return domain.Internal(err, op, "failed to encode order lines")
		}

		order := &domain.Order{
			ID:            uuid.New(),
			CustomerName:  params.CustomerName,
			CustomerPhone: normalizePhone(params.CustomerPhone),
			Notes:         params.Notes,
			DeliveryDate:  params.DeliveryDate,
			Lines:         data,
			Total:         total,
			Status:        domain.OrderStatusSubmitted,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		order.Summary = handoff.Summarize(order, lines, store.Greeting)
		if err := s.orders.SetSummary(ctx, order.ID, order.Summary); err != nil {
			s.logger.ErrorContext(ctx, "failed to save order summary", "order_id", order.ID, "error", err)
		}

		result.Order = order
		result.Summary = order.Summary
		result.ChatLink = handoff.ChatLink(store.WhatsAppPhone, order.Summary)
		captured = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderSubmitted(result.Order.Total)
	s.logger.InfoContext(ctx, "order submitted",
		"order_id", result.Order.ID,
		"number", result.Order.Number,
		"total", result.Order.Total.StringFixed(2),
		"lines", len(captured),
	)

	if err := s.publisher.Publish(ctx, result.Order); err != nil {
		s.metrics.HandoffFailed("publish")
		s.logger.ErrorContext(ctx, "failed to publish order", "order_id", result.Order.ID, "error", err)
	}
	s.consumeRibbon(ctx, captured)

	return result, nil
}

func (s *checkoutService) validateParams(params CheckoutParams) error {
	const op = "checkout.validate"

	var out error
	if err := s.validate.Struct(params); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.Internal(err, op, "failed to validate checkout")
		}
		for _, fe := range verrs {
			switch fe.Field() {
			case "CustomerName":
				out = addFieldError(out, op, "customer_name", "name is required")
			case "CustomerPhone":
				out = addFieldError(out, op, "customer_phone", "phone must have 10 to 15 digits including area code")
			case "Notes":
				out = addFieldError(out, op, "notes", "notes are too long")
			}
		}
	}

	// Delivery dates are calendar days at midnight UTC, so compare them
	// with the store's current calendar day expressed the same way.
	if params.DeliveryDate != nil {
		y, m, d := s.now().In(s.loc).Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if params.DeliveryDate.Before(today) {
			out = addFieldError(out, op, "delivery_date", "delivery date cannot be in the past")
		}
	}
	return out
}

func addFieldError(err error, op, field, message string) error {
	if err == nil {
		return domain.NewValidationError(op, field, message)
	}
	return domain.AddFieldError(err, field, message)
}

// consumeRibbon lowers the advisory ribbon stock by what the order uses.
func (s *checkoutService) consumeRibbon(ctx context.Context, lines []cart.Line) {
	for id, meters := range RibbonUsage(lines) {
		if err := s.components.DecrementRibbonMeters(ctx, id, meters); err != nil {
			s.metrics.HandoffFailed("ribbon_stock")
			s.logger.WarnContext(ctx, "failed to update ribbon stock", "component_id", id, "error", err)
		}
	}
}

// RibbonUsage sums the meters of each ribbon material used by lines. A custom
// bow uses its meters of both the primary and the secondary material.
func RibbonUsage(lines []cart.Line) map[uuid.UUID]float64 {
	usage := map[uuid.UUID]float64{}
	for _, l := range lines {
		switch {
		case l.Kit != nil && l.Kit.Ribbon.Kind == string(kit.RibbonCustom):
			r := l.Kit.Ribbon
			for _, ref := range []*cart.ComponentRef{r.Primary, r.Secondary} {
				if ref != nil {
					usage[ref.ID] += r.Meters * float64(l.Quantity)
				}
			}
		case l.Ribbon != nil:
			usage[l.Ribbon.Material.ID] += l.Ribbon.Meters * float64(l.Quantity)
		}
	}
	return usage
}
