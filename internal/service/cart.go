package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dukerupert/festa/internal/balloon"
	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService provides business logic for shopping cart operations.
// Each session has one cart, persisted as its serialized line list.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*CartView, error)
	AddProduct(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*CartView, error)
	AddRibbonCut(ctx context.Context, sessionID string, params RibbonCutParams) (*CartView, error)
	AddBalloons(ctx context.Context, sessionID string, params BalloonParams) (*CartView, error)

	// AddLine appends an already priced line, such as a finished kit.
	AddLine(ctx context.Context, sessionID string, line cart.Line) (*CartView, error)

	SetQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, quantity int) (*CartView, error)
	RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, sessionID string) error

	// Consume passes the cart's lines to fn and empties the cart only when
	// fn succeeds. The session stays locked while fn runs.
	Consume(ctx context.Context, sessionID string, fn func(lines []cart.Line, total decimal.Decimal) error) error
}

// CartView is the cart as shown to the shopper.
type CartView struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// RibbonCutParams describes a freeform ribbon cut.
type RibbonCutParams struct {
	MaterialID uuid.UUID
	Style      ribbon.Style
	Size       domain.CapacityClass
	Quantity   int
}

// BalloonChoice is one balloon model and how many of it.
type BalloonChoice struct {
	ComponentID uuid.UUID
	Quantity    int
}

// BalloonParams describes a custom balloon package.
type BalloonParams struct {
	Balloons    []BalloonChoice
	Helium      bool
	Arrangement balloon.Arrangement
}

type cartService struct {
	carts      domain.CartRepository
	components domain.ComponentRepository
	locks      *sessionLocks
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
}

// NewCartService creates a new CartService instance
func NewCartService(carts domain.CartRepository, components domain.ComponentRepository, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CartService {
	return &cartService{
		carts:      carts,
		components: components,
		locks:      newSessionLocks(),
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	defer s.locks.lock(sessionID)()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newCartView(c), nil
}

func (s *cartService) AddProduct(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*CartView, error) {
	const op = "cart.add_product"
	comp, err := purchasable(ctx, s.components, componentID, op)
	if err != nil {
		return nil, err
	}
	line, err := cart.ProductLine(comp, quantity)
	if err != nil {
		return nil, err
	}
	return s.AddLine(ctx, sessionID, line)
}

func (s *cartService) AddRibbonCut(ctx context.Context, sessionID string, params RibbonCutParams) (*CartView, error) {
	const op = "cart.add_ribbon"
	material, err := purchasable(ctx, s.components, params.MaterialID, op)
	if err != nil {
		return nil, err
	}
	line, err := ribbon.Cut(material, params.Style, params.Size, params.Quantity)
	if err != nil {
		return nil, err
	}
	return s.AddLine(ctx, sessionID, line)
}

func (s *cartService) AddBalloons(ctx context.Context, sessionID string, params BalloonParams) (*CartView, error) {
	const op = "cart.add_balloons"
	pkg := balloon.Package{
		Helium:      params.Helium,
		Arrangement: params.Arrangement,
	}
	for _, choice := range params.Balloons {
		comp, err := purchasable(ctx, s.components, choice.ComponentID, op)
		if err != nil {
			return nil, err
		}
		pkg.Balloons = append(pkg.Balloons, balloon.Choice{Component: comp, Quantity: choice.Quantity})
	}

	line, err := balloon.Build(pkg)
	if err != nil {
		return nil, err
	}
	return s.AddLine(ctx, sessionID, line)
}

func (s *cartService) AddLine(ctx context.Context, sessionID string, line cart.Line) (*CartView, error) {
	view, err := s.update(ctx, sessionID, func(c *cart.Cart) error {
		_, err := c.Add(line)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CartLineAdded(string(line.Kind))
	return view, nil
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, quantity int) (*CartView, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) error {
		return c.SetQuantity(lineID, quantity)
	})
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) (*CartView, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) error {
		return c.Remove(lineID)
	})
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	defer s.locks.lock(sessionID)()

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.metrics.CartEmptied()
	return nil
}

func (s *cartService) Consume(ctx context.Context, sessionID string, fn func(lines []cart.Line, total decimal.Decimal) error) error {
	defer s.locks.lock(sessionID)()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return domain.WrapError(domain.ErrEmptyCart, domain.EINVALID, "cart.consume", domain.ErrEmptyCart.Message)
	}
	if err := fn(c.Lines(), c.Total()); err != nil {
		return err
	}

	// The order already exists at this point; a stale cart is only a nuisance.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.metrics.HandoffFailed("cart_clear")
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout", "error", err)
	}
	return nil
}

// update loads the cart, applies fn and saves the result, all under the
// session lock. Nothing is saved when fn fails.
func (s *cartService) update(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*CartView, error) {
	defer s.locks.lock(sessionID)()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, domain.Internal(err, "cart.save", "failed to encode cart")
	}
	if err := s.carts.Save(ctx, sessionID, data); err != nil {
		return nil, err
	}
	return newCartView(c), nil
}

// load restores the session's cart. A cart that no longer decodes is
// discarded rather than blocking the shopper.
func (s *cartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cart.New(), nil
	}

	c, err := cart.Restore(data)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cart", "error", err)
		return cart.New(), nil
	}
	return c, nil
}

func newCartView(c *cart.Cart) *CartView {
	return &CartView{
		Lines: c.Lines(),
		Total: c.Total(),
		Count: c.Count(),
	}
}
