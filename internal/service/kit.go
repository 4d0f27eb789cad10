package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/telemetry"
)

// KitService drives one kit builder per shopper session. Drafts live in
// memory and are dropped after sitting idle for the configured TTL.
type KitService interface {
	Get(ctx context.Context, sessionID string) (*KitView, error)

	// Start resets the draft. With a recipe id, the draft is seeded with the
	// pre-assembled kit's container and items.
	Start(ctx context.Context, sessionID string, recipeID uuid.NullUUID) (*KitView, error)

	SetContainer(ctx context.Context, sessionID string, componentID uuid.UUID) (*KitView, error)
	AddItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*KitView, error)
	UpdateItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*KitView, error)
	RemoveItem(ctx context.Context, sessionID string, componentID uuid.UUID) (*KitView, error)
	SetWrapper(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*KitView, error)
	SetFiller(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*KitView, error)
	SetRibbon(ctx context.Context, sessionID string, choice RibbonChoice) (*KitView, error)
	SetStyle(ctx context.Context, sessionID string, style string) (*KitView, error)

	// WrapperOptions lists wrappers that fit the draft's container.
	WrapperOptions(ctx context.Context, sessionID string) ([]domain.Component, error)

	Advance(ctx context.Context, sessionID string) (*KitView, error)
	Back(ctx context.Context, sessionID string) (*KitView, error)

	// Finalize adds the finished kit to the session's cart and clears the draft.
	Finalize(ctx context.Context, sessionID string) (*CartView, error)
}

// KitView is a snapshot of a draft with its derived figures.
type KitView struct {
	Composition  kit.Composition `json:"composition"`
	Step         string          `json:"step"`
	CanAdvance   bool            `json:"can_advance"`
	Style        string          `json:"style,omitempty"`
	TargetRecipe *uuid.UUID      `json:"target_recipe,omitempty"`
	ItemCount    int             `json:"item_count"`
	MaxSlots     int             `json:"max_slots"`
	Overflow     int             `json:"overflow"`
	ServiceFee   decimal.Decimal `json:"service_fee"`
	Total        decimal.Decimal `json:"total"`
}

// RibbonChoice is the shopper's ribbon decision before components are resolved.
// AccessoryID is used by the pre-made bows, the remaining fields by a custom bow.
// An empty Size takes the container's capacity class.
type RibbonChoice struct {
	Kind        kit.RibbonKind
	AccessoryID uuid.NullUUID
	Style       ribbon.Style
	Size        domain.CapacityClass
	PrimaryID   uuid.NullUUID
	SecondaryID uuid.NullUUID
}

// KitConfig bounds the in-memory draft store.
type KitConfig struct {
	TTL         time.Duration
	MaxSessions int
}

type kitSession struct {
	mu      sync.Mutex
	builder *kit.Builder
	refs    int // requests holding the draft, guarded by kitService.mu
}

type kitService struct {
	components domain.ComponentRepository
	carts      CartService
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger

	mu       sync.Mutex
	sessions *expirable.LRU[string, *kitSession]
	inUse    map[string]*kitSession
}

// NewKitService creates a new KitService instance
func NewKitService(components domain.ComponentRepository, carts CartService, cfg KitConfig, metrics *telemetry.BusinessMetrics, logger *slog.Logger) KitService {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 10000
	}

	return &kitService{
		components: components,
		carts:      carts,
		metrics:    metrics,
		logger:     logger,
		sessions:   expirable.NewLRU[string, *kitSession](cfg.MaxSessions, nil, cfg.TTL),
		inUse:      make(map[string]*kitSession),
	}
}

// acquire returns the session's draft locked, creating it on first use. A
// draft stays reachable while any request holds it, even if the LRU evicts it
// meanwhile, so concurrent requests never fork a session. The returned
// release unlocks it and re-adds the entry so the TTL counts idle time.
func (s *kitService) acquire(sessionID string) (*kitSession, func()) {
	s.mu.Lock()
	sess, ok := s.inUse[sessionID]
	if !ok {
		if sess, ok = s.sessions.Get(sessionID); !ok {
			sess = &kitSession{builder: kit.NewBuilder()}
		}
		s.inUse[sessionID] = sess
	}
	sess.refs++
	s.sessions.Add(sessionID, sess)
	s.mu.Unlock()

	sess.mu.Lock()
	return sess, func() {
		sess.mu.Unlock()

		s.mu.Lock()
		defer s.mu.Unlock()
		sess.refs--
		if sess.refs == 0 {
			delete(s.inUse, sessionID)
		}
		s.sessions.Add(sessionID, sess)
	}
}

// with runs fn on the session's builder under the session lock and records
// the outcome.
func (s *kitService) with(ctx context.Context, sessionID, op string, fn func(b *kit.Builder) error) (*KitView, error) {
	sess, release := s.acquire(sessionID)
	defer release()

	if err := fn(sess.builder); err != nil {
		if reason := kit.Reason(err); reason != "other" {
			s.metrics.KitRejected(reason)
			s.logger.DebugContext(ctx, "kit operation rejected", "operation", op, "reason", reason)
		}
		return nil, err
	}
	s.metrics.KitOperation(op)
	return newKitView(sess.builder), nil
}

func (s *kitService) Get(ctx context.Context, sessionID string) (*KitView, error) {
	sess, release := s.acquire(sessionID)
	defer release()
	return newKitView(sess.builder), nil
}

func (s *kitService) Start(ctx context.Context, sessionID string, recipeID uuid.NullUUID) (*KitView, error) {
	fresh := kit.NewBuilder()
	if recipeID.Valid {
		if err := s.seed(ctx, fresh, recipeID.UUID); err != nil {
			return nil, err
		}
	}

	return s.with(ctx, sessionID, "start", func(b *kit.Builder) error {
		*b = *fresh
		return nil
	})
}

// seed applies a recipe through the builder's validated operations, so a
// recipe that no longer fits its container is refused as a whole.
func (s *kitService) seed(ctx context.Context, b *kit.Builder, recipeID uuid.UUID) error {
	const op = "kit.start"
	recipe, err := visibleComponent(ctx, s.components, recipeID, op)
	if err != nil {
		return err
	}
	if recipe.Kind != domain.KindPreassembled || recipe.Recipe == nil {
		return fail(ErrNotARecipe, op)
	}

	container, err := purchasable(ctx, s.components, recipe.Recipe.ContainerID, op)
	if err != nil {
		return err
	}
	if err := b.SetBaseContainer(container); err != nil {
		return err
	}
	for _, ri := range recipe.Recipe.Items {
		item, err := purchasable(ctx, s.components, ri.ComponentID, op)
		if err != nil {
			return err
		}
		if err := b.AddItem(item, ri.Quantity); err != nil {
			return err
		}
	}
	b.SetTargetRecipe(recipe.ID)
	return nil
}

func (s *kitService) SetContainer(ctx context.Context, sessionID string, componentID uuid.UUID) (*KitView, error) {
	c, err := purchasable(ctx, s.components, componentID, "kit.set_container")
	if err != nil {
		return nil, err
	}
	return s.with(ctx, sessionID, "container", func(b *kit.Builder) error {
		return b.SetBaseContainer(c)
	})
}

func (s *kitService) AddItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*KitView, error) {
	c, err := purchasable(ctx, s.components, componentID, "kit.add_item")
	if err != nil {
		return nil, err
	}
	return s.with(ctx, sessionID, "add_item", func(b *kit.Builder) error {
		return b.AddItem(c, quantity)
	})
}

func (s *kitService) UpdateItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*KitView, error) {
	return s.with(ctx, sessionID, "update_item", func(b *kit.Builder) error {
		return b.UpdateItemQuantity(componentID, quantity)
	})
}

func (s *kitService) RemoveItem(ctx context.Context, sessionID string, componentID uuid.UUID) (*KitView, error) {
	return s.with(ctx, sessionID, "remove_item", func(b *kit.Builder) error {
		return b.RemoveItem(componentID)
	})
}

func (s *kitService) SetWrapper(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*KitView, error) {
	c, err := s.optional(ctx, componentID, "kit.set_wrapper")
	if err != nil {
		return nil, err
	}
	return s.with(ctx, sessionID, "wrapper", func(b *kit.Builder) error {
		return b.SetWrapper(c)
	})
}

func (s *kitService) SetFiller(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*KitView, error) {
	c, err := s.optional(ctx, componentID, "kit.set_filler")
	if err != nil {
		return nil, err
	}
	return s.with(ctx, sessionID, "filler", func(b *kit.Builder) error {
		return b.SetFiller(c)
	})
}

func (s *kitService) optional(ctx context.Context, id uuid.NullUUID, op string) (*domain.Component, error) {
	if !id.Valid {
		return nil, nil
	}
	return purchasable(ctx, s.components, id.UUID, op)
}

func (s *kitService) SetRibbon(ctx context.Context, sessionID string, choice RibbonChoice) (*KitView, error) {
	const op = "kit.set_ribbon"

	var accessory, primary, secondary *domain.Component
	var err error
	switch choice.Kind {
	case kit.RibbonNone:
	case kit.RibbonPullBow, kit.RibbonStockBow:
		if !choice.AccessoryID.Valid {
			return nil, domain.WrapError(kit.ErrInvalidSelection, domain.EINVALID, op, "Choose a bow")
		}
		if accessory, err = purchasable(ctx, s.components, choice.AccessoryID.UUID, op); err != nil {
			return nil, err
		}
	case kit.RibbonCustom:
		if !choice.PrimaryID.Valid {
			return nil, domain.WrapError(kit.ErrInvalidSelection, domain.EINVALID, op, "Choose a ribbon")
		}
		if primary, err = purchasable(ctx, s.components, choice.PrimaryID.UUID, op); err != nil {
			return nil, err
		}
		if secondary, err = s.optional(ctx, choice.SecondaryID, op); err != nil {
			return nil, err
		}
	default:
		return nil, domain.WrapError(kit.ErrInvalidSelection, domain.EINVALID, op, "Unknown ribbon option")
	}

	return s.with(ctx, sessionID, "ribbon", func(b *kit.Builder) error {
		var sel kit.RibbonSelection
		switch choice.Kind {
		case kit.RibbonNone:
			sel = kit.NoRibbon()
		case kit.RibbonPullBow, kit.RibbonStockBow:
			if sel, err = kit.PremadeBow(choice.Kind, accessory); err != nil {
				return err
			}
		case kit.RibbonCustom:
			size := choice.Size
			if size == "" {
				size = b.Composition().CapacityClass
			}
			if sel, err = ribbon.CustomBow(choice.Style, size, primary, secondary); err != nil {
				return err
			}
		}
		b.SetRibbon(sel)
		return nil
	})
}

func (s *kitService) SetStyle(ctx context.Context, sessionID string, style string) (*KitView, error) {
	return s.with(ctx, sessionID, "style", func(b *kit.Builder) error {
		b.SetStyle(style)
		return nil
	})
}

func (s *kitService) WrapperOptions(ctx context.Context, sessionID string) ([]domain.Component, error) {
	wrappers, err := s.components.List(ctx, domain.ComponentFilter{Kind: domain.KindWrapper, InStockOnly: true})
	if err != nil {
		return nil, err
	}

	sess, release := s.acquire(sessionID)
	defer release()
	return sess.builder.ValidWrappers(wrappers), nil
}

func (s *kitService) Advance(ctx context.Context, sessionID string) (*KitView, error) {
	return s.with(ctx, sessionID, "advance", func(b *kit.Builder) error {
		return b.Advance()
	})
}

func (s *kitService) Back(ctx context.Context, sessionID string) (*KitView, error) {
	return s.with(ctx, sessionID, "back", func(b *kit.Builder) error {
		b.Back()
		return nil
	})
}

func (s *kitService) Finalize(ctx context.Context, sessionID string) (*CartView, error) {
	var view *CartView
	_, err := s.with(ctx, sessionID, "finalize", func(b *kit.Builder) error {
		line, err := b.Finalize()
		if err != nil {
			return err
		}
		if view, err = s.carts.AddLine(ctx, sessionID, line); err != nil {
			return err
		}
		s.metrics.KitFinalized(line.UnitPrice)
		b.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func newKitView(b *kit.Builder) *KitView {
	v := &KitView{
		Composition: b.Composition(),
		Step:        b.Step().String(),
		CanAdvance:  b.CanAdvance(b.Step()),
		Style:       b.Style(),
		ItemCount:   b.ItemCount(),
		MaxSlots:    b.MaxSlots(),
		Overflow:    b.Overflow(),
		ServiceFee:  b.ServiceFee(),
		Total:       b.Total(),
	}
	if r := b.TargetRecipe(); r.Valid {
		id := r.UUID
		v.TargetRecipe = &id
	}
	return v
}
