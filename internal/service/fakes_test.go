package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/domain"
)

// ============================================================================
// In-memory repositories
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memComponents struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.Component
	ribbon  map[uuid.UUID]float64
	listErr error
}

func newMemComponents(cs ...*domain.Component) *memComponents {
	m := &memComponents{byID: map[uuid.UUID]domain.Component{}, ribbon: map[uuid.UUID]float64{}}
	for _, c := range cs {
		m.byID[c.ID] = *c
	}
	return m
}

func (m *memComponents) List(ctx context.Context, f domain.ComponentFilter) ([]domain.Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Component
	for _, c := range m.byID {
		if f.Kind != "" && c.Kind != f.Kind {
			continue
		}
		if f.SectionID.Valid && c.SectionID != f.SectionID {
			continue
		}
		if f.InStockOnly && !c.InStock {
			continue
		}
		if !f.IncludeDisabled && c.Disabled {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memComponents) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, "component.get", domain.ErrComponentNotFound.Message)
	}
	return &c, nil
}

func (m *memComponents) Create(ctx context.Context, c *domain.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.byID[c.ID] = *c
	return nil
}

func (m *memComponents) Update(ctx context.Context, c *domain.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.ID]; !ok {
		return domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, "component.update", domain.ErrComponentNotFound.Message)
	}
	m.byID[c.ID] = *c
	return nil
}

func (m *memComponents) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memComponents) DecrementRibbonMeters(ctx context.Context, id uuid.UUID, meters float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ribbon[id] += meters
	return nil
}

type memCarts struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCarts() *memCarts { return &memCarts{data: map[string][]byte{}} }

func (m *memCarts) Load(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[sessionID], nil
}

func (m *memCarts) Save(ctx context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = data
	return nil
}

func (m *memCarts) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *memCarts) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	next      int64
	createErr error
}

func newMemOrders() *memOrders { return &memOrders{orders: map[uuid.UUID]domain.Order{}} }

func (m *memOrders) Create(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.next++
	o.Number = m.next
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) SetSummary(ctx context.Context, id uuid.UUID, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[id]
	o.Summary = summary
	m.orders[id] = o
	return nil
}

func (m *memOrders) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrOrderNotFound, domain.ENOTFOUND, "order.get", domain.ErrOrderNotFound.Message)
	}
	return &o, nil
}

func (m *memOrders) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if f.Status == "" || o.Status == f.Status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.WrapError(domain.ErrOrderNotFound, domain.ENOTFOUND, "order.update_status", domain.ErrOrderNotFound.Message)
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

type memSettings struct {
	settings domain.StoreSettings
}

func (m *memSettings) Get(ctx context.Context) (*domain.StoreSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *memSettings) Save(ctx context.Context, s *domain.StoreSettings) error {
	m.settings = *s
	return nil
}

type fakePublisher struct {
	published []*domain.Order
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, o *domain.Order) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, o)
	return nil
}

// ============================================================================
// Catalog fixtures
// ============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boxM() *domain.Component {
	return &domain.Component{
		ID: uuid.New(), Name: "Caixa M", Price: dec("20"), Kind: domain.KindContainer, Unit: domain.UnitEach,
		Dimensions: domain.Dimensions{Width: 20, Height: 20, Depth: 20},
		InStock:    true,
		Container:  &domain.ContainerSpec{Capacity: 10, Class: domain.CapacityMedium},
	}
}

func boxP() *domain.Component {
	return &domain.Component{
		ID: uuid.New(), Name: "Caixa P", Price: dec("15"), Kind: domain.KindContainer, Unit: domain.UnitEach,
		Dimensions: domain.Dimensions{Width: 15, Height: 15, Depth: 15},
		InStock:    true,
		Container:  &domain.ContainerSpec{Capacity: 5, Class: domain.CapacitySmall},
	}
}

func fillItem(name string, size int, height float64, price string) *domain.Component {
	return &domain.Component{
		ID: uuid.New(), Name: name, Price: dec(price), Kind: domain.KindFillableItem, Unit: domain.UnitEach,
		Dimensions: domain.Dimensions{Width: 5, Height: height, Depth: 5},
		InStock:    true,
		Fill:       &domain.FillSpec{ItemSize: size},
	}
}

func ribbonMaterial(name, price string) *domain.Component {
	return &domain.Component{
		ID: uuid.New(), Name: name, Price: dec(price), Kind: domain.KindRibbonMaterial, Unit: domain.UnitMeter,
		InStock: true,
		Ribbon:  &domain.RibbonSpec{RemainingMeters: 50},
	}
}

func wrapperOf(name string, width float64) *domain.Component {
	return &domain.Component{
		ID: uuid.New(), Name: name, Price: dec("3"), Kind: domain.KindWrapper, Unit: domain.UnitEach,
		Dimensions: domain.Dimensions{Width: width},
		InStock:    true,
	}
}
