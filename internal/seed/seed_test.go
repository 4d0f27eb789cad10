package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/festa/internal/domain"
)

const sampleCatalog = `
settings:
  store_name: Festa & Cia
  whatsapp_phone: "5511999998888"

sections:
  - name: Cestas Prontas
    sort_order: 1
  - name: Monte sua Cesta
    slug: monte
    sort_order: 2

components:
  - key: caixa-m
    name: Caixa Kraft M
    kind: container
    price: 20
    section: monte
    capacity: 10
    capacity_class: M
    dimensions: {width: 20, height: 12, depth: 20}
  - key: pelucia
    name: Urso de Pelúcia
    kind: fillable_item
    price: "15.90"
    item_size: 3
  - key: chocolate
    name: Barra de Chocolate
    kind: fillable_item
    price: 7.5
  - key: cetim
    name: Fita de Cetim Vermelha
    kind: ribbon_material
    price: "2.00"
    remaining_meters: 50
  - key: cesta-amor
    name: Cesta Amor
    kind: preassembled_kit
    price: 0
    section: cestas-prontas
    recipe:
      container: caixa-m
      items:
        - {component: pelucia, quantity: 1}
        - {component: chocolate, quantity: 3}
`

// =============================================================================
// IN-MEMORY REPOSITORIES
// =============================================================================

type memSections struct {
	bySlug map[string]*domain.Section
}

func (m *memSections) List(ctx context.Context, visibleOnly bool) ([]domain.Section, error) {
	return nil, nil
}

func (m *memSections) Get(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	for _, s := range m.bySlug {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSectionNotFound
}

func (m *memSections) GetBySlug(ctx context.Context, slug string) (*domain.Section, error) {
	if s, ok := m.bySlug[slug]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSectionNotFound
}

func (m *memSections) Create(ctx context.Context, s *domain.Section) error {
	s.ID = uuid.New()
	copied := *s
	m.bySlug[s.Slug] = &copied
	return nil
}

func (m *memSections) Update(ctx context.Context, s *domain.Section) error {
	copied := *s
	m.bySlug[s.Slug] = &copied
	return nil
}

func (m *memSections) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type memComponents struct {
	byID map[uuid.UUID]domain.Component
}

func (m *memComponents) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	out := make([]domain.Component, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func (m *memComponents) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrComponentNotFound
	}
	return &c, nil
}

func (m *memComponents) Create(ctx context.Context, c *domain.Component) error {
	c.ID = uuid.New()
	m.byID[c.ID] = *c
	return nil
}

func (m *memComponents) Update(ctx context.Context, c *domain.Component) error {
	m.byID[c.ID] = *c
	return nil
}

func (m *memComponents) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (m *memComponents) DecrementRibbonMeters(ctx context.Context, id uuid.UUID, meters float64) error {
	return nil
}

func (m *memComponents) named(name string) domain.Component {
	for _, c := range m.byID {
		if c.Name == name {
			return c
		}
	}
	return domain.Component{}
}

type memSettings struct {
	saved *domain.StoreSettings
}

func (m *memSettings) Get(ctx context.Context) (*domain.StoreSettings, error) {
	if m.saved == nil {
		return &domain.StoreSettings{}, nil
	}
	copied := *m.saved
	return &copied, nil
}

func (m *memSettings) Save(ctx context.Context, s *domain.StoreSettings) error {
	m.saved = s
	return nil
}

func newTestLoader() (*Loader, *memSections, *memComponents, *memSettings) {
	sections := &memSections{bySlug: map[string]*domain.Section{}}
	components := &memComponents{byID: map[uuid.UUID]domain.Component{}}
	settings := &memSettings{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(sections, components, settings, logger), sections, components, settings
}

// =============================================================================
// PARSE
// =============================================================================

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, c.Sections, 2)
	require.Len(t, c.Components, 5)
	assert.True(t, decimal.RequireFromString("15.90").Equal(c.Components[1].Price))
	assert.True(t, decimal.RequireFromString("7.5").Equal(c.Components[2].Price))
	assert.Equal(t, domain.CapacityMedium, c.Components[0].CapacityClass)
	require.NotNil(t, c.Components[3].RemainingMeters)
	assert.Equal(t, 50.0, *c.Components[3].RemainingMeters)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "unknown kind",
			yaml:    "components:\n  - {key: a, name: A, kind: sparkle, price: 1}\n",
			wantMsg: "kind",
		},
		{
			name:    "missing price",
			yaml:    "components:\n  - {key: a, name: A, kind: filler}\n",
			wantMsg: "price",
		},
		{
			name:    "negative price",
			yaml:    "components:\n  - {key: a, name: A, kind: filler, price: -1.5}\n",
			wantMsg: "price",
		},
		{
			name:    "bad capacity class",
			yaml:    "components:\n  - {key: a, name: A, kind: container, price: 1, capacity_class: XL}\n",
			wantMsg: "capacity_class",
		},
		{
			name:    "unknown top-level key",
			yaml:    "products: []\n",
			wantMsg: "products",
		},
		{
			name: "duplicate key",
			yaml: "components:\n  - {key: a, name: A, kind: filler, price: 1}\n" +
				"  - {key: a, name: B, kind: filler, price: 1}\n",
			wantMsg: "duplicate component key",
		},
		{
			name: "recipe points at unknown item",
			yaml: "components:\n  - {key: box, name: Box, kind: container, price: 1}\n" +
				"  - {key: kit, name: Kit, kind: preassembled_kit, price: 0, recipe: {container: box, items: [{component: ghost, quantity: 1}]}}\n",
			wantMsg: `"ghost" is not defined`,
		},
		{
			name: "recipe container is not a container",
			yaml: "components:\n  - {key: bear, name: Bear, kind: fillable_item, price: 1}\n" +
				"  - {key: kit, name: Kit, kind: preassembled_kit, price: 0, recipe: {container: bear}}\n",
			wantMsg: "is not a container",
		},
		{
			name:    "kit without recipe",
			yaml:    "components:\n  - {key: kit, name: Kit, kind: preassembled_kit, price: 0}\n",
			wantMsg: "carry a recipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_ExampleCatalog(t *testing.T) {
	data, err := os.ReadFile("../../catalog.example.yaml")
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Len(t, c.Sections, 4)
	assert.NotEmpty(t, c.Components)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, c.Components)
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoader_Load(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	loader, sections, components, settings := newTestLoader()
	report, err := loader.Load(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, &Report{
		SectionsCreated:   2,
		ComponentsCreated: 5,
		SettingsSaved:     true,
	}, report)

	assert.Equal(t, "Festa & Cia", settings.saved.StoreName)
	assert.Contains(t, sections.bySlug, "cestas-prontas")
	assert.Contains(t, sections.bySlug, "monte")

	box := components.named("Caixa Kraft M")
	assert.Equal(t, sections.bySlug["monte"].ID, box.SectionID.UUID)
	assert.Equal(t, domain.CapacityMedium, box.CapacityClass())
	assert.Equal(t, domain.UnitEach, box.Unit)

	ribbon := components.named("Fita de Cetim Vermelha")
	assert.Equal(t, domain.UnitMeter, ribbon.Unit)
	require.NotNil(t, ribbon.Ribbon)
	assert.Equal(t, 50.0, ribbon.Ribbon.RemainingMeters)

	kit := components.named("Cesta Amor")
	require.NotNil(t, kit.Recipe)
	assert.Equal(t, box.ID, kit.Recipe.ContainerID)
	assert.Equal(t, []domain.RecipeItem{
		{ComponentID: components.named("Urso de Pelúcia").ID, Quantity: 1},
		{ComponentID: components.named("Barra de Chocolate").ID, Quantity: 3},
	}, kit.Recipe.Items)
}

func TestLoader_LoadTwiceUpdatesInPlace(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	loader, _, components, _ := newTestLoader()
	_, err = loader.Load(context.Background(), c)
	require.NoError(t, err)

	// Admin edits between loads survive a reseed.
	bear := components.named("Urso de Pelúcia")
	bear.Disabled = true
	bear.ImageURL = "/uploads/components/bear.png"
	components.byID[bear.ID] = bear

	report, err := loader.Load(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 0, report.ComponentsCreated)
	assert.Equal(t, 5, report.ComponentsUpdated)
	assert.Equal(t, 2, report.SectionsUpdated)
	assert.Len(t, components.byID, 5)

	reloaded := components.named("Urso de Pelúcia")
	assert.Equal(t, bear.ID, reloaded.ID)
	assert.True(t, reloaded.Disabled)
	assert.Equal(t, "/uploads/components/bear.png", reloaded.ImageURL)
}

func TestLoader_UnknownSection(t *testing.T) {
	c, err := Parse([]byte("components:\n  - {key: a, name: A, kind: filler, price: 1, section: nowhere}\n"))
	require.NoError(t, err)

	loader, _, _, _ := newTestLoader()
	_, err = loader.Load(context.Background(), c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `section "nowhere"`)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}
