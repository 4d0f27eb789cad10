package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/telemetry"
)

type kitFixture struct {
	components *memComponents
	carts      CartService
	kits       KitService
	metrics    *telemetry.BusinessMetrics
}

func newKitFixture(t *testing.T, cs ...*domain.Component) *kitFixture {
	t.Helper()
	components := newMemComponents(cs...)
	metrics := telemetry.NewBusinessMetrics("test", prometheus.NewRegistry())
	carts := NewCartService(newMemCarts(), components, metrics, discardLogger())
	kits := NewKitService(components, carts, KitConfig{TTL: time.Hour, MaxSessions: 10}, metrics, discardLogger())
	return &kitFixture{components: components, carts: carts, kits: kits, metrics: metrics}
}

func TestKitService_BuildAndFinalize(t *testing.T) {
	box := boxM()
	bala := fillItem("Bala", 1, 5, "10")
	f := newKitFixture(t, box, bala)
	ctx := context.Background()

	view, err := f.kits.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "container", view.Step)
	assert.True(t, view.Total.IsZero())

	_, err = f.kits.SetContainer(ctx, "s1", box.ID)
	require.NoError(t, err)
	view, err = f.kits.AddItem(ctx, "s1", bala.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Composition.CurrentSlotCount)
	assert.Equal(t, 10, view.MaxSlots)

	view, err = f.kits.SetRibbon(ctx, "s1", RibbonChoice{Kind: kit.RibbonNone})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(dec("45")), "20 + 2x10 + fee 5, got %s", view.Total)

	cv, err := f.kits.Finalize(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cv.Lines, 1)
	assert.Equal(t, cart.LineKit, cv.Lines[0].Kind)
	assert.True(t, cv.Total.Equal(dec("45")))

	view, err = f.kits.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, view.Composition.BaseContainer, "draft is cleared after finalize")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.KitsFinalized))
}

func TestKitService_SessionsAreIndependent(t *testing.T) {
	box := boxM()
	f := newKitFixture(t, box)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "a", box.ID)
	require.NoError(t, err)

	view, err := f.kits.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, view.Composition.BaseContainer)
}

func TestKitService_EvictionWhileHeldKeepsDraft(t *testing.T) {
	box := boxM()
	components := newMemComponents(box)
	carts := NewCartService(newMemCarts(), components, nil, discardLogger())
	svc := NewKitService(components, carts, KitConfig{TTL: time.Hour, MaxSessions: 1}, nil, discardLogger()).(*kitService)
	ctx := context.Background()

	sess, release := svc.acquire("a")

	// Another shopper pushes "a" out of the one-entry store while it is held.
	_, err := svc.Get(ctx, "b")
	require.NoError(t, err)

	done := make(chan *KitView)
	go func() {
		view, _ := svc.Get(ctx, "a")
		done <- view
	}()

	require.NoError(t, sess.builder.SetBaseContainer(box))
	release()

	view := <-done
	require.NotNil(t, view)
	require.NotNil(t, view.Composition.BaseContainer)
	assert.Equal(t, box.ID, view.Composition.BaseContainer.ID)
	assert.Empty(t, svc.inUse, "released drafts are no longer pinned")
}

func TestKitService_CapacityRejection(t *testing.T) {
	box := boxP()
	bala := fillItem("Bala", 1, 5, "1")
	f := newKitFixture(t, box, bala)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)
	_, err = f.kits.AddItem(ctx, "s", bala.ID, 4)
	require.NoError(t, err)

	_, err = f.kits.AddItem(ctx, "s", bala.ID, 2)
	require.ErrorIs(t, err, kit.ErrCapacityExceeded)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	view, err := f.kits.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 4, view.Composition.CurrentSlotCount, "rejection leaves the draft unchanged")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.KitRejections.WithLabelValues("capacity")))
}

func TestKitService_UnavailableComponents(t *testing.T) {
	box := boxM()
	soldOut := fillItem("Esgotado", 1, 5, "1")
	soldOut.InStock = false
	hidden := fillItem("Oculto", 1, 5, "1")
	hidden.Disabled = true
	f := newKitFixture(t, box, soldOut, hidden)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)

	_, err = f.kits.AddItem(ctx, "s", soldOut.ID, 1)
	assert.ErrorIs(t, err, ErrComponentUnavailable)

	_, err = f.kits.AddItem(ctx, "s", hidden.ID, 1)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)

	_, err = f.kits.AddItem(ctx, "s", uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)
}

func TestKitService_StartFromRecipe(t *testing.T) {
	box := boxP()
	bala := fillItem("Bala", 1, 5, "2")
	recipe := &domain.Component{
		ID: uuid.New(), Name: "Kit Doce", Price: dec("30"), Kind: domain.KindPreassembled, Unit: domain.UnitEach, InStock: true,
		Recipe: &domain.RecipeSpec{ContainerID: box.ID, Items: []domain.RecipeItem{{ComponentID: bala.ID, Quantity: 3}}},
	}
	tooBig := &domain.Component{
		ID: uuid.New(), Name: "Kit Gigante", Price: dec("90"), Kind: domain.KindPreassembled, Unit: domain.UnitEach, InStock: true,
		Recipe: &domain.RecipeSpec{ContainerID: box.ID, Items: []domain.RecipeItem{{ComponentID: bala.ID, Quantity: 9}}},
	}
	f := newKitFixture(t, box, bala, recipe, tooBig)
	ctx := context.Background()

	view, err := f.kits.Start(ctx, "s", uuid.NullUUID{UUID: recipe.ID, Valid: true})
	require.NoError(t, err)
	require.NotNil(t, view.Composition.BaseContainer)
	assert.Equal(t, box.ID, view.Composition.BaseContainer.ID)
	assert.Equal(t, 3, view.ItemCount)
	require.NotNil(t, view.TargetRecipe)
	assert.Equal(t, recipe.ID, *view.TargetRecipe)

	_, err = f.kits.Start(ctx, "s", uuid.NullUUID{UUID: tooBig.ID, Valid: true})
	require.ErrorIs(t, err, kit.ErrCapacityExceeded)
	view, err = f.kits.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, view.ItemCount, "a recipe that does not fit leaves the draft as it was")

	_, err = f.kits.Start(ctx, "s", uuid.NullUUID{UUID: bala.ID, Valid: true})
	assert.ErrorIs(t, err, ErrNotARecipe)

	view, err = f.kits.Start(ctx, "s", uuid.NullUUID{})
	require.NoError(t, err)
	assert.Zero(t, view.ItemCount)
	assert.Nil(t, view.TargetRecipe)
}

func TestKitService_CustomRibbonUsesContainerSize(t *testing.T) {
	box := boxM()
	cetim := ribbonMaterial("Cetim vermelho", "2")
	f := newKitFixture(t, box, cetim)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)
	view, err := f.kits.SetRibbon(ctx, "s", RibbonChoice{
		Kind:      kit.RibbonCustom,
		Style:     ribbon.StyleSimple,
		PrimaryID: uuid.NullUUID{UUID: cetim.ID, Valid: true},
	})
	require.NoError(t, err)

	require.NotNil(t, view.Composition.Ribbon)
	require.NotNil(t, view.Composition.Ribbon.Custom)
	assert.Equal(t, domain.CapacityMedium, view.Composition.Ribbon.Custom.Size)
	assert.True(t, view.Total.Equal(dec("23")), "container 20 + M bow 3, got %s", view.Total)

	_, err = f.kits.SetRibbon(ctx, "s", RibbonChoice{Kind: kit.RibbonCustom})
	assert.ErrorIs(t, err, kit.ErrInvalidSelection)
	_, err = f.kits.SetRibbon(ctx, "s", RibbonChoice{Kind: "glitter"})
	assert.ErrorIs(t, err, kit.ErrInvalidSelection)
}

func TestKitService_WrapperOptions(t *testing.T) {
	box := boxM() // perimeter 80, wrappers need width >= 42.5
	wide := wrapperOf("Papel largo", 50)
	narrow := wrapperOf("Papel estreito", 30)
	f := newKitFixture(t, box, wide, narrow)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)

	options, err := f.kits.WrapperOptions(ctx, "s")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, wide.ID, options[0].ID)

	// Wrappers stay advisory: an ill-fitting one can still be chosen.
	view, err := f.kits.SetWrapper(ctx, "s", uuid.NullUUID{UUID: narrow.ID, Valid: true})
	require.NoError(t, err)
	require.NotNil(t, view.Composition.Wrapper)

	view, err = f.kits.SetWrapper(ctx, "s", uuid.NullUUID{})
	require.NoError(t, err)
	assert.Nil(t, view.Composition.Wrapper)
}

func TestKitService_FinalizeRequiresRibbonDecision(t *testing.T) {
	box := boxM()
	f := newKitFixture(t, box)
	ctx := context.Background()

	_, err := f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)

	_, err = f.kits.Finalize(ctx, "s")
	require.ErrorIs(t, err, kit.ErrInvalidSelection)

	cv, err := f.carts.Get(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, cv.Lines)
}

func TestKitService_Wizard(t *testing.T) {
	box := boxM()
	f := newKitFixture(t, box)
	ctx := context.Background()

	_, err := f.kits.Advance(ctx, "s")
	require.ErrorIs(t, err, kit.ErrInvalidSelection)

	_, err = f.kits.SetContainer(ctx, "s", box.ID)
	require.NoError(t, err)
	view, err := f.kits.Advance(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "items", view.Step)

	view, err = f.kits.Back(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "container", view.Step)

	view, err = f.kits.SetStyle(ctx, "s", "aniversário")
	require.NoError(t, err)
	assert.Equal(t, "aniversário", view.Style)
}
