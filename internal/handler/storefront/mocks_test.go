package storefront

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/service"
)

const testSession = "c2Vzc2lvbi1mb3ItdGVzdHMtb25seS0wMDAwMDAwMDA="

// newRequest builds a request that already went through WithSession.
func newRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(domain.NewContextWithSession(req.Context(), testSession))
}

// =============================================================================
// MOCK CATALOG SERVICE
// =============================================================================

type mockCatalogService struct {
	listSectionsFunc   func(ctx context.Context) ([]domain.Section, error)
	getSectionFunc     func(ctx context.Context, slug string) (*domain.Section, error)
	listComponentsFunc func(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error)
	getComponentFunc   func(ctx context.Context, id uuid.UUID) (*domain.Component, error)
}

func (m *mockCatalogService) ListSections(ctx context.Context) ([]domain.Section, error) {
	if m.listSectionsFunc != nil {
		return m.listSectionsFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) GetSection(ctx context.Context, slug string) (*domain.Section, error) {
	if m.getSectionFunc != nil {
		return m.getSectionFunc(ctx, slug)
	}
	return nil, domain.ErrSectionNotFound
}

func (m *mockCatalogService) ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	if m.listComponentsFunc != nil {
		return m.listComponentsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCatalogService) GetComponent(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	if m.getComponentFunc != nil {
		return m.getComponentFunc(ctx, id)
	}
	return nil, domain.ErrComponentNotFound
}

// =============================================================================
// MOCK KIT SERVICE
// =============================================================================

type mockKitService struct {
	getFunc            func(ctx context.Context, sessionID string) (*service.KitView, error)
	startFunc          func(ctx context.Context, sessionID string, recipeID uuid.NullUUID) (*service.KitView, error)
	setContainerFunc   func(ctx context.Context, sessionID string, componentID uuid.UUID) (*service.KitView, error)
	addItemFunc        func(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.KitView, error)
	updateItemFunc     func(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.KitView, error)
	setRibbonFunc      func(ctx context.Context, sessionID string, choice service.RibbonChoice) (*service.KitView, error)
	wrapperOptionsFunc func(ctx context.Context, sessionID string) ([]domain.Component, error)
	finalizeFunc       func(ctx context.Context, sessionID string) (*service.CartView, error)
}

func emptyKit() *service.KitView {
	return &service.KitView{Step: "container", ServiceFee: decimal.Zero, Total: decimal.Zero}
}

func (m *mockKitService) Get(ctx context.Context, sessionID string) (*service.KitView, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, sessionID)
	}
	return emptyKit(), nil
}

func (m *mockKitService) Start(ctx context.Context, sessionID string, recipeID uuid.NullUUID) (*service.KitView, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, sessionID, recipeID)
	}
	return emptyKit(), nil
}

func (m *mockKitService) SetContainer(ctx context.Context, sessionID string, componentID uuid.UUID) (*service.KitView, error) {
	if m.setContainerFunc != nil {
		return m.setContainerFunc(ctx, sessionID, componentID)
	}
	return emptyKit(), nil
}

func (m *mockKitService) AddItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.KitView, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, sessionID, componentID, quantity)
	}
	return emptyKit(), nil
}

func (m *mockKitService) UpdateItem(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.KitView, error) {
	if m.updateItemFunc != nil {
		return m.updateItemFunc(ctx, sessionID, componentID, quantity)
	}
	return emptyKit(), nil
}

func (m *mockKitService) RemoveItem(ctx context.Context, sessionID string, componentID uuid.UUID) (*service.KitView, error) {
	return m.UpdateItem(ctx, sessionID, componentID, 0)
}

func (m *mockKitService) SetWrapper(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*service.KitView, error) {
	return emptyKit(), nil
}

func (m *mockKitService) SetFiller(ctx context.Context, sessionID string, componentID uuid.NullUUID) (*service.KitView, error) {
	return emptyKit(), nil
}

func (m *mockKitService) SetRibbon(ctx context.Context, sessionID string, choice service.RibbonChoice) (*service.KitView, error) {
	if m.setRibbonFunc != nil {
		return m.setRibbonFunc(ctx, sessionID, choice)
	}
	return emptyKit(), nil
}

func (m *mockKitService) SetStyle(ctx context.Context, sessionID string, style string) (*service.KitView, error) {
	return emptyKit(), nil
}

func (m *mockKitService) WrapperOptions(ctx context.Context, sessionID string) ([]domain.Component, error) {
	if m.wrapperOptionsFunc != nil {
		return m.wrapperOptionsFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockKitService) Advance(ctx context.Context, sessionID string) (*service.KitView, error) {
	return emptyKit(), nil
}

func (m *mockKitService) Back(ctx context.Context, sessionID string) (*service.KitView, error) {
	return emptyKit(), nil
}

func (m *mockKitService) Finalize(ctx context.Context, sessionID string) (*service.CartView, error) {
	if m.finalizeFunc != nil {
		return m.finalizeFunc(ctx, sessionID)
	}
	return &service.CartView{Lines: []cart.Line{}, Total: decimal.Zero}, nil
}

// =============================================================================
// MOCK CART SERVICE
// =============================================================================

type mockCartService struct {
	getFunc          func(ctx context.Context, sessionID string) (*service.CartView, error)
	addProductFunc   func(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.CartView, error)
	addRibbonCutFunc func(ctx context.Context, sessionID string, params service.RibbonCutParams) (*service.CartView, error)
	addBalloonsFunc  func(ctx context.Context, sessionID string, params service.BalloonParams) (*service.CartView, error)
	setQuantityFunc  func(ctx context.Context, sessionID string, lineID uuid.UUID, quantity int) (*service.CartView, error)
	clearFunc        func(ctx context.Context, sessionID string) error
}

func emptyCart() *service.CartView {
	return &service.CartView{Lines: []cart.Line{}, Total: decimal.Zero}
}

func (m *mockCartService) Get(ctx context.Context, sessionID string) (*service.CartView, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, sessionID)
	}
	return emptyCart(), nil
}

func (m *mockCartService) AddProduct(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.CartView, error) {
	if m.addProductFunc != nil {
		return m.addProductFunc(ctx, sessionID, componentID, quantity)
	}
	return emptyCart(), nil
}

func (m *mockCartService) AddRibbonCut(ctx context.Context, sessionID string, params service.RibbonCutParams) (*service.CartView, error) {
	if m.addRibbonCutFunc != nil {
		return m.addRibbonCutFunc(ctx, sessionID, params)
	}
	return emptyCart(), nil
}

func (m *mockCartService) AddBalloons(ctx context.Context, sessionID string, params service.BalloonParams) (*service.CartView, error) {
	if m.addBalloonsFunc != nil {
		return m.addBalloonsFunc(ctx, sessionID, params)
	}
	return emptyCart(), nil
}

func (m *mockCartService) AddLine(ctx context.Context, sessionID string, line cart.Line) (*service.CartView, error) {
	return emptyCart(), nil
}

func (m *mockCartService) SetQuantity(ctx context.Context, sessionID string, lineID uuid.UUID, quantity int) (*service.CartView, error) {
	if m.setQuantityFunc != nil {
		return m.setQuantityFunc(ctx, sessionID, lineID, quantity)
	}
	return emptyCart(), nil
}

func (m *mockCartService) RemoveLine(ctx context.Context, sessionID string, lineID uuid.UUID) (*service.CartView, error) {
	return m.SetQuantity(ctx, sessionID, lineID, 0)
}

func (m *mockCartService) Clear(ctx context.Context, sessionID string) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockCartService) Consume(ctx context.Context, sessionID string, fn func(lines []cart.Line, total decimal.Decimal) error) error {
	return fn(nil, decimal.Zero)
}

// =============================================================================
// MOCK CHECKOUT SERVICE
// =============================================================================

type mockCheckoutService struct {
	submitFunc func(ctx context.Context, sessionID string, params service.CheckoutParams) (*service.CheckoutResult, error)
}

func (m *mockCheckoutService) Submit(ctx context.Context, sessionID string, params service.CheckoutParams) (*service.CheckoutResult, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sessionID, params)
	}
	return &service.CheckoutResult{}, nil
}
