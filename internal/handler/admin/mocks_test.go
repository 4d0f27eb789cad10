package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/service"
)

type mockAuthService struct {
	loginFunc func(ctx context.Context, email, password string) (string, error)
	loggedOut []string
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return "", service.ErrInvalidCredentials
}

func (m *mockAuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Admin, error) {
	return nil, service.ErrAdminSessionExpired
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) {
	m.loggedOut = append(m.loggedOut, sessionID)
}

type mockComponentService struct {
	listFunc        func(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error)
	getFunc         func(ctx context.Context, id uuid.UUID) (*domain.Component, error)
	createFunc      func(ctx context.Context, c *domain.Component) error
	updateFunc      func(ctx context.Context, c *domain.Component) error
	setDisabledFunc func(ctx context.Context, id uuid.UUID, disabled bool) (*domain.Component, error)
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
	uploadImageFunc func(ctx context.Context, id uuid.UUID, image service.ImageUpload) (*domain.Component, error)
}

func (m *mockComponentService) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockComponentService) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrComponentNotFound
}

func (m *mockComponentService) Create(ctx context.Context, c *domain.Component) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockComponentService) Update(ctx context.Context, c *domain.Component) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockComponentService) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*domain.Component, error) {
	if m.setDisabledFunc != nil {
		return m.setDisabledFunc(ctx, id, disabled)
	}
	return &domain.Component{ID: id, Disabled: disabled}, nil
}

func (m *mockComponentService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockComponentService) UploadImage(ctx context.Context, id uuid.UUID, image service.ImageUpload) (*domain.Component, error) {
	if m.uploadImageFunc != nil {
		return m.uploadImageFunc(ctx, id, image)
	}
	return &domain.Component{ID: id}, nil
}

type mockSectionService struct {
	createFunc func(ctx context.Context, section *domain.Section) error
	updateFunc func(ctx context.Context, section *domain.Section) error
}

func (m *mockSectionService) List(ctx context.Context) ([]domain.Section, error) {
	return nil, nil
}

func (m *mockSectionService) Create(ctx context.Context, section *domain.Section) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, section)
	}
	return nil
}

func (m *mockSectionService) Update(ctx context.Context, section *domain.Section) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, section)
	}
	return nil
}

func (m *mockSectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockOrderService struct {
	listFunc         func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	updateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

func (m *mockOrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockOrderService) Get(ctx context.Context, id uuid.UUID) (*service.OrderDetail, error) {
	return nil, domain.ErrOrderNotFound
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockSettingsService struct {
	saveFunc func(ctx context.Context, settings *domain.StoreSettings) error
}

func (m *mockSettingsService) Get(ctx context.Context) (*domain.StoreSettings, error) {
	return &domain.StoreSettings{StoreName: "Festa"}, nil
}

func (m *mockSettingsService) Save(ctx context.Context, settings *domain.StoreSettings) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, settings)
	}
	return nil
}
