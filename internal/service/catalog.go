package service

import (
	"context"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
)

// CatalogService is the storefront's read-only view of the catalog.
// Disabled components and hidden sections are never returned.
type CatalogService interface {
	ListSections(ctx context.Context) ([]domain.Section, error)
	GetSection(ctx context.Context, slug string) (*domain.Section, error)
	ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error)
	GetComponent(ctx context.Context, id uuid.UUID) (*domain.Component, error)
}

type catalogService struct {
	components domain.ComponentRepository
	sections   domain.SectionRepository
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(components domain.ComponentRepository, sections domain.SectionRepository) CatalogService {
	return &catalogService{components: components, sections: sections}
}

func (s *catalogService) ListSections(ctx context.Context) ([]domain.Section, error) {
	return s.sections.List(ctx, true)
}

func (s *catalogService) GetSection(ctx context.Context, slug string) (*domain.Section, error) {
	sec, err := s.sections.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !sec.Visible {
		return nil, domain.WrapError(domain.ErrSectionNotFound, domain.ENOTFOUND, "catalog.get_section", domain.ErrSectionNotFound.Message)
	}
	return sec, nil
}

func (s *catalogService) ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	filter.IncludeDisabled = false
	return s.components.List(ctx, filter)
}

func (s *catalogService) GetComponent(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	return visibleComponent(ctx, s.components, id, "catalog.get_component")
}

// visibleComponent loads a component and hides disabled ones from shoppers.
func visibleComponent(ctx context.Context, repo domain.ComponentRepository, id uuid.UUID, op string) (*domain.Component, error) {
	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Disabled {
		return nil, domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, op, domain.ErrComponentNotFound.Message)
	}
	return c, nil
}

// purchasable loads a component a shopper is about to put in a cart or kit.
func purchasable(ctx context.Context, repo domain.ComponentRepository, id uuid.UUID, op string) (*domain.Component, error) {
	c, err := visibleComponent(ctx, repo, id, op)
	if err != nil {
		return nil, err
	}
	if !c.Purchasable() {
		return nil, fail(ErrComponentUnavailable, op)
	}
	return c, nil
}
