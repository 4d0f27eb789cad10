package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/storage"
)

// MaxImageSize bounds catalog image uploads.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ComponentService manages the catalog for the admin. Unlike CatalogService
// it sees disabled components.
type ComponentService interface {
	List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Component, error)
	Create(ctx context.Context, c *domain.Component) error
	Update(ctx context.Context, c *domain.Component) error

	// SetDisabled hides or restores a component without deleting it.
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*domain.Component, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// UploadImage stores an image and points the component at it.
	UploadImage(ctx context.Context, id uuid.UUID, image ImageUpload) (*domain.Component, error)
}

// ImageUpload is an image file received from the admin.
type ImageUpload struct {
	ContentType string
	Size        int64
	Content     io.Reader
}

type componentService struct {
	repo    domain.ComponentRepository
	storage storage.Storage
	logger  *slog.Logger
}

// NewComponentService creates a new ComponentService instance
func NewComponentService(repo domain.ComponentRepository, store storage.Storage, logger *slog.Logger) ComponentService {
	return &componentService{repo: repo, storage: store, logger: logger}
}

func (s *componentService) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	return s.repo.List(ctx, filter)
}

func (s *componentService) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	return s.repo.Get(ctx, id)
}

func (s *componentService) Create(ctx context.Context, c *domain.Component) error {
	if err := s.check(ctx, c); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *componentService) Update(ctx context.Context, c *domain.Component) error {
	if _, err := s.repo.Get(ctx, c.ID); err != nil {
		return err
	}
	if err := s.check(ctx, c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// check validates c on its own, then checks that a recipe only references
// components of the right kinds.
func (s *componentService) check(ctx context.Context, c *domain.Component) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Recipe == nil {
		return nil
	}

	const op = "component.check_recipe"
	container, err := s.repo.Get(ctx, c.Recipe.ContainerID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return domain.NewValidationError(op, "recipe.container_id", "container not found")
		}
		return err
	}
	if container.Kind != domain.KindContainer {
		return domain.NewValidationError(op, "recipe.container_id", container.Name+" is not a container")
	}
	for i, item := range c.Recipe.Items {
		field := fmt.Sprintf("recipe.items[%d]", i)
		comp, err := s.repo.Get(ctx, item.ComponentID)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				return domain.NewValidationError(op, field, "item not found")
			}
			return err
		}
		if !comp.Fillable() {
			return domain.NewValidationError(op, field, comp.Name+" cannot go inside a kit")
		}
	}
	return nil
}

func (s *componentService) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*domain.Component, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Disabled == disabled {
		return c, nil
	}
	c.Disabled = disabled
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *componentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *componentService) UploadImage(ctx context.Context, id uuid.UUID, image ImageUpload) (*domain.Component, error) {
	const op = "component.upload_image"

	ext, ok := imageExtensions[image.ContentType]
	if !ok {
		return nil, fail(ErrUnsupportedImage, op)
	}
	if image.Size > MaxImageSize {
		return nil, fail(ErrImageTooLarge, op)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("components/%s/%s%s", c.ID, uuid.New(), ext)
	url, err := s.storage.Put(ctx, key, io.LimitReader(image.Content, MaxImageSize), image.ContentType)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to store image")
	}

	c.ImageURL = url
	if err := s.repo.Update(ctx, c); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, err
	}
	return c, nil
}
