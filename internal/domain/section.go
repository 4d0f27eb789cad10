package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSectionNotFound   = &Error{Code: ENOTFOUND, Message: "Section not found"}
	ErrSectionSlugExists = &Error{Code: ECONFLICT, Message: "Section slug already exists"}
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Section groups components on the storefront (e.g. "Cestas", "Balões").
type Section struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks name and slug.
func (s *Section) Validate() error {
	const op = "section.validate"
	var err error
	if s.Name == "" {
		err = addField(err, op, "name", "name is required")
	}
	if !slugPattern.MatchString(s.Slug) {
		err = addField(err, op, "slug", "slug must be lowercase letters, digits and hyphens")
	}
	return err
}

// SectionRepository persists catalog sections.
type SectionRepository interface {
	// List returns sections ordered by sort order. Hidden sections are
	// skipped when visibleOnly is set.
	List(ctx context.Context, visibleOnly bool) ([]Section, error)
	Get(ctx context.Context, id uuid.UUID) (*Section, error)
	GetBySlug(ctx context.Context, slug string) (*Section, error)

	// Create and Update return ErrSectionSlugExists on a duplicate slug.
	Create(ctx context.Context, s *Section) error
	Update(ctx context.Context, s *Section) error
	Delete(ctx context.Context, id uuid.UUID) error
}
