package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/festa/internal/domain"
)

// SectionService manages catalog sections for the admin.
type SectionService interface {
	List(ctx context.Context) ([]domain.Section, error)
	Create(ctx context.Context, section *domain.Section) error
	Update(ctx context.Context, section *domain.Section) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sectionService struct {
	repo domain.SectionRepository
}

// NewSectionService creates a new SectionService instance
func NewSectionService(repo domain.SectionRepository) SectionService {
	return &sectionService{repo: repo}
}

func (s *sectionService) List(ctx context.Context) ([]domain.Section, error) {
	return s.repo.List(ctx, false)
}

func (s *sectionService) Create(ctx context.Context, section *domain.Section) error {
	normalizeSection(section)
	if err := section.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, section)
}

func (s *sectionService) Update(ctx context.Context, section *domain.Section) error {
	normalizeSection(section)
	if err := section.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, section)
}

func (s *sectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func normalizeSection(section *domain.Section) {
	section.Name = strings.TrimSpace(section.Name)
	section.Slug = strings.ToLower(strings.TrimSpace(section.Slug))
	if section.Slug == "" {
		section.Slug = Slugify(section.Name)
	}
}

var accentFolds = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "î", "i",
	"ó", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Slugify derives a URL slug from a Portuguese name, e.g. "Balões & Festa" -> "baloes-festa".
func Slugify(name string) string {
	s := accentFolds.Replace(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
