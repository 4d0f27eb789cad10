package postgres

import (
	"context"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SectionRepository implements domain.SectionRepository.
type SectionRepository struct {
	db DBTX
}

var _ domain.SectionRepository = (*SectionRepository)(nil)

func NewSectionRepository(db DBTX) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = `id, name, slug, sort_order, visible, created_at, updated_at`

func scanSection(row pgx.Row) (*domain.Section, error) {
	var s domain.Section
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.SortOrder, &s.Visible, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepository) List(ctx context.Context, visibleOnly bool) ([]domain.Section, error) {
	query := "SELECT " + sectionColumns + " FROM sections"
	if visibleOnly {
		query += " WHERE visible"
	}
	query += " ORDER BY sort_order, name"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, domain.Internal(err, "section.list", "failed to list sections")
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, domain.Internal(err, "section.list", "failed to read section")
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "section.list", "failed to list sections")
	}
	return out, nil
}

func (r *SectionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	return r.getBy(ctx, "section.get", "id", id)
}

func (r *SectionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Section, error) {
	return r.getBy(ctx, "section.get_by_slug", "slug", slug)
}

func (r *SectionRepository) getBy(ctx context.Context, op, column string, value any) (*domain.Section, error) {
	s, err := scanSection(r.db.QueryRow(ctx, "SELECT "+sectionColumns+" FROM sections WHERE "+column+" = $1", value))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.WrapError(domain.ErrSectionNotFound, domain.ENOTFOUND, op, domain.ErrSectionNotFound.Message)
		}
		return nil, domain.Internal(err, op, "failed to get section")
	}
	return s, nil
}

func (r *SectionRepository) Create(ctx context.Context, s *domain.Section) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO sections (id, name, slug, sort_order, visible)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Slug, s.SortOrder, s.Visible,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrSectionSlugExists, domain.ECONFLICT, "section.create", domain.ErrSectionSlugExists.Message)
		}
		return domain.Internal(err, "section.create", "failed to create section")
	}
	return nil
}

func (r *SectionRepository) Update(ctx context.Context, s *domain.Section) error {
	err := r.db.QueryRow(ctx, `
		UPDATE sections SET name = $2, slug = $3, sort_order = $4, visible = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.Name, s.Slug, s.SortOrder, s.Visible,
	).Scan(&s.UpdatedAt)
	if err != nil {
		switch {
		case isNoRows(err):
			return domain.WrapError(domain.ErrSectionNotFound, domain.ENOTFOUND, "section.update", domain.ErrSectionNotFound.Message)
		case isUniqueViolation(err):
			return domain.WrapError(domain.ErrSectionSlugExists, domain.ECONFLICT, "section.update", domain.ErrSectionSlugExists.Message)
		}
		return domain.Internal(err, "section.update", "failed to update section")
	}
	return nil
}

// Delete removes a section. Its components stay in the catalog without a section.
func (r *SectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sections WHERE id = $1", id)
	if err != nil {
		return domain.Internal(err, "section.delete", "failed to delete section")
	}
	if tag.RowsAffected() == 0 {
		return domain.WrapError(domain.ErrSectionNotFound, domain.ENOTFOUND, "section.delete", domain.ErrSectionNotFound.Message)
	}
	return nil
}
