package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ComponentRepository implements domain.ComponentRepository.
// Kind-specific attributes are stored together in a JSONB column.
type ComponentRepository struct {
	db DBTX
}

// Compile-time check that ComponentRepository implements domain.ComponentRepository.
var _ domain.ComponentRepository = (*ComponentRepository)(nil)

func NewComponentRepository(db DBTX) *ComponentRepository {
	return &ComponentRepository{db: db}
}

type componentAttributes struct {
	Container *domain.ContainerSpec `json:"container,omitempty"`
	Fill      *domain.FillSpec      `json:"fill,omitempty"`
	Ribbon    *domain.RibbonSpec    `json:"ribbon,omitempty"`
	Recipe    *domain.RecipeSpec    `json:"recipe,omitempty"`
}

const componentColumns = `id, name, description, price, kind, unit, width, height, depth,
	section_id, image_url, in_stock, disabled, sort_order, attributes, created_at, updated_at`

func scanComponent(row pgx.Row) (*domain.Component, error) {
	var (
		c     domain.Component
		attrs []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Price, &c.Kind, &c.Unit,
		&c.Dimensions.Width, &c.Dimensions.Height, &c.Dimensions.Depth,
		&c.SectionID, &c.ImageURL, &c.InStock, &c.Disabled, &c.SortOrder,
		&attrs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var a componentAttributes
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &a); err != nil {
			return nil, fmt.Errorf("decode attributes of component %s: %w", c.ID, err)
		}
	}
	c.Container, c.Fill, c.Ribbon, c.Recipe = a.Container, a.Fill, a.Ribbon, a.Recipe
	return &c, nil
}

func encodeAttributes(c *domain.Component) ([]byte, error) {
	return json.Marshal(componentAttributes{
		Container: c.Container,
		Fill:      c.Fill,
		Ribbon:    c.Ribbon,
		Recipe:    c.Recipe,
	})
}

// List returns components matching filter ordered by sort order then name.
func (r *ComponentRepository) List(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.SectionID.Valid {
		args = append(args, filter.SectionID.UUID)
		where = append(where, fmt.Sprintf("section_id = $%d", len(args)))
	}
	if filter.InStockOnly {
		where = append(where, "in_stock")
	}
	if !filter.IncludeDisabled {
		where = append(where, "NOT disabled")
	}

	query := "SELECT " + componentColumns + " FROM components"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sort_order, name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "component.list", "failed to list components")
	}
	defer rows.Close()

	var out []domain.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, domain.Internal(err, "component.list", "failed to read component")
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "component.list", "failed to list components")
	}
	return out, nil
}

func (r *ComponentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	row := r.db.QueryRow(ctx, "SELECT "+componentColumns+" FROM components WHERE id = $1", id)
	c, err := scanComponent(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, "component.get", domain.ErrComponentNotFound.Message)
		}
		return nil, domain.Internal(err, "component.get", "failed to get component")
	}
	return c, nil
}

// Create inserts c, assigning an ID when c.ID is nil, and fills in timestamps.
func (r *ComponentRepository) Create(ctx context.Context, c *domain.Component) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	attrs, err := encodeAttributes(c)
	if err != nil {
		return domain.Internal(err, "component.create", "failed to encode attributes")
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO components (id, name, description, price, kind, unit, width, height, depth,
			section_id, image_url, in_stock, disabled, sort_order, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Description, c.Price, c.Kind, c.Unit,
		c.Dimensions.Width, c.Dimensions.Height, c.Dimensions.Depth,
		c.SectionID, c.ImageURL, c.InStock, c.Disabled, c.SortOrder, attrs,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "component.create", "failed to create component")
	}
	return nil
}

func (r *ComponentRepository) Update(ctx context.Context, c *domain.Component) error {
	attrs, err := encodeAttributes(c)
	if err != nil {
		return domain.Internal(err, "component.update", "failed to encode attributes")
	}

	err = r.db.QueryRow(ctx, `
		UPDATE components SET
			name = $2, description = $3, price = $4, kind = $5, unit = $6,
			width = $7, height = $8, depth = $9, section_id = $10, image_url = $11,
			in_stock = $12, disabled = $13, sort_order = $14, attributes = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Name, c.Description, c.Price, c.Kind, c.Unit,
		c.Dimensions.Width, c.Dimensions.Height, c.Dimensions.Depth,
		c.SectionID, c.ImageURL, c.InStock, c.Disabled, c.SortOrder, attrs,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, "component.update", domain.ErrComponentNotFound.Message)
		}
		return domain.Internal(err, "component.update", "failed to update component")
	}
	return nil
}

// Delete removes a component. Components used by a pre-assembled kit recipe
// cannot be deleted; disable them instead.
func (r *ComponentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var inUse bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM components
			WHERE kind = 'preassembled_kit'
			  AND (attributes->'recipe'->>'container_id' = $1::text
			       OR attributes->'recipe'->'items' @> jsonb_build_array(jsonb_build_object('component_id', $1::text)))
		)`, id.String()).Scan(&inUse)
	if err != nil {
		return domain.Internal(err, "component.delete", "failed to check recipes")
	}
	if inUse {
		return domain.WrapError(domain.ErrComponentInUse, domain.ECONFLICT, "component.delete", domain.ErrComponentInUse.Message)
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM components WHERE id = $1", id)
	if err != nil {
		return domain.Internal(err, "component.delete", "failed to delete component")
	}
	if tag.RowsAffected() == 0 {
		return domain.WrapError(domain.ErrComponentNotFound, domain.ENOTFOUND, "component.delete", domain.ErrComponentNotFound.Message)
	}
	return nil
}

// DecrementRibbonMeters lowers the advisory stock of a ribbon material,
// never below zero.
func (r *ComponentRepository) DecrementRibbonMeters(ctx context.Context, id uuid.UUID, meters float64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE components SET
			attributes = jsonb_set(
				attributes, '{ribbon}',
				jsonb_build_object('remaining_meters',
					GREATEST(COALESCE((attributes->'ribbon'->>'remaining_meters')::float8, 0) - $2, 0))),
			updated_at = NOW()
		WHERE id = $1 AND kind = 'ribbon_material'`, id, meters)
	if err != nil {
		return domain.Internal(err, "component.decrement_ribbon", "failed to update ribbon stock")
	}
	return nil
}
