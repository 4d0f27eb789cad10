// Package seed loads a catalog from a YAML file into the store. Files are
// checked against an embedded JSON schema before anything is written, and
// loading is idempotent: sections match by slug, components by kind and name.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/service"
)

//go:embed catalog.schema.json
var catalogSchemaJSON string

var catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaJSON)

// ErrInvalidCatalog is returned when a catalog file fails schema or
// reference checks.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the decoded seed file.
type Catalog struct {
	Settings   *Settings   `json:"settings"`
	Sections   []Section   `json:"sections"`
	Components []Component `json:"components"`
}

type Settings struct {
	StoreName     string `json:"store_name"`
	WhatsAppPhone string `json:"whatsapp_phone"`
	Greeting      string `json:"greeting"`
}

type Section struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
	Hidden    bool   `json:"hidden"`
}

// Component is one catalog entry. Key is local to the file and lets recipes
// refer to other components.
type Component struct {
	Key             string               `json:"key"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Kind            domain.ComponentKind `json:"kind"`
	Unit            domain.Unit          `json:"unit"`
	Price           decimal.Decimal      `json:"price"`
	Section         string               `json:"section"`
	ImageURL        string               `json:"image_url"`
	OutOfStock      bool                 `json:"out_of_stock"`
	SortOrder       int                  `json:"sort_order"`
	Dimensions      domain.Dimensions    `json:"dimensions"`
	Capacity        int                  `json:"capacity"`
	CapacityClass   domain.CapacityClass `json:"capacity_class"`
	ItemSize        int                  `json:"item_size"`
	RemainingMeters *float64             `json:"remaining_meters"`
	Recipe          *Recipe              `json:"recipe"`
}

type Recipe struct {
	Container string       `json:"container"`
	Items     []RecipeItem `json:"items"`
}

type RecipeItem struct {
	Component string `json:"component"`
	Quantity  int    `json:"quantity"`
}

// Parse decodes and checks a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// The schema validator works on JSON values, so go through JSON once.
	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	var instance any
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalogSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var c Catalog
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// check enforces what the schema cannot express: unique keys and recipe
// references.
func (c *Catalog) check() error {
	kinds := make(map[string]domain.ComponentKind, len(c.Components))
	for _, comp := range c.Components {
		if _, dup := kinds[comp.Key]; dup {
			return fmt.Errorf("%w: duplicate component key %q", ErrInvalidCatalog, comp.Key)
		}
		kinds[comp.Key] = comp.Kind
	}

	for _, comp := range c.Components {
		isKit := comp.Kind == domain.KindPreassembled
		if isKit != (comp.Recipe != nil) {
			return fmt.Errorf("%w: %q: only pre-assembled kits carry a recipe, and they must", ErrInvalidCatalog, comp.Key)
		}
		if !isKit {
			continue
		}
		if kinds[comp.Recipe.Container] != domain.KindContainer {
			return fmt.Errorf("%w: %q: recipe container %q is not a container in this file", ErrInvalidCatalog, comp.Key, comp.Recipe.Container)
		}
		for _, item := range comp.Recipe.Items {
			kind, ok := kinds[item.Component]
			if !ok {
				return fmt.Errorf("%w: %q: recipe item %q is not defined", ErrInvalidCatalog, comp.Key, item.Component)
			}
			if kind != domain.KindFillableItem && kind != domain.KindAccessory {
				return fmt.Errorf("%w: %q: recipe item %q cannot go inside a kit", ErrInvalidCatalog, comp.Key, item.Component)
			}
		}
	}
	return nil
}

// Report counts what Load wrote.
type Report struct {
	SectionsCreated   int
	SectionsUpdated   int
	ComponentsCreated int
	ComponentsUpdated int
	SettingsSaved     bool
}

// Loader writes a parsed catalog through the repositories.
type Loader struct {
	sections   domain.SectionRepository
	components domain.ComponentRepository
	settings   domain.SettingsRepository
	logger     *slog.Logger
}

func NewLoader(sections domain.SectionRepository, components domain.ComponentRepository, settings domain.SettingsRepository, logger *slog.Logger) *Loader {
	return &Loader{sections: sections, components: components, settings: settings, logger: logger}
}

// Load upserts the catalog. Pre-assembled kits are written last so their
// recipes can point at the IDs of the components they use.
func (l *Loader) Load(ctx context.Context, c *Catalog) (*Report, error) {
	report := &Report{}

	if c.Settings != nil {
		if err := l.loadSettings(ctx, c.Settings); err != nil {
			return report, err
		}
		report.SettingsSaved = true
	}

	sectionIDs := make(map[string]uuid.UUID, len(c.Sections))
	for _, s := range c.Sections {
		id, created, err := l.upsertSection(ctx, s)
		if err != nil {
			return report, err
		}
		sectionIDs[sectionSlug(s)] = id
		if created {
			report.SectionsCreated++
		} else {
			report.SectionsUpdated++
		}
	}

	existing, err := l.components.List(ctx, domain.ComponentFilter{IncludeDisabled: true})
	if err != nil {
		return report, err
	}
	byName := make(map[string]*domain.Component, len(existing))
	for i := range existing {
		byName[matchKey(existing[i].Kind, existing[i].Name)] = &existing[i]
	}

	ids := make(map[string]uuid.UUID, len(c.Components))
	for _, kitPass := range []bool{false, true} {
		for _, comp := range c.Components {
			if (comp.Kind == domain.KindPreassembled) != kitPass {
				continue
			}

			next, err := l.build(ctx, comp, sectionIDs, ids)
			if err != nil {
				return report, err
			}

			if current, ok := byName[matchKey(next.Kind, next.Name)]; ok {
				next.ID = current.ID
				next.Disabled = current.Disabled
				if next.ImageURL == "" {
					next.ImageURL = current.ImageURL
				}
				if err := l.components.Update(ctx, next); err != nil {
					return report, err
				}
				report.ComponentsUpdated++
			} else {
				if err := l.components.Create(ctx, next); err != nil {
					return report, err
				}
				report.ComponentsCreated++
			}
			ids[comp.Key] = next.ID
		}
	}

	l.logger.Info("catalog loaded",
		"sections_created", report.SectionsCreated,
		"sections_updated", report.SectionsUpdated,
		"components_created", report.ComponentsCreated,
		"components_updated", report.ComponentsUpdated,
	)
	return report, nil
}

func (l *Loader) loadSettings(ctx context.Context, s *Settings) error {
	current, err := l.settings.Get(ctx)
	if err != nil {
		return err
	}
	if s.StoreName != "" {
		current.StoreName = s.StoreName
	}
	if s.WhatsAppPhone != "" {
		current.WhatsAppPhone = s.WhatsAppPhone
	}
	if s.Greeting != "" {
		current.Greeting = s.Greeting
	}
	if err := current.Validate(); err != nil {
		return err
	}
	return l.settings.Save(ctx, current)
}

func (l *Loader) upsertSection(ctx context.Context, s Section) (uuid.UUID, bool, error) {
	section := &domain.Section{
		Name:      s.Name,
		Slug:      sectionSlug(s),
		SortOrder: s.SortOrder,
		Visible:   !s.Hidden,
	}
	if err := section.Validate(); err != nil {
		return uuid.Nil, false, err
	}

	current, err := l.sections.GetBySlug(ctx, section.Slug)
	switch {
	case domain.IsCode(err, domain.ENOTFOUND):
		if err := l.sections.Create(ctx, section); err != nil {
			return uuid.Nil, false, err
		}
		return section.ID, true, nil
	case err != nil:
		return uuid.Nil, false, err
	}

	section.ID = current.ID
	if err := l.sections.Update(ctx, section); err != nil {
		return uuid.Nil, false, err
	}
	return section.ID, false, nil
}

// build turns a seed entry into a domain component, resolving its section
// and recipe references.
func (l *Loader) build(ctx context.Context, comp Component, sectionIDs, ids map[string]uuid.UUID) (*domain.Component, error) {
	c := &domain.Component{
		Name:        comp.Name,
		Description: comp.Description,
		Price:       comp.Price,
		Kind:        comp.Kind,
		Unit:        comp.Unit,
		Dimensions:  comp.Dimensions,
		ImageURL:    comp.ImageURL,
		InStock:     !comp.OutOfStock,
		SortOrder:   comp.SortOrder,
	}
	if c.Unit == "" {
		c.Unit = domain.UnitEach
		if c.Kind == domain.KindRibbonMaterial {
			c.Unit = domain.UnitMeter
		}
	}

	if comp.Section != "" {
		id, ok := sectionIDs[comp.Section]
		if !ok {
			section, err := l.sections.GetBySlug(ctx, comp.Section)
			if err != nil {
				return nil, fmt.Errorf("component %q: section %q: %w", comp.Key, comp.Section, err)
			}
			id = section.ID
			sectionIDs[comp.Section] = id
		}
		c.SectionID = uuid.NullUUID{UUID: id, Valid: true}
	}

	switch comp.Kind {
	case domain.KindContainer:
		if comp.Capacity > 0 || comp.CapacityClass != "" {
			c.Container = &domain.ContainerSpec{Capacity: comp.Capacity, Class: comp.CapacityClass}
		}
	case domain.KindFillableItem, domain.KindAccessory:
		if comp.ItemSize > 0 {
			c.Fill = &domain.FillSpec{ItemSize: comp.ItemSize}
		}
	case domain.KindRibbonMaterial:
		if comp.RemainingMeters != nil {
			c.Ribbon = &domain.RibbonSpec{RemainingMeters: *comp.RemainingMeters}
		}
	case domain.KindPreassembled:
		recipe := &domain.RecipeSpec{ContainerID: ids[comp.Recipe.Container]}
		for _, item := range comp.Recipe.Items {
			recipe.Items = append(recipe.Items, domain.RecipeItem{
				ComponentID: ids[item.Component],
				Quantity:    item.Quantity,
			})
		}
		c.Recipe = recipe
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("component %q: %w", comp.Key, err)
	}
	return c, nil
}

func sectionSlug(s Section) string {
	if s.Slug != "" {
		return s.Slug
	}
	return service.Slugify(s.Name)
}

func matchKey(kind domain.ComponentKind, name string) string {
	return string(kind) + "\x00" + name
}
