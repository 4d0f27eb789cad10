package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPONENT DOMAIN TYPES
// =============================================================================

// ComponentKind tags what role a catalog entry plays when a kit is assembled.
type ComponentKind string

const (
	KindContainer      ComponentKind = "container"
	KindFillableItem   ComponentKind = "fillable_item"
	KindFiller         ComponentKind = "filler"
	KindWrapper        ComponentKind = "wrapper"
	KindRibbonMaterial ComponentKind = "ribbon_material"
	KindAccessory      ComponentKind = "accessory"
	KindPreassembled   ComponentKind = "preassembled_kit"
	KindBalloon        ComponentKind = "balloon"
)

// Valid reports whether k is a known kind.
func (k ComponentKind) Valid() bool {
	switch k {
	case KindContainer, KindFillableItem, KindFiller, KindWrapper,
		KindRibbonMaterial, KindAccessory, KindPreassembled, KindBalloon:
		return true
	}
	return false
}

// Unit is the unit of sale for a component.
type Unit string

const (
	UnitEach    Unit = "each"
	UnitMeter   Unit = "meter"
	UnitPackage Unit = "package"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == UnitEach || u == UnitMeter || u == UnitPackage
}

// CapacityClass is the coarse size bucket of a container (small, medium, large).
type CapacityClass string

const (
	CapacitySmall  CapacityClass = "P"
	CapacityMedium CapacityClass = "M"
	CapacityLarge  CapacityClass = "G"
)

// Valid reports whether c is one of P, M or G.
func (c CapacityClass) Valid() bool {
	return c == CapacitySmall || c == CapacityMedium || c == CapacityLarge
}

// Dimensions are physical measurements in centimeters.
// A zero value means the dimension was not declared.
type Dimensions struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
}

// ContainerSpec holds attributes only containers carry.
type ContainerSpec struct {
	// Capacity is the literal slot count printed on the product. Informational only;
	// the enforced budget comes from Class.
	Capacity int           `json:"capacity,omitempty"`
	Class    CapacityClass `json:"class,omitempty"`
}

// FillSpec holds attributes of items placed inside a container.
type FillSpec struct {
	ItemSize int `json:"item_size,omitempty"`
}

// RibbonSpec holds ribbon material stock. RemainingMeters is advisory.
type RibbonSpec struct {
	RemainingMeters float64 `json:"remaining_meters"`
}

// RecipeItem is one line of a pre-assembled kit recipe.
type RecipeItem struct {
	ComponentID uuid.UUID `json:"component_id"`
	Quantity    int       `json:"quantity"`
}

// RecipeSpec describes how a pre-assembled kit is composed.
type RecipeSpec struct {
	ContainerID uuid.UUID    `json:"container_id"`
	Items       []RecipeItem `json:"items"`
}

// Component is a catalog entry. The kit engine only reads components.
//
// Exactly one of Container, Fill, Ribbon or Recipe may be set, and only when it
// matches Kind.
type Component struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Kind        ComponentKind   `json:"kind"`
	Unit        Unit            `json:"unit"`
	Dimensions  Dimensions      `json:"dimensions"`
	SectionID   uuid.NullUUID   `json:"section_id"`
	ImageURL    string          `json:"image_url,omitempty"`
	InStock     bool            `json:"in_stock"`
	Disabled    bool            `json:"disabled"`
	SortOrder   int             `json:"sort_order"`

	Container *ContainerSpec `json:"container,omitempty"`
	Fill      *FillSpec      `json:"fill,omitempty"`
	Ribbon    *RibbonSpec    `json:"ribbon,omitempty"`
	Recipe    *RecipeSpec    `json:"recipe,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemSize returns the slot weight of the component, defaulting to 1.
func (c *Component) ItemSize() int {
	if c.Fill != nil && c.Fill.ItemSize > 0 {
		return c.Fill.ItemSize
	}
	return 1
}

// CapacityClass returns the container's class, or "" when none is declared.
func (c *Component) CapacityClass() CapacityClass {
	if c.Container == nil {
		return ""
	}
	return c.Container.Class
}

// Fillable reports whether the component can be placed inside a kit container.
func (c *Component) Fillable() bool {
	return c.Kind == KindFillableItem || c.Kind == KindAccessory
}

// Purchasable reports whether the component can be sold right now.
func (c *Component) Purchasable() bool {
	return c.InStock && !c.Disabled
}

// Validate checks the component for catalog consistency.
// Returns a ValidationError listing every offending field.
func (c *Component) Validate() error {
	const op = "component.validate"
	var err error

	if c.Name == "" {
		err = addField(err, op, "name", "name is required")
	}
	if c.Price.IsNegative() {
		err = addField(err, op, "price", "price cannot be negative")
	}
	if !c.Kind.Valid() {
		err = addField(err, op, "kind", "unknown component kind")
	}
	if !c.Unit.Valid() {
		err = addField(err, op, "unit", "unknown unit of sale")
	}
	if c.Dimensions.Width < 0 || c.Dimensions.Height < 0 || c.Dimensions.Depth < 0 {
		err = addField(err, op, "dimensions", "dimensions cannot be negative")
	}

	if c.Container != nil {
		if c.Kind != KindContainer {
			err = addField(err, op, "container", "only containers carry container attributes")
		} else if c.Container.Class != "" && !c.Container.Class.Valid() {
			err = addField(err, op, "container.class", "capacity class must be P, M or G")
		}
	}
	if c.Fill != nil {
		if !c.Fillable() {
			err = addField(err, op, "fill", "only fillable items carry a slot size")
		} else if c.Fill.ItemSize < 0 {
			err = addField(err, op, "fill.item_size", "item size cannot be negative")
		}
	}
	if c.Ribbon != nil {
		if c.Kind != KindRibbonMaterial {
			err = addField(err, op, "ribbon", "only ribbon materials carry stock meters")
		} else if c.Ribbon.RemainingMeters < 0 {
			err = addField(err, op, "ribbon.remaining_meters", "remaining meters cannot be negative")
		}
	}
	if c.Recipe != nil {
		if c.Kind != KindPreassembled {
			err = addField(err, op, "recipe", "only pre-assembled kits carry a recipe")
		} else {
			if c.Recipe.ContainerID == uuid.Nil {
				err = addField(err, op, "recipe.container_id", "recipe needs a container")
			}
			for _, it := range c.Recipe.Items {
				if it.Quantity < 1 {
					err = addField(err, op, "recipe.items", "recipe quantities must be at least 1")
					break
				}
			}
		}
	}

	return err
}

func addField(err error, op, field, message string) error {
	if err == nil {
		return NewValidationError(op, field, message)
	}
	return AddFieldError(err, field, message)
}

// =============================================================================
// COMPONENT REPOSITORY
// =============================================================================

var (
	ErrComponentNotFound = &Error{Code: ENOTFOUND, Message: "Component not found"}
	ErrComponentInUse    = &Error{Code: ECONFLICT, Message: "Component is referenced by a recipe"}
)

// ComponentFilter narrows a catalog listing. Zero values mean "no constraint",
// except that disabled components are excluded unless IncludeDisabled is set.
type ComponentFilter struct {
	Kind            ComponentKind
	SectionID       uuid.NullUUID
	InStockOnly     bool
	IncludeDisabled bool
}

// ComponentRepository persists catalog components.
type ComponentRepository interface {
	List(ctx context.Context, filter ComponentFilter) ([]Component, error)

	// Get returns ErrComponentNotFound when no component has the given id.
	Get(ctx context.Context, id uuid.UUID) (*Component, error)

	Create(ctx context.Context, c *Component) error
	Update(ctx context.Context, c *Component) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementRibbonMeters lowers a ribbon material's remaining meters, floored at zero.
	DecrementRibbonMeters(ctx context.Context, id uuid.UUID, meters float64) error
}
