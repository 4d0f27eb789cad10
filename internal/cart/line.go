package cart

import (
	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineKind discriminates the payload a Line carries.
type LineKind string

const (
	LineProduct LineKind = "product"
	LineKit     LineKind = "kit"
	LineRibbon  LineKind = "ribbon"
	LineBalloon LineKind = "balloon"
)

// Custom reports whether lines of this kind carry their own precomputed price.
func (k LineKind) Custom() bool {
	return k == LineKit || k == LineRibbon || k == LineBalloon
}

// ComponentRef is a snapshot of the catalog fields a line needs to be shown
// and summarized without querying the catalog again.
type ComponentRef struct {
	ID    uuid.UUID            `json:"id"`
	Name  string               `json:"name"`
	Kind  domain.ComponentKind `json:"kind"`
	Unit  domain.Unit          `json:"unit"`
	Price decimal.Decimal      `json:"price"`
	Image string               `json:"image_url,omitempty"`
}

// Ref snapshots c.
func Ref(c *domain.Component) ComponentRef {
	return ComponentRef{
		ID:    c.ID,
		Name:  c.Name,
		Kind:  c.Kind,
		Unit:  c.Unit,
		Price: c.Price,
		Image: c.ImageURL,
	}
}

// KitItem is one item packed in a finished kit.
type KitItem struct {
	Component ComponentRef `json:"component"`
	Quantity  int          `json:"quantity"`
}

// KitRibbon describes the finishing chosen for a kit.
type KitRibbon struct {
	Kind      string          `json:"kind"`
	Accessory *ComponentRef   `json:"accessory,omitempty"`
	Style     string          `json:"style,omitempty"`
	Size      string          `json:"size,omitempty"`
	Primary   *ComponentRef   `json:"primary,omitempty"`
	Secondary *ComponentRef   `json:"secondary,omitempty"`
	Meters    float64         `json:"meters,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
}

// KitDetail is the payload of a finished custom kit.
type KitDetail struct {
	Container  ComponentRef    `json:"container"`
	Wrapper    *ComponentRef   `json:"wrapper,omitempty"`
	Filler     *ComponentRef   `json:"filler,omitempty"`
	Items      []KitItem       `json:"items"`
	Ribbon     KitRibbon       `json:"ribbon"`
	Style      string          `json:"style,omitempty"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Total      decimal.Decimal `json:"total"`
}

// RibbonDetail is the payload of a freeform ribbon cut.
type RibbonDetail struct {
	Material  ComponentRef    `json:"material"`
	Style     string          `json:"style"`
	Size      string          `json:"size"`
	Meters    float64         `json:"meters"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Total     decimal.Decimal `json:"total"`
}

// BalloonItem is one balloon choice in a package.
type BalloonItem struct {
	Component ComponentRef `json:"component"`
	Quantity  int          `json:"quantity"`
}

// BalloonDetail is the payload of a custom balloon package.
type BalloonDetail struct {
	Balloons       []BalloonItem   `json:"balloons"`
	Helium         bool            `json:"helium"`
	Arrangement    string          `json:"arrangement"`
	HeliumFee      decimal.Decimal `json:"helium_fee"`
	ArrangementFee decimal.Decimal `json:"arrangement_fee"`
	Total          decimal.Decimal `json:"total"`
}

// Line is one purchasable unit in the cart. Exactly one payload matching Kind
// is set. For custom lines UnitPrice is the total captured when the line was
// built and is never recomputed.
type Line struct {
	ID        uuid.UUID       `json:"id"`
	Kind      LineKind        `json:"kind"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`

	Product *ComponentRef  `json:"product,omitempty"`
	Kit     *KitDetail     `json:"kit,omitempty"`
	Ribbon  *RibbonDetail  `json:"ribbon,omitempty"`
	Balloon *BalloonDetail `json:"balloon,omitempty"`
}

// Total is UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ProductLine builds a plain product line.
func ProductLine(c *domain.Component, quantity int) (Line, error) {
	const op = "cart.product_line"
	if quantity < 1 {
		return Line{}, domain.WrapError(domain.ErrInvalidQuantity, domain.EINVALID, op, domain.ErrInvalidQuantity.Message)
	}
	if c.Disabled {
		return Line{}, domain.Invalid(op, c.Name+" is no longer sold")
	}

	ref := Ref(c)
	return Line{
		ID:        uuid.New(),
		Kind:      LineProduct,
		Name:      c.Name,
		Quantity:  quantity,
		UnitPrice: c.Price,
		Product:   &ref,
	}, nil
}

// NewKitLine wraps a finished kit into a line of quantity 1.
func NewKitLine(name string, detail KitDetail) Line {
	return Line{
		ID:        uuid.New(),
		Kind:      LineKit,
		Name:      name,
		Quantity:  1,
		UnitPrice: detail.Total,
		Kit:       &detail,
	}
}

// NewRibbonLine wraps a freeform ribbon cut into a line.
func NewRibbonLine(name string, quantity int, detail RibbonDetail) Line {
	return Line{
		ID:        uuid.New(),
		Kind:      LineRibbon,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: detail.Total,
		Ribbon:    &detail,
	}
}

// NewBalloonLine wraps a balloon package into a line of quantity 1.
func NewBalloonLine(name string, detail BalloonDetail) Line {
	return Line{
		ID:        uuid.New(),
		Kind:      LineBalloon,
		Name:      name,
		Quantity:  1,
		UnitPrice: detail.Total,
		Balloon:   &detail,
	}
}

// valid checks that the payload matches Kind. Used when restoring a
// serialized cart.
func (l Line) valid() bool {
	if l.ID == uuid.Nil || l.Quantity < 1 || l.UnitPrice.IsNegative() {
		return false
	}
	switch l.Kind {
	case LineProduct:
		return l.Product != nil
	case LineKit:
		return l.Kit != nil
	case LineRibbon:
		return l.Ribbon != nil
	case LineBalloon:
		return l.Balloon != nil
	}
	return false
}
