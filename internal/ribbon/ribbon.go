// Package ribbon holds the bow tables used to finish a kit and the calculator
// for freeform ribbon cuts sold on their own.
package ribbon

import (
	"fmt"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/shopspring/decimal"
)

// Style is the bow shape. It is cosmetic for kit bows.
type Style string

const (
	StyleSimple Style = "simple"
	StyleDouble Style = "double"
)

// Styles lists the offered styles in display order.
var Styles = []Style{StyleSimple, StyleDouble}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	return s == StyleSimple || s == StyleDouble
}

// BowSize is one row of the kit bow table.
type BowSize struct {
	Class  domain.CapacityClass `json:"class"`
	Meters float64              `json:"meters"`
	Price  decimal.Decimal      `json:"price"`
}

// BowSizes is the kit bow table. Prices are a flat assembly charge and do not
// depend on the material used.
var BowSizes = map[domain.CapacityClass]BowSize{
	domain.CapacitySmall:  {Class: domain.CapacitySmall, Meters: 1.0, Price: decimal.NewFromInt(2)},
	domain.CapacityMedium: {Class: domain.CapacityMedium, Meters: 1.5, Price: decimal.NewFromInt(3)},
	domain.CapacityLarge:  {Class: domain.CapacityLarge, Meters: 2.0, Price: decimal.NewFromInt(5)},
}

// Freeform cut pricing.
var (
	SizeMultipliers = map[domain.CapacityClass]decimal.Decimal{
		domain.CapacitySmall:  decimal.NewFromInt(1),
		domain.CapacityMedium: decimal.RequireFromString("1.5"),
		domain.CapacityLarge:  decimal.NewFromInt(2),
	}
	StyleSurcharges = map[Style]decimal.Decimal{
		StyleSimple: decimal.NewFromInt(1),
		StyleDouble: decimal.NewFromInt(2),
	}
)

var (
	ErrUnknownStyle = &domain.Error{Code: domain.EINVALID, Message: "Unknown ribbon style"}
	ErrUnknownSize  = &domain.Error{Code: domain.EINVALID, Message: "Unknown ribbon size"}
	ErrNotRibbon    = &domain.Error{Code: domain.EINVALID, Message: "Choose a ribbon material"}
)

func checkMaterial(op string, c *domain.Component) error {
	if c == nil || c.Kind != domain.KindRibbonMaterial {
		return domain.WrapError(ErrNotRibbon, domain.EINVALID, op, ErrNotRibbon.Message)
	}
	return nil
}

// CustomBow builds the ribbon selection for a bow assembled to order for a
// kit. The secondary material is optional.
func CustomBow(style Style, size domain.CapacityClass, primary, secondary *domain.Component) (kit.RibbonSelection, error) {
	const op = "ribbon.custom_bow"
	if !style.Valid() {
		return kit.RibbonSelection{}, domain.WrapError(ErrUnknownStyle, domain.EINVALID, op, fmt.Sprintf("Unknown ribbon style %q", style))
	}
	bow, ok := BowSizes[size]
	if !ok {
		return kit.RibbonSelection{}, domain.WrapError(ErrUnknownSize, domain.EINVALID, op, fmt.Sprintf("Unknown ribbon size %q", size))
	}
	if err := checkMaterial(op, primary); err != nil {
		return kit.RibbonSelection{}, err
	}

	custom := &kit.CustomRibbon{
		Style:   string(style),
		Primary: *primary,
		Size:    size,
		Meters:  bow.Meters,
		Cost:    bow.Price,
	}
	if secondary != nil {
		if err := checkMaterial(op, secondary); err != nil {
			return kit.RibbonSelection{}, err
		}
		s := *secondary
		custom.Secondary = &s
	}
	return kit.RibbonSelection{Kind: kit.RibbonCustom, Custom: custom}, nil
}

// CutPrice prices one freeform cut: material price per meter × size
// multiplier plus the style surcharge.
func CutPrice(material *domain.Component, style Style, size domain.CapacityClass) (decimal.Decimal, error) {
	const op = "ribbon.cut_price"
	if err := checkMaterial(op, material); err != nil {
		return decimal.Zero, err
	}
	surcharge, ok := StyleSurcharges[style]
	if !ok {
		return decimal.Zero, domain.WrapError(ErrUnknownStyle, domain.EINVALID, op, fmt.Sprintf("Unknown ribbon style %q", style))
	}
	mult, ok := SizeMultipliers[size]
	if !ok {
		return decimal.Zero, domain.WrapError(ErrUnknownSize, domain.EINVALID, op, fmt.Sprintf("Unknown ribbon size %q", size))
	}
	return material.Price.Mul(mult).Add(surcharge), nil
}

// Cut builds a standalone cart line for quantity freeform cuts.
func Cut(material *domain.Component, style Style, size domain.CapacityClass, quantity int) (cart.Line, error) {
	const op = "ribbon.cut"
	if quantity < 1 {
		return cart.Line{}, domain.WrapError(domain.ErrInvalidQuantity, domain.EINVALID, op, domain.ErrInvalidQuantity.Message)
	}
	price, err := CutPrice(material, style, size)
	if err != nil {
		return cart.Line{}, err
	}

	meters, _ := SizeMultipliers[size].Float64()
	detail := cart.RibbonDetail{
		Material:  cart.Ref(material),
		Style:     string(style),
		Size:      string(size),
		Meters:    meters,
		Surcharge: StyleSurcharges[style],
		Total:     price,
	}
	name := fmt.Sprintf("Fita %s (%s, %s)", material.Name, style, size)
	return cart.NewRibbonLine(name, quantity, detail), nil
}
