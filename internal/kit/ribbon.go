package kit

import (
	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/shopspring/decimal"
)

// RibbonKind tags the ribbon finish of a kit.
type RibbonKind string

const (
	RibbonNone     RibbonKind = "none"
	RibbonPullBow  RibbonKind = "pull_bow"
	RibbonStockBow RibbonKind = "stock_bow"
	RibbonCustom   RibbonKind = "custom"
)

// CustomRibbon is a bow assembled to order from ribbon materials.
type CustomRibbon struct {
	Style     string               `json:"style"`
	Primary   domain.Component     `json:"primary"`
	Secondary *domain.Component    `json:"secondary,omitempty"`
	Size      domain.CapacityClass `json:"size"`
	Meters    float64              `json:"meters"`
	Cost      decimal.Decimal      `json:"cost"`
}

// RibbonSelection is the ribbon decision for a kit. Accessory is set for the
// pre-made bows, Custom for a custom bow.
type RibbonSelection struct {
	Kind      RibbonKind        `json:"kind"`
	Accessory *domain.Component `json:"accessory,omitempty"`
	Custom    *CustomRibbon     `json:"custom,omitempty"`
}

// NoRibbon is the explicit decision to skip the ribbon.
func NoRibbon() RibbonSelection {
	return RibbonSelection{Kind: RibbonNone}
}

// PremadeBow selects a ready-made bow sold as an accessory.
func PremadeBow(kind RibbonKind, accessory *domain.Component) (RibbonSelection, error) {
	const op = "kit.premade_bow"
	if kind != RibbonPullBow && kind != RibbonStockBow {
		return RibbonSelection{}, reject(ErrInvalidSelection, op, "Unknown bow type")
	}
	if accessory == nil || accessory.Kind != domain.KindAccessory {
		return RibbonSelection{}, reject(ErrInvalidSelection, op, "Choose a bow from the accessories")
	}
	a := *accessory
	return RibbonSelection{Kind: kind, Accessory: &a}, nil
}

func (s *RibbonSelection) detail() cart.KitRibbon {
	out := cart.KitRibbon{Kind: string(s.Kind), Cost: decimal.Zero}
	if s.Accessory != nil {
		ref := cart.Ref(s.Accessory)
		out.Accessory = &ref
	}
	if s.Kind == RibbonCustom && s.Custom != nil {
		primary := cart.Ref(&s.Custom.Primary)
		out.Primary = &primary
		if s.Custom.Secondary != nil {
			secondary := cart.Ref(s.Custom.Secondary)
			out.Secondary = &secondary
		}
		out.Style = s.Custom.Style
		out.Size = string(s.Custom.Size)
		out.Meters = s.Custom.Meters
		out.Cost = s.Custom.Cost
	}
	return out
}
