// Package balloon prices custom balloon packages.
package balloon

import (
	"fmt"
	"strings"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/shopspring/decimal"
)

// Arrangement is how the balloons are put together.
type Arrangement string

const (
	ArrangementLoose   Arrangement = "loose"
	ArrangementBouquet Arrangement = "bouquet"
	ArrangementGarland Arrangement = "garland"
)

// ArrangementFees is the flat labor charge per arrangement.
var ArrangementFees = map[Arrangement]decimal.Decimal{
	ArrangementLoose:   decimal.Zero,
	ArrangementBouquet: decimal.NewFromInt(10),
	ArrangementGarland: decimal.NewFromInt(25),
}

// HeliumFee is charged per balloon when helium is requested.
var HeliumFee = decimal.RequireFromString("1.50")

var (
	ErrNoBalloons         = &domain.Error{Code: domain.EINVALID, Message: "Choose at least one balloon"}
	ErrNotBalloon         = &domain.Error{Code: domain.EINVALID, Message: "Only balloons can go in a balloon package"}
	ErrUnknownArrangement = &domain.Error{Code: domain.EINVALID, Message: "Unknown balloon arrangement"}
)

// Choice is one balloon component and how many of it.
type Choice struct {
	Component *domain.Component
	Quantity  int
}

// Package is a balloon order before pricing.
type Package struct {
	Balloons    []Choice
	Helium      bool
	Arrangement Arrangement
}

// Quote is the price breakdown of a package.
type Quote struct {
	BalloonCount   int
	Balloons       decimal.Decimal
	HeliumFee      decimal.Decimal
	ArrangementFee decimal.Decimal
	Total          decimal.Decimal
}

// Price validates p and computes its price.
func Price(p Package) (Quote, error) {
	const op = "balloon.price"
	if len(p.Balloons) == 0 {
		return Quote{}, domain.WrapError(ErrNoBalloons, domain.EINVALID, op, ErrNoBalloons.Message)
	}
	arrangement := p.Arrangement
	if arrangement == "" {
		arrangement = ArrangementLoose
	}
	fee, ok := ArrangementFees[arrangement]
	if !ok {
		return Quote{}, domain.WrapError(ErrUnknownArrangement, domain.EINVALID, op, fmt.Sprintf("Unknown balloon arrangement %q", p.Arrangement))
	}

	q := Quote{Balloons: decimal.Zero, HeliumFee: decimal.Zero, ArrangementFee: fee}
	for _, ch := range p.Balloons {
		if ch.Component == nil || ch.Component.Kind != domain.KindBalloon {
			return Quote{}, domain.WrapError(ErrNotBalloon, domain.EINVALID, op, ErrNotBalloon.Message)
		}
		if ch.Quantity < 1 {
			return Quote{}, domain.WrapError(domain.ErrInvalidQuantity, domain.EINVALID, op, domain.ErrInvalidQuantity.Message)
		}
		q.BalloonCount += ch.Quantity
		q.Balloons = q.Balloons.Add(ch.Component.Price.Mul(decimal.NewFromInt(int64(ch.Quantity))))
	}
	if p.Helium {
		q.HeliumFee = HeliumFee.Mul(decimal.NewFromInt(int64(q.BalloonCount)))
	}
	q.Total = q.Balloons.Add(q.HeliumFee).Add(q.ArrangementFee)
	return q, nil
}

// Build prices p once and captures it as a balloon cart line.
func Build(p Package) (cart.Line, error) {
	q, err := Price(p)
	if err != nil {
		return cart.Line{}, err
	}

	arrangement := p.Arrangement
	if arrangement == "" {
		arrangement = ArrangementLoose
	}
	detail := cart.BalloonDetail{
		Balloons:       make([]cart.BalloonItem, 0, len(p.Balloons)),
		Helium:         p.Helium,
		Arrangement:    string(arrangement),
		HeliumFee:      q.HeliumFee,
		ArrangementFee: q.ArrangementFee,
		Total:          q.Total,
	}
	names := make([]string, 0, len(p.Balloons))
	for _, ch := range p.Balloons {
		detail.Balloons = append(detail.Balloons, cart.BalloonItem{Component: cart.Ref(ch.Component), Quantity: ch.Quantity})
		names = append(names, fmt.Sprintf("%dx %s", ch.Quantity, ch.Component.Name))
	}

	name := fmt.Sprintf("Balões (%s): %s", arrangement, strings.Join(names, ", "))
	return cart.NewBalloonLine(name, detail), nil
}
