package kit

import (
	"github.com/dukerupert/festa/internal/domain"
	"github.com/shopspring/decimal"
)

// wrapperSlack is the extra length a flattened wrapper needs beyond the
// container perimeter for tying and overlap.
const wrapperSlack = 5

// Service fee tiers, by total item count.
var (
	feeSmall  = decimal.NewFromInt(5)
	feeMedium = decimal.NewFromInt(10)
	feeLarge  = decimal.NewFromInt(15)
)

// BasePerimeter returns (width + depth) × 2 for a container. A missing side
// is replaced by the default side of the container's capacity class.
func BasePerimeter(container *domain.Component) float64 {
	if container == nil {
		return 0
	}
	side := defaultSide(container.CapacityClass())

	width, depth := container.Dimensions.Width, container.Dimensions.Depth
	if width <= 0 {
		width = side
	}
	if depth <= 0 {
		depth = side
	}
	return (width + depth) * 2
}

// WrapperFits reports whether a wrapper is wide enough to close around the
// container. A wrapper without a declared width always fits.
func WrapperFits(wrapper, container *domain.Component) bool {
	if wrapper == nil || wrapper.Dimensions.Width <= 0 || container == nil {
		return true
	}
	return wrapper.Dimensions.Width*2 >= BasePerimeter(container)+wrapperSlack
}

// BoxCloses reports whether every item fits under the container's height.
// Containers without a declared height are open baskets and never block.
func BoxCloses(items []Item, container *domain.Component) bool {
	if len(items) == 0 || container == nil || container.Dimensions.Height <= 0 {
		return true
	}
	return container.Dimensions.Height >= tallest(items)
}

func tallest(items []Item) float64 {
	var highest float64
	for _, it := range items {
		if h := it.Component.Dimensions.Height; h > highest {
			highest = h
		}
	}
	return highest
}

// ServiceFee is the flat assembly fee for a kit holding itemCount items.
func ServiceFee(itemCount int) decimal.Decimal {
	switch {
	case itemCount <= 0:
		return decimal.Zero
	case itemCount <= 3:
		return feeSmall
	case itemCount <= 8:
		return feeMedium
	default:
		return feeLarge
	}
}
