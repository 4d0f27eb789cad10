package kit

import "github.com/dukerupert/festa/internal/domain"

// ClassSpec is the fixed budget of a capacity class.
type ClassSpec struct {
	// Slots is the maximum slot count a container of this class accepts.
	Slots int

	// DefaultSide substitutes a missing width or depth when computing the
	// container perimeter.
	DefaultSide float64
}

// CapacityClasses is the single source of truth for class budgets. The slot
// budget ignores the literal capacity printed on the container.
var CapacityClasses = map[domain.CapacityClass]ClassSpec{
	domain.CapacitySmall:  {Slots: 5, DefaultSide: 15},
	domain.CapacityMedium: {Slots: 10, DefaultSide: 20},
	domain.CapacityLarge:  {Slots: 15, DefaultSide: 25},
}

// fallbackSide is used for containers that declare no class at all.
const fallbackSide = 20

// MaxSlots returns the slot budget for class. ok is false for an unknown or
// empty class, which means no slot limit applies.
func MaxSlots(class domain.CapacityClass) (slots int, ok bool) {
	spec, ok := CapacityClasses[class]
	return spec.Slots, ok
}

func defaultSide(class domain.CapacityClass) float64 {
	if spec, ok := CapacityClasses[class]; ok {
		return spec.DefaultSide
	}
	return fallbackSide
}
