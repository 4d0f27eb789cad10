// Package kit assembles custom gift kits: a container, the items packed in it,
// optional wrapping and filler, and a ribbon finish.
//
// A Builder owns one in-progress Composition and only changes it through
// validated operations. Every rejection leaves the composition untouched.
// Builders are not safe for concurrent use.
package kit

import (
	"fmt"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a component packed in the kit with its quantity (always ≥ 1).
type Item struct {
	Component domain.Component `json:"component"`
	Quantity  int              `json:"quantity"`
}

// Composition is the state of a kit being assembled.
type Composition struct {
	BaseContainer    *domain.Component    `json:"base_container,omitempty"`
	CapacityClass    domain.CapacityClass `json:"capacity_class,omitempty"`
	CurrentSlotCount int                  `json:"current_slot_count"`
	Items            []Item               `json:"items"`
	Wrapper          *domain.Component    `json:"wrapper,omitempty"`
	Filler           *domain.Component    `json:"filler,omitempty"`

	// Ribbon is nil until the shopper decides on a finish, including "none".
	Ribbon *RibbonSelection `json:"ribbon,omitempty"`
}

// Step is a stage of the kit wizard.
type Step int

const (
	StepContainer Step = iota + 1
	StepItems
	StepWrapping
	StepRibbon
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepContainer:
		return "container"
	case StepItems:
		return "items"
	case StepWrapping:
		return "wrapping"
	case StepRibbon:
		return "ribbon"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Builder holds one composition plus the wizard state layered on top of it.
type Builder struct {
	comp Composition

	step   Step
	style  string
	recipe uuid.NullUUID
}

// NewBuilder returns a builder with an empty composition at the first step.
func NewBuilder() *Builder {
	return &Builder{step: StepContainer}
}

// Composition returns a copy of the current composition.
func (b *Builder) Composition() Composition {
	c := b.comp
	c.Items = make([]Item, len(b.comp.Items))
	copy(c.Items, b.comp.Items)
	return c
}

// SetBaseContainer selects the container. The wrapper is always cleared so it
// is chosen again against the new geometry. Items already packed are kept even
// when they overflow a smaller class; see Overflow.
func (b *Builder) SetBaseContainer(c *domain.Component) error {
	const op = "kit.set_container"
	if c == nil || c.Kind != domain.KindContainer {
		return reject(ErrInvalidSelection, op, "Choose a container for the kit")
	}

	container := *c
	b.comp.BaseContainer = &container
	b.comp.CapacityClass = container.CapacityClass()
	b.comp.Wrapper = nil
	return nil
}

// SetWrapper selects or clears the wrapper. Fit is not checked here; offer
// choices through ValidWrappers.
func (b *Builder) SetWrapper(c *domain.Component) error {
	if c == nil {
		b.comp.Wrapper = nil
		return nil
	}
	if c.Kind != domain.KindWrapper {
		return reject(ErrInvalidSelection, "kit.set_wrapper", "That product is not a wrapper")
	}
	wrapper := *c
	b.comp.Wrapper = &wrapper
	return nil
}

// SetFiller selects or clears the filler.
func (b *Builder) SetFiller(c *domain.Component) error {
	if c == nil {
		b.comp.Filler = nil
		return nil
	}
	if c.Kind != domain.KindFiller {
		return reject(ErrInvalidSelection, "kit.set_filler", "That product is not a filler")
	}
	filler := *c
	b.comp.Filler = &filler
	return nil
}

// ValidWrappers returns the candidates that fit the current container, or all
// of them when no container is selected.
func (b *Builder) ValidWrappers(candidates []domain.Component) []domain.Component {
	if b.comp.BaseContainer == nil {
		return candidates
	}
	out := make([]domain.Component, 0, len(candidates))
	for i := range candidates {
		if WrapperFits(&candidates[i], b.comp.BaseContainer) {
			out = append(out, candidates[i])
		}
	}
	return out
}

// AddItem packs quantity units of c. The slot budget is checked first, then
// the container height. A component already packed has its quantity raised.
func (b *Builder) AddItem(c *domain.Component, quantity int) error {
	const op = "kit.add_item"
	if quantity < 1 {
		return reject(domain.ErrInvalidQuantity, op, domain.ErrInvalidQuantity.Message)
	}
	if c == nil || !c.Fillable() {
		return reject(ErrInvalidSelection, op, "That product cannot go inside a kit")
	}

	if limit, ok := MaxSlots(b.comp.CapacityClass); ok {
		need := c.ItemSize() * quantity
		if b.comp.CurrentSlotCount+need > limit {
			return reject(ErrCapacityExceeded, op, fmt.Sprintf(
				"Not enough room: %d of %d slots used and %s needs %d",
				b.comp.CurrentSlotCount, limit, c.Name, need))
		}
	}

	if b.comp.BaseContainer != nil && !BoxCloses([]Item{{Component: *c, Quantity: quantity}}, b.comp.BaseContainer) {
		return reject(ErrHeightExceeded, op, fmt.Sprintf(
			"%s is %g cm tall and the container closes at %g cm",
			c.Name, c.Dimensions.Height, b.comp.BaseContainer.Dimensions.Height))
	}

	if i := b.indexOf(c.ID); i >= 0 {
		b.comp.Items[i].Quantity += quantity
	} else {
		b.comp.Items = append(b.comp.Items, Item{Component: *c, Quantity: quantity})
	}
	b.recount()
	return nil
}

// UpdateItemQuantity sets the quantity of a packed item. Increases go through
// AddItem with the difference; zero or less removes the item; decreases are
// always accepted.
func (b *Builder) UpdateItemQuantity(componentID uuid.UUID, quantity int) error {
	i := b.indexOf(componentID)
	if i < 0 {
		return reject(ErrItemNotInKit, "kit.update_item", ErrItemNotInKit.Message)
	}

	current := b.comp.Items[i].Quantity
	switch {
	case quantity > current:
		c := b.comp.Items[i].Component
		return b.AddItem(&c, quantity-current)
	case quantity <= 0:
		b.comp.Items = append(b.comp.Items[:i], b.comp.Items[i+1:]...)
	default:
		b.comp.Items[i].Quantity = quantity
	}
	b.recount()
	return nil
}

// RemoveItem takes an item out of the kit.
func (b *Builder) RemoveItem(componentID uuid.UUID) error {
	return b.UpdateItemQuantity(componentID, 0)
}

// SetRibbon records the ribbon decision as given.
func (b *Builder) SetRibbon(sel RibbonSelection) {
	b.comp.Ribbon = &sel
}

// ItemCount is the total quantity of packed items.
func (b *Builder) ItemCount() int {
	n := 0
	for _, it := range b.comp.Items {
		n += it.Quantity
	}
	return n
}

// MaxSlots returns the slot budget of the selected class, or 0 when no limit applies.
func (b *Builder) MaxSlots() int {
	limit, _ := MaxSlots(b.comp.CapacityClass)
	return limit
}

// Overflow is how many slots the packed items exceed the budget by. It is only
// positive after switching to a smaller container; the items are not trimmed
// and further additions are refused until the shopper removes some.
func (b *Builder) Overflow() int {
	limit, ok := MaxSlots(b.comp.CapacityClass)
	if !ok || b.comp.CurrentSlotCount <= limit {
		return 0
	}
	return b.comp.CurrentSlotCount - limit
}

// ServiceFee is the assembly fee for the current item count.
func (b *Builder) ServiceFee() decimal.Decimal {
	return ServiceFee(b.ItemCount())
}

// Total prices the kit: container, wrapper, filler, items, service fee and
// the assembly cost of a custom ribbon.
func (b *Builder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range []*domain.Component{b.comp.BaseContainer, b.comp.Wrapper, b.comp.Filler} {
		if c != nil {
			total = total.Add(c.Price)
		}
	}
	for _, it := range b.comp.Items {
		total = total.Add(it.Component.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	total = total.Add(b.ServiceFee())
	if r := b.comp.Ribbon; r != nil && r.Kind == RibbonCustom && r.Custom != nil {
		total = total.Add(r.Custom.Cost)
	}
	return total
}

// Reset discards the composition and the wizard state.
func (b *Builder) Reset() {
	*b = Builder{step: StepContainer}
}

// Finalize turns the composition into a kit cart line. It requires a container
// and a ribbon decision. The builder is left as is.
func (b *Builder) Finalize() (cart.Line, error) {
	const op = "kit.finalize"
	if b.comp.BaseContainer == nil {
		return cart.Line{}, reject(ErrInvalidSelection, op, "Choose a container before finishing the kit")
	}
	if b.comp.Ribbon == nil {
		return cart.Line{}, reject(ErrInvalidSelection, op, "Choose a ribbon finish before finishing the kit")
	}

	detail := cart.KitDetail{
		Container:  cart.Ref(b.comp.BaseContainer),
		Items:      make([]cart.KitItem, 0, len(b.comp.Items)),
		Ribbon:     b.comp.Ribbon.detail(),
		Style:      b.style,
		ServiceFee: b.ServiceFee(),
		Total:      b.Total(),
	}
	if b.comp.Wrapper != nil {
		ref := cart.Ref(b.comp.Wrapper)
		detail.Wrapper = &ref
	}
	if b.comp.Filler != nil {
		ref := cart.Ref(b.comp.Filler)
		detail.Filler = &ref
	}
	for i := range b.comp.Items {
		detail.Items = append(detail.Items, cart.KitItem{
			Component: cart.Ref(&b.comp.Items[i].Component),
			Quantity:  b.comp.Items[i].Quantity,
		})
	}

	return cart.NewKitLine("Kit personalizado - "+b.comp.BaseContainer.Name, detail), nil
}

// --- Wizard state ---

// Step is the current wizard step.
func (b *Builder) Step() Step { return b.step }

// CanAdvance reports whether the fields step requires are populated.
func (b *Builder) CanAdvance(step Step) bool {
	switch step {
	case StepContainer:
		return b.comp.BaseContainer != nil
	case StepItems:
		return len(b.comp.Items) > 0
	case StepWrapping:
		return true
	case StepRibbon:
		return b.comp.Ribbon != nil
	case StepReview:
		return b.comp.BaseContainer != nil && b.comp.Ribbon != nil
	}
	return false
}

// Advance moves to the next step when the current one is satisfied.
func (b *Builder) Advance() error {
	if !b.CanAdvance(b.step) {
		return reject(ErrInvalidSelection, "kit.advance", fmt.Sprintf("Complete the %s step first", b.step))
	}
	if b.step < StepReview {
		b.step++
	}
	return nil
}

// Back returns to the previous step.
func (b *Builder) Back() {
	if b.step > StepContainer {
		b.step--
	}
}

// Style is the decorative theme picked for the kit.
func (b *Builder) Style() string { return b.style }

// SetStyle records the decorative theme.
func (b *Builder) SetStyle(style string) { b.style = style }

// TargetRecipe is the pre-assembled kit the builder was seeded from, if any.
func (b *Builder) TargetRecipe() uuid.NullUUID { return b.recipe }

// SetTargetRecipe records the recipe the shopper started from.
func (b *Builder) SetTargetRecipe(id uuid.UUID) {
	b.recipe = uuid.NullUUID{UUID: id, Valid: true}
}

func (b *Builder) indexOf(id uuid.UUID) int {
	for i := range b.comp.Items {
		if b.comp.Items[i].Component.ID == id {
			return i
		}
	}
	return -1
}

// recount derives the slot count from the full item list.
func (b *Builder) recount() {
	n := 0
	for _, it := range b.comp.Items {
		n += it.Component.ItemSize() * it.Quantity
	}
	b.comp.CurrentSlotCount = n
}

func reject(sentinel *domain.Error, op, message string) error {
	return domain.WrapError(sentinel, sentinel.Code, op, message)
}
