// Package cart aggregates finished purchasable lines and totals them.
//
// A Cart is owned by a single shopper session and is not safe for concurrent
// use; callers serialize access.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is an ordered list of lines.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from the output of MarshalJSON.
// Empty data yields an empty cart.
func Restore(data []byte) (*Cart, error) {
	c := New()
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Add appends a line. A plain product line for a component already in the
// cart is merged into the existing line's quantity; custom lines never merge.
// Returns the line as stored.
func (c *Cart) Add(line Line) (Line, error) {
	const op = "cart.add"
	if line.Quantity < 1 {
		return Line{}, domain.WrapError(domain.ErrInvalidQuantity, domain.EINVALID, op, domain.ErrInvalidQuantity.Message)
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}

	if line.Kind == LineProduct && line.Product != nil {
		for i := range c.lines {
			existing := &c.lines[i]
			if existing.Kind == LineProduct && existing.Product != nil && existing.Product.ID == line.Product.ID {
				existing.Quantity += line.Quantity
				return *existing, nil
			}
		}
	}

	c.lines = append(c.lines, line)
	return line, nil
}

// Remove deletes the line with the given id.
func (c *Cart) Remove(lineID uuid.UUID) error {
	i := c.index(lineID)
	if i < 0 {
		return domain.WrapError(domain.ErrCartLineNotFound, domain.ENOTFOUND, "cart.remove", domain.ErrCartLineNotFound.Message)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// SetQuantity changes a line's quantity. A quantity of zero or less removes it.
func (c *Cart) SetQuantity(lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.Remove(lineID)
	}
	i := c.index(lineID)
	if i < 0 {
		return domain.WrapError(domain.ErrCartLineNotFound, domain.ENOTFOUND, "cart.set_quantity", domain.ErrCartLineNotFound.Message)
	}
	c.lines[i].Quantity = quantity
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total sums every line's total. Custom line prices are taken as captured.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line with the given id.
func (c *Cart) Line(lineID uuid.UUID) (Line, bool) {
	i := c.index(lineID)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len is the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Count is the sum of line quantities.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) index(lineID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the line list.
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// UnmarshalJSON replaces the cart contents with a serialized line list.
// Lines with a payload that does not match their kind are rejected.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	for i, l := range lines {
		if !l.valid() {
			return fmt.Errorf("decode cart: line %d is malformed", i)
		}
	}
	c.lines = lines
	return nil
}
