package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrbebidas/catalog-backend/internal/pricing"
)

// Line is a single product entry in a session cart. Price keeps the raw
// operator text captured at add time.
type Line struct {
	ProductID uuid.UUID
	Name      string
	Price     string
	Quantity  int
}

// Cart holds the lines for one storefront session.
type Cart struct {
	Token     string
	Lines     []Line
	UpdatedAt time.Time
}

// add appends the product or bumps its quantity when already present.
// Products without a usable price are ignored.
func (c *Cart) add(productID uuid.UUID, name, price string) bool {
	if !pricing.IsValid(price) {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity++
			return true
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  1,
	})
	return true
}

// adjustQuantity applies a signed delta, clamping at zero. A line that
// reaches zero is removed.
func (c *Cart) adjustQuantity(productID uuid.UUID, delta int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		next := c.Lines[i].Quantity + delta
		if next <= 0 {
			c.remove(productID)
			return
		}
		c.Lines[i].Quantity = next
		return
	}
}

// remove drops the product's line entirely.
func (c *Cart) remove(productID uuid.UUID) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// clone returns a copy with its own line slice.
func (c *Cart) clone() *Cart {
	dup := *c
	dup.Lines = append([]Line(nil), c.Lines...)
	return &dup
}

// Total sums price times quantity over all lines. Lines whose stored price
// no longer parses contribute zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		amount, ok := pricing.Parse(line.Price)
		if !ok {
			continue
		}
		total = total.Add(amount.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount returns the summed quantity across lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
