// internal/services/cart.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/techstore-backend/internal/models"
)

// CartLine is one unit of a product. UnitPrice is the source price read when
// the line was added and is never re-synced with the catalog.
type CartLine struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	UnitPrice float64 `json:"unit_price"`
}

func (l CartLine) DisplayPrice(multiplier decimal.Decimal) decimal.Decimal {
	return DisplayPrice(l.UnitPrice, multiplier)
}

// CartSnapshot is the cart content captured when a checkout starts.
type CartSnapshot struct {
	Lines []CartLine
	Total decimal.Decimal
}

func (s CartSnapshot) Items() int {
	return len(s.Lines)
}

func (s CartSnapshot) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s.Lines))
	for _, l := range s.Lines {
		ids = append(ids, int64(l.ProductID))
	}
	return ids
}

// Cart is an ordered list of lines; the same product may appear many times.
// It is not safe for concurrent use; the owning Storefront serialises access.
type Cart struct {
	lines      []CartLine
	multiplier decimal.Decimal
}

func NewCart(multiplier decimal.Decimal) *Cart {
	return &Cart{multiplier: multiplier}
}

// Add appends a line and returns the new line count.
func (c *Cart) Add(p models.Product) int {
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
		UnitPrice: p.Price,
	})
	return len(c.lines)
}

// RemoveAt removes the line at index. Out of range indexes are ignored.
func (c *Cart) RemoveAt(index int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines = append(c.lines[:index:index], c.lines[index+1:]...)
	return true
}

// Total is recomputed on every call and is not rounded.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.DisplayPrice(c.multiplier))
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

func (c *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{Lines: c.Lines(), Total: c.Total()}
}

func (c *Cart) Clear() {
	c.lines = nil
}
