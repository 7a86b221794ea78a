package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"slices"
)

const MinQuantity = 1

// LineKey identifies a cart line: the same product with a different variant
// selection is a different line.
type LineKey struct {
	ProductID string
	Variants  string
}

func NewLineKey(productID string, variants Variants) LineKey {
	return LineKey{ProductID: productID, Variants: variants.Key()}
}

type CartLine struct {
	Product          Product  `json:"product"`
	Quantity         int      `json:"quantity"`
	SelectedVariants Variants `json:"selected_variants,omitempty"`
}

func (l CartLine) Key() LineKey {
	return NewLineKey(l.Product.ID, l.SelectedVariants)
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered list of lines a shopper intends to buy.
// Insertion order is preserved and visible to the shopper.
type Cart struct {
	Key      string
	Currency currency.Unit
	Lines    []CartLine
}

func NewCart(key string, cur currency.Unit) Cart {
	return Cart{Key: key, Currency: cur}
}

// Add merges quantity into the line with the same identity or appends a new line.
// It reports whether an existing line was merged.
func (c *Cart) Add(product Product, quantity int, variants Variants) bool {
	key := NewLineKey(product.ID, variants)

	if i := c.indexOf(key); i >= 0 {
		c.Lines[i].Quantity += quantity
		return true
	}

	c.Lines = append(c.Lines, CartLine{
		Product:          product,
		Quantity:         quantity,
		SelectedVariants: variants.Clone(),
	})

	return false
}

// UpdateQuantity overwrites the quantity of an existing line.
// It reports false and changes nothing when the line is absent.
func (c *Cart) UpdateQuantity(productID string, variants Variants, quantity int) bool {
	i := c.indexOf(NewLineKey(productID, variants))
	if i < 0 {
		return false
	}

	c.Lines[i].Quantity = quantity
	return true
}

func (c *Cart) Remove(productID string, variants Variants) bool {
	i := c.indexOf(NewLineKey(productID, variants))
	if i < 0 {
		return false
	}

	c.Lines = slices.Delete(c.Lines, i, i+1)
	return true
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) Contains(productID string, variants Variants) bool {
	return c.indexOf(NewLineKey(productID, variants)) >= 0
}

func (c Cart) Len() int {
	return len(c.Lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is recomputed from the lines on every call.
func (c Cart) Total() Money {
	return Money{Amount: LinesTotal(c.Lines), Currency: c.Currency}
}

// Clone returns a deep copy so callers cannot mutate the cart through shared slices or maps.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = CloneLines(c.Lines)
	return out
}

func (c Cart) indexOf(key LineKey) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool {
		return l.Key() == key
	})
}

func LinesTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}

	out := make([]CartLine, len(lines))
	for i, l := range lines {
		l.SelectedVariants = l.SelectedVariants.Clone()
		out[i] = l
	}
	return out
}

// NormalizeQuantity applies the quantity floor: a line never holds fewer than MinQuantity units.
func NormalizeQuantity(quantity int) int {
	if quantity < MinQuantity {
		return MinQuantity
	}
	return quantity
}
