package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CartItem struct {
	DishID   int
	Name     string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Discount struct {
	Code       string
	Percentage int
}

type OrderLine struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// Cart keeps at most one entry per dish and never an entry with quantity
// below one. Entries keep insertion order.
type Cart struct {
	items    []CartItem
	discount Discount
}

// NewCart builds a cart from stored rows, merging duplicates and dropping
// non-positive quantities.
func NewCart(items []CartItem, d Discount) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		c.Add(it, it.Quantity)
	}
	c.SetDiscount(d.Code, d.Percentage)
	return c
}

func (c *Cart) index(dishID int) int {
	return slices.IndexFunc(c.items, func(it CartItem) bool { return it.DishID == dishID })
}

// Add increments the quantity of an existing entry or inserts a new one.
// Quantities below one count as one.
func (c *Cart) Add(item CartItem, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(item.DishID); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	item.Quantity = qty
	c.items = append(c.items, item)
}

// Remove decrements the entry for dishID, deleting it when its quantity was
// one. It returns the remaining quantity and whether the dish was in the cart.
func (c *Cart) Remove(dishID int) (int, bool) {
	i := c.index(dishID)
	if i < 0 {
		return 0, false
	}
	if c.items[i].Quantity > 1 {
		c.items[i].Quantity--
		return c.items[i].Quantity, true
	}
	c.items = slices.Delete(c.items, i, i+1)
	return 0, true
}

func (c *Cart) Items() []CartItem {
	return slices.Clone(c.items)
}

func (c *Cart) Get(dishID int) (CartItem, bool) {
	if i := c.index(dishID); i >= 0 {
		return c.items[i], true
	}
	return CartItem{}, false
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Discount() Discount {
	return c.discount
}

// SetDiscount stores the percentage clamped to 0..100.
func (c *Cart) SetDiscount(code string, pct int) {
	c.discount = Discount{Code: code, Percentage: min(max(pct, 0), 100)}
}

func (c *Cart) Clear() {
	c.items = nil
	c.discount = Discount{}
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (c *Cart) DiscountedTotal() decimal.Decimal {
	total := c.Total()
	if c.discount.Percentage == 0 {
		return total
	}
	keep := hundred.Sub(decimal.NewFromInt(int64(c.discount.Percentage)))
	return total.Mul(keep).Div(hundred)
}

func (c *Cart) Lines() []OrderLine {
	out := make([]OrderLine, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, OrderLine{ID: it.DishID, Quantity: it.Quantity})
	}
	return out
}
