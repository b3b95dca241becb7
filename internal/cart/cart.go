package cart

import (
	"errors"
	"slices"
	"strings"
	"time"

	"cafeconnect/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalkInCustomer names the customer on receipts when the cashier leaves it blank.
const WalkInCustomer = "Walk-in Customer"

// TaxRate is the fixed sales tax applied at the cashier.
var TaxRate = decimal.NewFromFloat(0.10)

var (
	// ErrEmptyCart is returned when checking out a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when no cart session exists for an id.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when changing a line the cart does not hold.
	ErrItemNotFound = errors.New("item not in cart")
)

// Product is what the cashier adds to a cart.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Category string
}

// Item is one line of a cart.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart accumulates items at the cashier. Items keep the order in which they were
// first added.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns an empty cart with a fresh id.
func New() *Cart {
	now := models.Now()
	return &Cart{
		ID:        uuid.New().String(),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem increments the quantity of p if the cart already holds it, otherwise
// appends it with quantity 1.
func (c *Cart) AddItem(p Product) {
	defer c.touch()
	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, Item{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Quantity: 1,
	})
}

// SetQuantity sets the quantity of item id, removing it when n <= 0. It reports
// whether the cart held the item.
func (c *Cart) SetQuantity(id string, n int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	defer c.touch()
	if n <= 0 {
		c.Items = slices.Delete(c.Items, i, i+1)
		return true
	}
	c.Items[i].Quantity = n
	return true
}

// RemoveItem drops item id if present.
func (c *Cart) RemoveItem(id string) {
	c.Items = slices.DeleteFunc(c.Items, func(it Item) bool { return it.ID == id })
	c.touch()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.touch()
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals computes subtotal = Σ(price × quantity), tax = subtotal × TaxRate and
// total = subtotal + tax.
func (c *Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    subtotal.Add(tax).InexactFloat64(),
	}
}

// Receipt is the record produced by a checkout.
type Receipt struct {
	Customer      string               `json:"customer"`
	Items         []Item               `json:"items"`
	Subtotal      float64              `json:"subtotal"`
	Tax           float64              `json:"tax"`
	Total         float64              `json:"total"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Checkout turns the cart into a receipt and clears it. An empty cart is rejected
// with ErrEmptyCart and left untouched.
func (c *Cart) Checkout(customer string, method models.PaymentMethod) (*Receipt, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	customer = strings.TrimSpace(customer)
	if customer == "" {
		customer = WalkInCustomer
	}
	if method == "" {
		method = models.PaymentCash
	}
	totals := c.Totals()
	receipt := &Receipt{
		Customer:      customer,
		Items:         slices.Clone(c.Items),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: method,
		Timestamp:     models.Now(),
	}
	c.Clear()
	return receipt, nil
}

// OrderItems converts cart lines to order lines.
func OrderItems(items []Item) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    models.Float(it.Price),
		})
	}
	return out
}

func (c *Cart) index(id string) int {
	return slices.IndexFunc(c.Items, func(it Item) bool { return it.ID == id })
}

func (c *Cart) touch() {
	c.UpdatedAt = models.Now()
}
