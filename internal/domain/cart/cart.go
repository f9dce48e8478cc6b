// Package cart implements the in-progress order selection for a single
// point-of-sale session: line items with quantities and notes, an attached
// customer, and total computation.
package cart

import (
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zaiqapos/pos-api/internal/domain/menu"
)

// Sentinel errors for cart validation.
var (
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrMissingCustomer  = errors.New("customer information is required")
	ErrCustomerName     = errors.New("customer name must not be empty")
)

// ItemUnavailableError indicates an attempt to add a menu item that is
// currently marked unavailable.
type ItemUnavailableError struct {
	ItemID string
	Name   string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("%s is currently unavailable", e.Name)
}

// LineNotFoundError indicates an operation on a line that is not in the cart.
type LineNotFoundError struct {
	ItemID string
}

func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("item %s is not in the cart", e.ItemID)
}

// Line is a single cart entry. Name and UnitPrice are copied from the menu
// item at add time so later menu edits do not change an in-progress cart.
type Line struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Note      string
}

// Customer identifies who the in-progress order is for.
type Customer struct {
	Name        string
	Phone       string
	TableNumber string
}

// Cart holds the selection for one session. All methods are safe for
// concurrent use.
type Cart struct {
	mu       sync.Mutex
	lines    []Line
	customer *Customer
	taxRate  decimal.Decimal
}

// New creates an empty cart. taxRate is a fraction (0.16 for 16% tax); the
// zero value applies no tax.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

// AddLine adds one unit of the given menu item. If a line for the item already
// exists its quantity is incremented. Unavailable items are rejected.
func (c *Cart) AddLine(item *menu.Item) error {
	if !item.Available {
		return &ItemUnavailableError{ItemID: item.ID, Name: item.Name}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	})
	return nil
}

// RemoveLine removes the line for itemID entirely, regardless of quantity.
func (c *Cart) RemoveLine(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(itemID)
}

func (c *Cart) removeLocked(itemID string) error {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return &LineNotFoundError{ItemID: itemID}
}

// SetQuantity replaces the quantity of the line for itemID. A quantity of
// zero removes the line; negative quantities are rejected.
func (c *Cart) SetQuantity(itemID string, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity == 0 {
		return c.removeLocked(itemID)
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return &LineNotFoundError{ItemID: itemID}
}

// SetLineNote attaches free-text instructions to a line ("no onions").
func (c *Cart) SetLineNote(itemID, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Note = note
			return nil
		}
	}
	return &LineNotFoundError{ItemID: itemID}
}

// AttachCustomer records who the order is for. The name is required.
func (c *Cart) AttachCustomer(cust Customer) error {
	if cust.Name == "" {
		return ErrCustomerName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = &cust
	return nil
}

// Customer returns the attached customer, or nil when none is set.
func (c *Cart) Customer() *Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.customer == nil {
		return nil
	}
	cust := *c.customer
	return &cust
}

// Clear empties all lines and detaches the customer.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.customer = nil
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal is the sum of unit price times quantity over all lines. It is
// recomputed on every call so price edits are never served stale.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax is the configured tax fraction applied to the subtotal.
func (c *Cart) Tax() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked().Mul(c.taxRate).Round(2)
}

// Snapshot is a point-in-time view of the cart taken under one lock, so the
// lines and totals are guaranteed to be mutually consistent.
type Snapshot struct {
	Lines    []Line
	Customer *Customer
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Snapshot captures the lines, customer and totals atomically. Callers that
// need the totals to match the lines (checkout) use this instead of separate
// accessor calls.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	var cust *Customer
	if c.customer != nil {
		cp := *c.customer
		cust = &cp
	}

	sub := c.subtotalLocked()
	tax := sub.Mul(c.taxRate).Round(2)
	return Snapshot{
		Lines:    lines,
		Customer: cust,
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(sub.Mul(c.taxRate)).Round(2),
	}
}

// Total is subtotal plus tax, rounded to 2 decimal places.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := c.subtotalLocked()
	return sub.Add(sub.Mul(c.taxRate)).Round(2)
}

// Count is the sum of quantities over all lines, for badge display.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
