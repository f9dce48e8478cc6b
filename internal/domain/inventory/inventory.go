// Package inventory implements stock tracking: CRUD over inventory items,
// low-stock detection, and expiry batches.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested inventory item does not exist.
var ErrNotFound = errors.New("inventory item not found")

// ErrNegativeQuantity is returned when an operation would set a quantity
// below zero.
var ErrNegativeQuantity = errors.New("quantity must not be negative")

// DuplicateSKUError indicates the SKU is already taken by another item.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("an item with SKU %s already exists", e.SKU)
}

// Item is a stocked ingredient or supply.
type Item struct {
	ID           string
	Name         string
	Category     string
	SKU          string
	Quantity     int
	Unit         string
	ReorderLevel int
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Supplier     string
	Barcode      string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock reports whether the item has fallen to or below its reorder
// threshold.
func (i Item) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// Update holds the fields of an Item that may be changed after creation.
// Nil pointers leave the corresponding field untouched.
type Update struct {
	Name         *string
	Category     *string
	SKU          *string
	Quantity     *int
	Unit         *string
	ReorderLevel *int
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
	Supplier     *string
	Barcode      *string
	Description  *string
}

// Batch is a received lot of an inventory item, carrying its own quantity
// and optional expiry date.
type Batch struct {
	ID              string
	InventoryItemID string
	BatchNumber     string
	Quantity        int
	ExpiryDate      *time.Time
	ReceivedDate    time.Time
}

// Repository defines persistence operations for inventory.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	GetBySKU(ctx context.Context, sku string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, id string, upd Update) (*Item, error)
	Delete(ctx context.Context, id string) error
	ListBatches(ctx context.Context) ([]Batch, error)
}
