// Package menu defines the catalog of sellable items: their prices,
// categories and availability, plus the repository contract for storing them.
package menu

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item represents a dish or drink available for sale.
type Item struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Category    string
	Available   bool
	ImageURL    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Update holds the fields of an Item that may be changed after creation.
// Nil pointers leave the corresponding field untouched.
type Update struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Available   *bool
	ImageURL    *string
	Description *string
}

// Repository defines persistence operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, id string, upd Update) (*Item, error)
	Delete(ctx context.Context, id string) error
}
