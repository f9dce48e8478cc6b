// Package order implements the order lifecycle: checkout from a cart,
// status transitions, and queries over the order collection.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

// Order statuses. Orders advance linearly from pending to completed;
// cancelled is reachable from any non-terminal state.
const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions maps each status to the set of statuses it may advance to.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentMethod is how the customer paid.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentCash      PaymentMethod = "cash"
	PaymentJazzCash  PaymentMethod = "jazzcash"
	PaymentEasypaisa PaymentMethod = "easypaisa"
	PaymentRaast     PaymentMethod = "raast"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentJazzCash, PaymentEasypaisa, PaymentRaast:
		return true
	}
	return false
}

// Line is an immutable snapshot of a cart line taken at checkout time.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Note      string
}

// Order is a completed checkout tracked through the status lifecycle. Line
// items never change after creation; only the status (and completion time)
// do.
type Order struct {
	ID            string
	Number        string
	CustomerName  string
	CustomerPhone string
	TableNumber   string
	Lines         []Line
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Status        Status
	Notes         string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	ListSince(ctx context.Context, since time.Time) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, completedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	NextSequence(ctx context.Context) (int64, error)
}
