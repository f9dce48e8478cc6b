package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zaiqapos/pos-api/internal/domain/cart"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyCart       = fmt.Errorf("cart is empty")
	ErrMissingCustomer = fmt.Errorf("customer information is required")
	ErrInvalidPayment  = fmt.Errorf("unknown payment method")
)

// NotFoundError indicates an operation on an order that does not exist.
type NotFoundError struct {
	OrderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

// InvalidTransitionError indicates a status change the lifecycle does not
// permit.
type InvalidTransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

// NotTerminalError indicates an attempt to delete an order that is still in
// progress.
type NotTerminalError struct {
	OrderID string
	Status  Status
}

func (e *NotTerminalError) Error() string {
	return fmt.Sprintf("order %s is still %s and cannot be deleted", e.OrderID, e.Status)
}

// Service encapsulates checkout and lifecycle business logic.
type Service struct {
	orders Repository
	now    func() time.Time
	newID  func() string
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{
		orders: orders,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Checkout snapshots the cart into a new pending order and persists it. The
// cart is cleared only after the order has been stored, so a failed write
// leaves the cart intact for retry.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, payment PaymentMethod, notes string) (*Order, error) {
	snap := c.Snapshot()
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if snap.Customer == nil {
		return nil, ErrMissingCustomer
	}
	if !payment.Valid() {
		return nil, ErrInvalidPayment
	}

	seq, err := s.orders.NextSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("next order sequence: %w", err)
	}

	orderLines := make([]Line, len(snap.Lines))
	for i, l := range snap.Lines {
		orderLines[i] = Line{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Note:      l.Note,
		}
	}

	o := &Order{
		ID:            s.newID(),
		Number:        fmt.Sprintf("ORD-%04d", seq),
		CustomerName:  snap.Customer.Name,
		CustomerPhone: snap.Customer.Phone,
		TableNumber:   snap.Customer.TableNumber,
		Lines:         orderLines,
		Subtotal:      snap.Subtotal,
		TaxAmount:     snap.Tax,
		Total:         snap.Total,
		PaymentMethod: payment,
		Status:        StatusPending,
		Notes:         notes,
		CreatedAt:     s.now(),
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	c.Clear()
	return o, nil
}

// UpdateStatus advances an order through the lifecycle. Illegal transitions,
// including any transition out of a terminal status, are rejected. The
// updated order is re-read from the repository so concurrent writers are
// reflected in the response.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to Status) (*Order, error) {
	if !to.Valid() {
		return nil, &InvalidTransitionError{OrderID: orderID, To: to}
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, &InvalidTransitionError{OrderID: orderID, From: o.Status, To: to}
	}

	var completedAt *time.Time
	if to == StatusCompleted {
		t := s.now()
		completedAt = &t
	}

	if err := s.orders.UpdateStatus(ctx, orderID, to, completedAt); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return s.orders.GetByID(ctx, orderID)
}

// Cancel moves an order to cancelled from any non-terminal status.
func (s *Service) Cancel(ctx context.Context, orderID string) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// Delete removes an order. Only terminal orders may be deleted.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Status.Terminal() {
		return &NotTerminalError{OrderID: orderID, Status: o.Status}
	}
	return s.orders.Delete(ctx, orderID)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// ByStatus returns all orders in the given status.
func (s *Service) ByStatus(ctx context.Context, status Status) ([]Order, error) {
	return s.orders.ListByStatus(ctx, status)
}

// ByID returns a single order.
func (s *Service) ByID(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}
