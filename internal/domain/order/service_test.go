package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaiqapos/pos-api/internal/domain/cart"
	"github.com/zaiqapos/pos-api/internal/domain/menu"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	orders    map[string]*Order
	seq       int64
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]Order, error) {
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) ListByStatus(_ context.Context, status Status) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListSince(_ context.Context, since time.Time) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, &NotFoundError{OrderID: id}
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status Status, completedAt *time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return &NotFoundError{OrderID: id}
	}
	o.Status = status
	if completedAt != nil {
		o.CompletedAt = completedAt
	}
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return &NotFoundError{OrderID: id}
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) NextSequence(_ context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

// --- Helpers ---

func newTestCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New(decimal.Zero)
	require.NoError(t, c.AddLine(&menu.Item{
		ID:        "m1",
		Name:      "Chicken Biryani",
		Price:     decimal.NewFromInt(450),
		Available: true,
	}))
	require.NoError(t, c.AddLine(&menu.Item{
		ID:        "m1",
		Name:      "Chicken Biryani",
		Price:     decimal.NewFromInt(450),
		Available: true,
	}))
	require.NoError(t, c.AttachCustomer(cart.Customer{Name: "Ahmed", TableNumber: "5"}))
	return c
}

func newTestService(repo *mockOrderRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "order-1" }
	return svc
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	svc := newTestService(newMockOrderRepo())
	c := cart.New(decimal.Zero)
	require.NoError(t, c.AttachCustomer(cart.Customer{Name: "Ahmed"}))

	_, err := svc.Checkout(context.Background(), c, PaymentCash, "")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_MissingCustomer(t *testing.T) {
	svc := newTestService(newMockOrderRepo())
	c := cart.New(decimal.Zero)
	require.NoError(t, c.AddLine(&menu.Item{ID: "m1", Name: "Samosa", Price: decimal.NewFromInt(50), Available: true}))

	_, err := svc.Checkout(context.Background(), c, PaymentCash, "")
	require.ErrorIs(t, err, ErrMissingCustomer)
}

func TestCheckout_InvalidPayment(t *testing.T) {
	svc := newTestService(newMockOrderRepo())

	_, err := svc.Checkout(context.Background(), newTestCart(t), "bitcoin", "")
	require.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCheckout_Success(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	c := newTestCart(t)

	o, err := svc.Checkout(context.Background(), c, PaymentJazzCash, "no cutlery")
	require.NoError(t, err)

	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, "ORD-0001", o.Number)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "Ahmed", o.CustomerName)
	assert.Equal(t, "5", o.TableNumber)
	assert.Equal(t, PaymentJazzCash, o.PaymentMethod)
	assert.Equal(t, "no cutlery", o.Notes)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(900)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(900)))
	assert.Nil(t, o.CompletedAt)

	// Cart is cleared only after the order is stored.
	assert.Empty(t, c.Lines())
	assert.Nil(t, c.Customer())
	require.NotNil(t, repo.orders["order-1"])
}

func TestCheckout_SequentialNumbers(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)
	ids := []string{"a", "b"}
	svc.newID = func() string { id := ids[0]; ids = ids[1:]; return id }

	o1, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)
	o2, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", o1.Number)
	assert.Equal(t, "ORD-0002", o2.Number)
}

func TestCheckout_CreateFailureKeepsCart(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createErr = context.DeadlineExceeded
	svc := newTestService(repo)
	c := newTestCart(t)

	_, err := svc.Checkout(context.Background(), c, PaymentCash, "")
	require.Error(t, err)

	// A failed write leaves the cart intact for retry.
	assert.Len(t, c.Lines(), 1)
	assert.NotNil(t, c.Customer())
}

func TestCheckout_SnapshotIndependence(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	c := newTestCart(t)

	o, err := svc.Checkout(context.Background(), c, PaymentCash, "")
	require.NoError(t, err)

	// Mutating the cart afterwards must not touch the stored order.
	require.NoError(t, c.AddLine(&menu.Item{ID: "m2", Name: "Kheer", Price: decimal.NewFromInt(120), Available: true}))
	stored, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	placed, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	for _, next := range []Status{StatusPreparing, StatusReady} {
		o, err := svc.UpdateStatus(context.Background(), placed.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, o.Status)
		assert.Nil(t, o.CompletedAt)
	}

	o, err := svc.UpdateStatus(context.Background(), placed.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	require.NotNil(t, o.CompletedAt)
	assert.Equal(t, svc.now(), *o.CompletedAt)
}

func TestUpdateStatus_SkippingStages(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	placed, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), placed.ID, StatusReady)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusPending, invalid.From)
	assert.Equal(t, StatusReady, invalid.To)
}

func TestUpdateStatus_OutOfTerminal(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	placed, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), placed.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), placed.ID, StatusPending)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := newTestService(newMockOrderRepo())

	_, err := svc.UpdateStatus(context.Background(), "any", "delivered")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := newTestService(newMockOrderRepo())

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusPreparing)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.OrderID)
}

func TestCancel(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	placed, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	o, err := svc.Cancel(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Nil(t, o.CompletedAt)
}

func TestDelete_RequiresTerminal(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	placed, err := svc.Checkout(context.Background(), newTestCart(t), PaymentCash, "")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), placed.ID)
	var notTerminal *NotTerminalError
	require.ErrorAs(t, err, &notTerminal)
	assert.Equal(t, StatusPending, notTerminal.Status)

	_, err = svc.Cancel(context.Background(), placed.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), placed.ID))

	_, err = svc.ByID(context.Background(), placed.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
