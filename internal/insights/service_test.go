package insights

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/order"
)

var testNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

// --- Mock implementations ---

type mockOrderRepo struct {
	orders  []order.Order
	listErr error
}

func (m *mockOrderRepo) Create(context.Context, *order.Order) error { return nil }
func (m *mockOrderRepo) List(context.Context) ([]order.Order, error) {
	return m.orders, nil
}
func (m *mockOrderRepo) ListByStatus(context.Context, order.Status) ([]order.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListSince(_ context.Context, since time.Time) ([]order.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []order.Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}
func (m *mockOrderRepo) GetByID(context.Context, string) (*order.Order, error) { return nil, nil }
func (m *mockOrderRepo) UpdateStatus(context.Context, string, order.Status, *time.Time) error {
	return nil
}
func (m *mockOrderRepo) Delete(context.Context, string) error        { return nil }
func (m *mockOrderRepo) NextSequence(context.Context) (int64, error) { return 0, nil }

type mockInventoryRepo struct {
	items []inventory.Item
}

func (m *mockInventoryRepo) List(context.Context) ([]inventory.Item, error) { return m.items, nil }
func (m *mockInventoryRepo) GetByID(context.Context, string) (*inventory.Item, error) {
	return nil, inventory.ErrNotFound
}
func (m *mockInventoryRepo) GetBySKU(context.Context, string) (*inventory.Item, error) {
	return nil, inventory.ErrNotFound
}
func (m *mockInventoryRepo) Create(context.Context, *inventory.Item) error { return nil }
func (m *mockInventoryRepo) Update(context.Context, string, inventory.Update) (*inventory.Item, error) {
	return nil, inventory.ErrNotFound
}
func (m *mockInventoryRepo) Delete(context.Context, string) error { return nil }
func (m *mockInventoryRepo) ListBatches(context.Context) ([]inventory.Batch, error) {
	return nil, nil
}

type mockCompleter struct {
	gotPrompt string
	text      string
	err       error
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.gotPrompt = prompt
	return m.text, m.err
}

// --- Helpers ---

func newTestService(orders *mockOrderRepo, inv *mockInventoryRepo, gw Completer) *Service {
	svc := NewService(orders, inventory.NewService(inv), gw)
	svc.now = func() time.Time { return testNow }
	return svc
}

func recentOrder(daysAgo int, total int64, status order.Status) order.Order {
	return order.Order{
		Total:     decimal.NewFromInt(total),
		Status:    status,
		CreatedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

// --- Tests ---

func TestGenerate(t *testing.T) {
	orders := &mockOrderRepo{orders: []order.Order{
		recentOrder(0, 900, order.StatusCompleted),
		recentOrder(2, 650, order.StatusCompleted),
		recentOrder(5, 450, order.StatusPending),
		recentOrder(10, 9999, order.StatusCompleted),
	}}
	inv := &mockInventoryRepo{items: []inventory.Item{
		{Name: "Beef Shank", Quantity: 10, ReorderLevel: 15, Unit: "kg"},
		{Name: "Basmati Rice", Quantity: 120, ReorderLevel: 30, Unit: "kg"},
	}}
	gw := &mockCompleter{text: "Stock up on beef before the weekend."}

	out, err := newTestService(orders, inv, gw).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Stock up on beef before the weekend.", out.Text)
	// The order outside the 7-day window is excluded from the summary.
	assert.True(t, out.Summary.TotalSales.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 3, out.Summary.TotalOrders)
	assert.Equal(t, 1, out.Summary.LowStockCount)

	assert.Contains(t, gw.gotPrompt, "Total Orders: 3")
	assert.Contains(t, gw.gotPrompt, "Completed Orders: 2")
	assert.Contains(t, gw.gotPrompt, "Total Revenue: Rs 2000.00")
	assert.Contains(t, gw.gotPrompt, "Today's Orders: 1")
	assert.Contains(t, gw.gotPrompt, "Beef Shank: 10 kg (reorder at 15)")
	assert.NotContains(t, gw.gotPrompt, "Basmati Rice")
}

func TestGenerate_OrderFetchFails(t *testing.T) {
	orders := &mockOrderRepo{listErr: errors.New("db down")}
	svc := newTestService(orders, &mockInventoryRepo{}, &mockCompleter{})

	_, err := svc.Generate(context.Background())
	require.ErrorContains(t, err, "fetch recent orders")
}

func TestGenerate_GatewayFails(t *testing.T) {
	gw := &mockCompleter{err: errors.New("gateway timeout")}
	svc := newTestService(&mockOrderRepo{}, &mockInventoryRepo{}, gw)

	_, err := svc.Generate(context.Background())
	require.ErrorContains(t, err, "generate insights")
}

func TestGenerate_Disabled(t *testing.T) {
	svc := newTestService(&mockOrderRepo{}, &mockInventoryRepo{}, Disabled{})

	_, err := svc.Generate(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
