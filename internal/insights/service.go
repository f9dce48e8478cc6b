package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/order"
)

// window is how far back the business context reaches.
const window = 7 * 24 * time.Hour

// Summary carries the structured numbers alongside the free-text insights.
type Summary struct {
	TotalSales    decimal.Decimal
	TotalOrders   int
	LowStockCount int
}

// Insights is the gateway's recommendations plus the metrics they were
// derived from.
type Insights struct {
	Text    string
	Summary Summary
}

// ErrUnavailable is returned when no AI gateway endpoint is configured.
var ErrUnavailable = errors.New("AI gateway is not configured")

// Completer produces a free-text completion for a prompt. Satisfied by
// *Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Disabled is a Completer for deployments without an AI gateway. Every call
// fails with ErrUnavailable.
type Disabled struct{}

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Service assembles the last week's business data and requests insights.
type Service struct {
	orders    order.Repository
	inventory *inventory.Service
	gateway   Completer
	now       func() time.Time
}

// NewService creates an insights Service.
func NewService(orders order.Repository, inv *inventory.Service, gateway Completer) *Service {
	return &Service{
		orders:    orders,
		inventory: inv,
		gateway:   gateway,
		now:       time.Now,
	}
}

// Generate fetches recent orders and low-stock items concurrently, renders
// the business context, and returns the gateway's recommendations verbatim
// along with the structured summary.
func (s *Service) Generate(ctx context.Context) (*Insights, error) {
	var (
		recent   []order.Order
		lowStock []inventory.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if recent, err = s.orders.ListSince(gctx, s.now().Add(-window)); err != nil {
			return errors.Wrap(err, "fetch recent orders")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lowStock, err = s.inventory.LowStock(gctx); err != nil {
			return errors.Wrap(err, "fetch low stock items")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(recent, lowStock, s.now())

	text, err := s.gateway.Complete(ctx, buildPrompt(recent, lowStock, summary, s.now()))
	if err != nil {
		return nil, errors.Wrap(err, "generate insights")
	}

	return &Insights{Text: text, Summary: summary}, nil
}

func summarize(orders []order.Order, lowStock []inventory.Item, _ time.Time) Summary {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return Summary{
		TotalSales:    total,
		TotalOrders:   len(orders),
		LowStockCount: len(lowStock),
	}
}

// buildPrompt renders the business context the gateway analyses.
func buildPrompt(orders []order.Order, lowStock []inventory.Item, sum Summary, now time.Time) string {
	today := now.Truncate(24 * time.Hour)
	var (
		todayOrders    int
		completedCount int
	)
	for _, o := range orders {
		if o.CreatedAt.Truncate(24 * time.Hour).Equal(today) {
			todayOrders++
		}
		if o.Status == order.StatusCompleted {
			completedCount++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Business Performance (Last 7 Days):\n")
	fmt.Fprintf(&b, "- Total Orders: %d\n", sum.TotalOrders)
	fmt.Fprintf(&b, "- Completed Orders: %d\n", completedCount)
	fmt.Fprintf(&b, "- Total Revenue: Rs %s\n", sum.TotalSales.StringFixed(2))
	fmt.Fprintf(&b, "- Today's Orders: %d\n", todayOrders)
	fmt.Fprintf(&b, "- Low Stock Items: %d\n\n", sum.LowStockCount)

	b.WriteString("Low Stock Alert:\n")
	for _, item := range lowStock {
		fmt.Fprintf(&b, "- %s: %d %s (reorder at %d)\n", item.Name, item.Quantity, item.Unit, item.ReorderLevel)
	}

	b.WriteString("\nProvide 3-5 actionable business insights and recommendations based on this data.\n")
	return b.String()
}
