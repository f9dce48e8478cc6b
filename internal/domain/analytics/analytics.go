// Package analytics computes dashboard metrics from the order history.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaiqapos/pos-api/internal/domain/order"
)

// TopItem is a menu item ranked by units sold.
type TopItem struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// DayRevenue is one day of the trailing revenue series.
type DayRevenue struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int
}

// Summary holds the headline numbers for the dashboard.
type Summary struct {
	TodaySales      decimal.Decimal
	TodayOrders     int
	CompletedOrders int
	SalesTrend      float64
	OrdersTrend     float64
	LowStockCount   int
	TopItems        []TopItem
	WeekRevenue     []DayRevenue
}

// Compute derives the dashboard summary from recent orders. Trends compare
// today against yesterday as a percentage change and are zero when yesterday
// had no activity.
func Compute(orders []order.Order, lowStockCount int, now time.Time) Summary {
	today := now.Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	var (
		todaySales     = decimal.Zero
		yesterdaySales = decimal.Zero
		todayCount     int
		yesterdayCount int
		completedCount int
	)
	for _, o := range orders {
		day := o.CreatedAt.Truncate(24 * time.Hour)
		switch {
		case day.Equal(today):
			todaySales = todaySales.Add(o.Total)
			todayCount++
		case day.Equal(yesterday):
			yesterdaySales = yesterdaySales.Add(o.Total)
			yesterdayCount++
		}
		if o.Status == order.StatusCompleted {
			completedCount++
		}
	}

	salesTrend := 0.0
	if yesterdaySales.IsPositive() {
		salesTrend = todaySales.Sub(yesterdaySales).Div(yesterdaySales).InexactFloat64() * 100
	}
	ordersTrend := 0.0
	if yesterdayCount > 0 {
		ordersTrend = float64(todayCount-yesterdayCount) / float64(yesterdayCount) * 100
	}

	return Summary{
		TodaySales:      todaySales,
		TodayOrders:     todayCount,
		CompletedOrders: completedCount,
		SalesTrend:      salesTrend,
		OrdersTrend:     ordersTrend,
		LowStockCount:   lowStockCount,
		TopItems:        topItems(orders, 5),
		WeekRevenue:     weekRevenue(orders, today),
	}
}

// topItems ranks items by units sold across the given orders.
func topItems(orders []order.Order, limit int) []TopItem {
	type agg struct {
		quantity int
		revenue  decimal.Decimal
	}
	byName := make(map[string]*agg)
	names := make([]string, 0)
	for _, o := range orders {
		for _, line := range o.Lines {
			a, ok := byName[line.Name]
			if !ok {
				a = &agg{revenue: decimal.Zero}
				byName[line.Name] = a
				names = append(names, line.Name)
			}
			a.quantity += line.Quantity
			a.revenue = a.revenue.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}

	items := make([]TopItem, 0, len(names))
	for _, name := range names {
		a := byName[name]
		items = append(items, TopItem{Name: name, Quantity: a.quantity, Revenue: a.revenue})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Quantity > items[j].Quantity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// weekRevenue buckets the trailing 7 days of revenue, oldest first.
func weekRevenue(orders []order.Order, today time.Time) []DayRevenue {
	days := make([]DayRevenue, 7)
	start := today.AddDate(0, 0, -6)
	for i := range days {
		days[i] = DayRevenue{Date: start.AddDate(0, 0, i), Revenue: decimal.Zero}
	}
	for _, o := range orders {
		day := o.CreatedAt.Truncate(24 * time.Hour)
		idx := int(day.Sub(start).Hours() / 24)
		if idx < 0 || idx >= len(days) {
			continue
		}
		days[idx].Revenue = days[idx].Revenue.Add(o.Total)
		days[idx].Orders++
	}
	return days
}
