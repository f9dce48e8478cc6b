package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
)

// Priority ranks how urgently a batch needs action before it expires.
type Priority string

// Waste priorities by days until expiry: 2 or fewer is high, 5 or fewer is
// medium, 10 or fewer is low. Batches further out are not reported.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// wasteWindow is the furthest-out expiry, in days, still worth reporting.
const wasteWindow = 10

// WasteItem is a batch at risk of expiring with a suggested action.
type WasteItem struct {
	ItemID          string
	Name            string
	BatchNumber     string
	Quantity        int
	ExpiryDate      time.Time
	DaysUntilExpiry int
	EstimatedValue  float64
	Recommendation  string
	Priority        Priority
}

// WasteSummary aggregates the at-risk batches.
type WasteSummary struct {
	Items       []WasteItem
	TotalValue  float64
	ItemsAtRisk int
}

// AnalyzeWaste scans inventory batches for upcoming expiries and recommends
// markdowns to recover value before spoilage. Batches without an expiry date
// are skipped. Results are sorted most urgent first.
func AnalyzeWaste(items []inventory.Item, batches []inventory.Batch, now time.Time) WasteSummary {
	byID := make(map[string]inventory.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	today := now.Truncate(24 * time.Hour)
	atRisk := make([]WasteItem, 0)

	for _, b := range batches {
		if b.ExpiryDate == nil {
			continue
		}
		item, ok := byID[b.InventoryItemID]
		if !ok {
			continue
		}

		days := int(b.ExpiryDate.Truncate(24 * time.Hour).Sub(today).Hours() / 24)
		if days > wasteWindow {
			continue
		}

		value := item.CostPrice.InexactFloat64() * float64(b.Quantity)

		var priority Priority
		var recommendation string
		switch {
		case days <= 2:
			priority = PriorityHigh
			recommendation = fmt.Sprintf("Urgent: mark down 50%% or donate immediately. Recoverable value: %.0f", value*0.5)
		case days <= 5:
			priority = PriorityMedium
			recommendation = fmt.Sprintf("Mark down 30%% to move faster. Estimated value: %.0f", value*0.7)
		default:
			priority = PriorityLow
			recommendation = "Monitor closely. Consider daily specials."
		}

		atRisk = append(atRisk, WasteItem{
			ItemID:          item.ID,
			Name:            item.Name,
			BatchNumber:     b.BatchNumber,
			Quantity:        b.Quantity,
			ExpiryDate:      *b.ExpiryDate,
			DaysUntilExpiry: days,
			EstimatedValue:  value,
			Recommendation:  recommendation,
			Priority:        priority,
		})
	}

	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].DaysUntilExpiry < atRisk[j].DaysUntilExpiry
	})

	total := 0.0
	for _, w := range atRisk {
		total += w.EstimatedValue
	}

	return WasteSummary{
		Items:       atRisk,
		TotalValue:  total,
		ItemsAtRisk: len(atRisk),
	}
}
