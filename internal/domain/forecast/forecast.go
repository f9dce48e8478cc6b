// Package forecast derives short-horizon demand projections from historical
// orders. The estimator is a trend-adjusted moving average: a planning
// heuristic, not a statistical model.
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/order"
)

// Horizons supported by the estimator, in day buckets.
const (
	HorizonWeek  = 7
	HorizonMonth = 30
)

// Confidence bounds for predicted points. Confidence decays 2 points per day
// of horizon, floored at MinConfidence.
const (
	MaxConfidence = 95
	MinConfidence = 60
)

// Point is one day of the revenue series. Past days carry the observed value
// in Actual with full confidence; future days carry only a prediction.
type Point struct {
	Date       time.Time
	Predicted  float64
	Confidence int
	Actual     *float64
}

// Trend classifies recent demand for an item relative to its overall average.
type Trend string

// Trend classifications. An item is trending up or down when its recent
// average deviates from the overall average by more than 10%.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ItemForecast is the projected demand for one menu item over the horizon.
type ItemForecast struct {
	ItemName         string
	CurrentStock     int
	PredictedDemand  int
	RecommendedStock int
	Trend            Trend
}

// Revenue projects daily revenue for the next horizon days from the trailing
// horizon days of orders. The returned series contains the historical buckets
// (with actuals) followed by the predictions. It never divides by zero: with
// no history every prediction is zero.
func Revenue(orders []order.Order, horizon int, now time.Time) []Point {
	if horizon != HorizonMonth {
		horizon = HorizonWeek
	}

	today := now.Truncate(24 * time.Hour)

	// Daily revenue buckets over the trailing window, oldest first.
	buckets := make([]float64, horizon)
	start := today.AddDate(0, 0, -horizon)
	for _, o := range orders {
		day := o.CreatedAt.Truncate(24 * time.Hour)
		idx := int(day.Sub(start).Hours() / 24)
		if idx < 0 || idx >= horizon {
			continue
		}
		buckets[idx] += o.Total.InexactFloat64()
	}

	recentAvg := mean(buckets[max(0, horizon-7):])
	olderAvg := mean(buckets[:min(7, horizon)])

	// Guard the ratio: a zero or tiny older average would explode the trend.
	multiplier := 1.0
	if recentAvg > 0 {
		multiplier = recentAvg / math.Max(olderAvg, 1)
	}

	series := make([]Point, 0, 2*horizon)
	for i, v := range buckets {
		actual := v
		series = append(series, Point{
			Date:       start.AddDate(0, 0, i),
			Predicted:  actual,
			Confidence: 100,
			Actual:     &actual,
		})
	}

	for i := 1; i <= horizon; i++ {
		predicted := recentAvg * math.Pow(multiplier, float64(i)/7)
		confidence := MaxConfidence - 2*i
		if confidence < MinConfidence {
			confidence = MinConfidence
		}
		series = append(series, Point{
			Date:       today.AddDate(0, 0, i),
			Predicted:  math.Round(predicted),
			Confidence: confidence,
		})
	}
	return series
}

// ItemDemand projects per-item demand over the horizon. For each distinct
// item name in the order history it compares the recent per-order quantity
// average against the overall average to classify the trend, and recommends
// restocking with a 20% safety margin over predicted demand. Results are
// sorted by predicted demand, highest first.
func ItemDemand(orders []order.Order, stock []inventory.Item, horizon int) []ItemForecast {
	if horizon != HorizonMonth {
		horizon = HorizonWeek
	}

	// Per-order quantities by item name, in order encounter order.
	quantities := make(map[string][]float64)
	names := make([]string, 0)
	for _, o := range orders {
		for _, line := range o.Lines {
			if _, seen := quantities[line.Name]; !seen {
				names = append(names, line.Name)
			}
			quantities[line.Name] = append(quantities[line.Name], float64(line.Quantity))
		}
	}

	stockByName := make(map[string]int, len(stock))
	for _, item := range stock {
		stockByName[item.Name] = item.Quantity
	}

	forecasts := make([]ItemForecast, 0, len(names))
	for _, name := range names {
		qs := quantities[name]
		avg := mean(qs)
		recent := mean(qs[max(0, len(qs)-5):])
		predicted := int(math.Round(recent * float64(horizon)))

		trend := TrendStable
		switch {
		case recent > avg*1.1:
			trend = TrendUp
		case recent < avg*0.9:
			trend = TrendDown
		}

		forecasts = append(forecasts, ItemForecast{
			ItemName:         name,
			CurrentStock:     stockByName[name],
			PredictedDemand:  predicted,
			RecommendedStock: int(math.Ceil(float64(predicted) * 1.2)),
			Trend:            trend,
		})
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].PredictedDemand > forecasts[j].PredictedDemand
	})
	return forecasts
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
