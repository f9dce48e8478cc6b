package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zaiqapos/pos-api/internal/domain/forecast"
)

// horizonFromQuery parses ?days= as a forecast horizon, defaulting to a week.
func horizonFromQuery(r *http.Request) (int, bool) {
	s := r.URL.Query().Get("days")
	if s == "" {
		return forecast.HorizonWeek, true
	}
	days, err := strconv.Atoi(s)
	if err != nil || (days != forecast.HorizonWeek && days != forecast.HorizonMonth) {
		return 0, false
	}
	return days, true
}

type forecastPointResponse struct {
	Date       string   `json:"date"`
	Predicted  float64  `json:"predicted"`
	Confidence int      `json:"confidence"`
	Actual     *float64 `json:"actual,omitempty"`
}

func (h *Handler) revenueForecast(w http.ResponseWriter, r *http.Request) {
	horizon, ok := horizonFromQuery(r)
	if !ok {
		writeBadRequest(w, "days must be 7 or 30")
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	series := forecast.Revenue(orders, horizon, time.Now())
	out := make([]forecastPointResponse, len(series))
	for i, p := range series {
		out[i] = forecastPointResponse{
			Date:       p.Date.Format("2006-01-02"),
			Predicted:  p.Predicted,
			Confidence: p.Confidence,
			Actual:     p.Actual,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type itemForecastResponse struct {
	ItemName         string `json:"itemName"`
	CurrentStock     int    `json:"currentStock"`
	PredictedDemand  int    `json:"predictedDemand"`
	RecommendedStock int    `json:"recommendedStock"`
	Trend            string `json:"trend"`
}

func (h *Handler) itemForecast(w http.ResponseWriter, r *http.Request) {
	horizon, ok := horizonFromQuery(r)
	if !ok {
		writeBadRequest(w, "days must be 7 or 30")
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	stock, err := h.inventory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	forecasts := forecast.ItemDemand(orders, stock, horizon)
	out := make([]itemForecastResponse, len(forecasts))
	for i, f := range forecasts {
		out[i] = itemForecastResponse{
			ItemName:         f.ItemName,
			CurrentStock:     f.CurrentStock,
			PredictedDemand:  f.PredictedDemand,
			RecommendedStock: f.RecommendedStock,
			Trend:            string(f.Trend),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type wasteItemResponse struct {
	ItemID          string  `json:"itemId"`
	Name            string  `json:"name"`
	BatchNumber     string  `json:"batchNumber"`
	Quantity        int     `json:"quantity"`
	ExpiryDate      string  `json:"expiryDate"`
	DaysUntilExpiry int     `json:"daysUntilExpiry"`
	EstimatedValue  float64 `json:"estimatedValue"`
	Recommendation  string  `json:"recommendation"`
	Priority        string  `json:"priority"`
}

type wasteSummaryResponse struct {
	Items       []wasteItemResponse `json:"items"`
	TotalValue  float64             `json:"totalValue"`
	ItemsAtRisk int                 `json:"itemsAtRisk"`
}

func (h *Handler) wasteAnalysis(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	batches, err := h.inventory.Batches(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary := forecast.AnalyzeWaste(items, batches, time.Now())
	out := wasteSummaryResponse{
		Items:       make([]wasteItemResponse, len(summary.Items)),
		TotalValue:  summary.TotalValue,
		ItemsAtRisk: summary.ItemsAtRisk,
	}
	for i, wi := range summary.Items {
		out.Items[i] = wasteItemResponse{
			ItemID:          wi.ItemID,
			Name:            wi.Name,
			BatchNumber:     wi.BatchNumber,
			Quantity:        wi.Quantity,
			ExpiryDate:      wi.ExpiryDate.Format("2006-01-02"),
			DaysUntilExpiry: wi.DaysUntilExpiry,
			EstimatedValue:  wi.EstimatedValue,
			Recommendation:  wi.Recommendation,
			Priority:        string(wi.Priority),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
