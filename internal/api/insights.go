package api

import (
	"net/http"
)

type insightsSummaryResponse struct {
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int     `json:"totalOrders"`
	LowStockCount int     `json:"lowStockCount"`
}

type insightsResponse struct {
	Insights string                  `json:"insights"`
	Summary  insightsSummaryResponse `json:"summary"`
}

func (h *Handler) generateInsights(w http.ResponseWriter, r *http.Request) {
	out, err := h.insights.Generate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{
		Insights: out.Text,
		Summary: insightsSummaryResponse{
			TotalSales:    out.Summary.TotalSales.InexactFloat64(),
			TotalOrders:   out.Summary.TotalOrders,
			LowStockCount: out.Summary.LowStockCount,
		},
	})
}
