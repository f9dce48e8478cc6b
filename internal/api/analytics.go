package api

import (
	"net/http"
	"time"

	"github.com/zaiqapos/pos-api/internal/domain/analytics"
)

type topItemResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type dayRevenueResponse struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type analyticsSummaryResponse struct {
	TodaySales      float64              `json:"todaySales"`
	TodayOrders     int                  `json:"todayOrders"`
	CompletedOrders int                  `json:"completedOrders"`
	SalesTrend      float64              `json:"salesTrend"`
	OrdersTrend     float64              `json:"ordersTrend"`
	LowStockCount   int                  `json:"lowStockCount"`
	TopItems        []topItemResponse    `json:"topItems"`
	WeekRevenue     []dayRevenueResponse `json:"weekRevenue"`
}

func (h *Handler) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	low, err := h.inventory.LowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s := analytics.Compute(orders, len(low), time.Now())

	out := analyticsSummaryResponse{
		TodaySales:      s.TodaySales.InexactFloat64(),
		TodayOrders:     s.TodayOrders,
		CompletedOrders: s.CompletedOrders,
		SalesTrend:      s.SalesTrend,
		OrdersTrend:     s.OrdersTrend,
		LowStockCount:   s.LowStockCount,
		TopItems:        make([]topItemResponse, len(s.TopItems)),
		WeekRevenue:     make([]dayRevenueResponse, len(s.WeekRevenue)),
	}
	for i, t := range s.TopItems {
		out.TopItems[i] = topItemResponse{
			Name:     t.Name,
			Quantity: t.Quantity,
			Revenue:  t.Revenue.InexactFloat64(),
		}
	}
	for i, d := range s.WeekRevenue {
		out.WeekRevenue[i] = dayRevenueResponse{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: d.Revenue.InexactFloat64(),
			Orders:  d.Orders,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
