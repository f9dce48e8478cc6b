package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zaiqapos/pos-api/internal/domain/order"
)

type orderLineResponse struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Note      string  `json:"note,omitempty"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	CustomerName  string              `json:"customerName"`
	CustomerPhone string              `json:"customerPhone,omitempty"`
	TableNumber   string              `json:"tableNumber,omitempty"`
	Lines         []orderLineResponse `json:"lines"`
	Subtotal      float64             `json:"subtotal"`
	TaxAmount     float64             `json:"taxAmount"`
	Total         float64             `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
}

func toOrderResponse(o order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.InexactFloat64(),
			Note:      l.Note,
		}
	}
	return orderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		TableNumber:   o.TableNumber,
		Lines:         lines,
		Subtotal:      o.Subtotal.InexactFloat64(),
		TaxAmount:     o.TaxAmount.InexactFloat64(),
		Total:         o.Total.InexactFloat64(),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

func toOrderListResponse(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// listOrders returns all orders, optionally filtered with ?status=.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.Status(s)
		if !status.Valid() {
			writeBadRequest(w, "unknown order status")
			return
		}
		orders, err := h.orders.ByStatus(r.Context(), status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderListResponse(orders))
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
