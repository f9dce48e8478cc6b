package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zaiqapos/pos-api/internal/domain/inventory"
)

type inventoryItemResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SKU          string  `json:"sku"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	ReorderLevel int     `json:"reorderLevel"`
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Supplier     string  `json:"supplier,omitempty"`
	Barcode      string  `json:"barcode,omitempty"`
	Description  string  `json:"description,omitempty"`
	LowStock     bool    `json:"lowStock"`
}

func toInventoryItemResponse(it inventory.Item) inventoryItemResponse {
	return inventoryItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		SKU:          it.SKU,
		Quantity:     it.Quantity,
		Unit:         it.Unit,
		ReorderLevel: it.ReorderLevel,
		CostPrice:    it.CostPrice.InexactFloat64(),
		SellingPrice: it.SellingPrice.InexactFloat64(),
		Supplier:     it.Supplier,
		Barcode:      it.Barcode,
		Description:  it.Description,
		LowStock:     it.LowStock(),
	}
}

func toInventoryListResponse(items []inventory.Item) []inventoryItemResponse {
	out := make([]inventoryItemResponse, len(items))
	for i, it := range items {
		out[i] = toInventoryItemResponse(it)
	}
	return out
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		items, err := h.inventory.ByCategory(r.Context(), category)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toInventoryListResponse(items))
		return
	}

	items, err := h.inventory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryListResponse(items))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.LowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryListResponse(items))
}

func (h *Handler) searchInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeBadRequest(w, "the q query parameter is required")
		return
	}
	items, err := h.inventory.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryListResponse(items))
}

func (h *Handler) getInventoryItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemResponse(*it))
}

type createInventoryItemRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SKU          string  `json:"sku"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	ReorderLevel int     `json:"reorderLevel"`
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Supplier     string  `json:"supplier"`
	Barcode      string  `json:"barcode"`
	Description  string  `json:"description"`
}

func (h *Handler) createInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req createInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	item, err := h.inventory.Add(r.Context(), inventory.Item{
		Name:         req.Name,
		Category:     req.Category,
		SKU:          req.SKU,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		CostPrice:    decimal.NewFromFloat(req.CostPrice),
		SellingPrice: decimal.NewFromFloat(req.SellingPrice),
		Supplier:     req.Supplier,
		Barcode:      req.Barcode,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInventoryItemResponse(*item))
}

type updateInventoryItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	SKU          *string  `json:"sku"`
	Quantity     *int     `json:"quantity"`
	Unit         *string  `json:"unit"`
	ReorderLevel *int     `json:"reorderLevel"`
	CostPrice    *float64 `json:"costPrice"`
	SellingPrice *float64 `json:"sellingPrice"`
	Supplier     *string  `json:"supplier"`
	Barcode      *string  `json:"barcode"`
	Description  *string  `json:"description"`
}

func (h *Handler) updateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req updateInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	upd := inventory.Update{
		Name:         req.Name,
		Category:     req.Category,
		SKU:          req.SKU,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		Supplier:     req.Supplier,
		Barcode:      req.Barcode,
		Description:  req.Description,
	}
	if req.CostPrice != nil {
		p := decimal.NewFromFloat(*req.CostPrice)
		upd.CostPrice = &p
	}
	if req.SellingPrice != nil {
		p := decimal.NewFromFloat(*req.SellingPrice)
		upd.SellingPrice = &p
	}

	item, err := h.inventory.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemResponse(*item))
}

func (h *Handler) deleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
