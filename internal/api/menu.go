package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zaiqapos/pos-api/internal/domain/menu"
)

type menuItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
}

func toMenuItemResponse(m menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price.InexactFloat64(),
		Category:    m.Category,
		Available:   m.Available,
		ImageURL:    m.ImageURL,
		Description: m.Description,
	}
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]menuItemResponse, len(items))
	for i, m := range items {
		out[i] = toMenuItemResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	m, err := h.menu.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(*m))
}

type createMenuItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "item name is required")
		return
	}
	if req.Price < 0 {
		writeBadRequest(w, "price must not be negative")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := &menu.Item{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Category:    req.Category,
		Available:   available,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := h.menu.Create(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(*item))
}

type updateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	ImageURL    *string  `json:"imageUrl"`
	Description *string  `json:"description"`
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req updateMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		writeBadRequest(w, "price must not be negative")
		return
	}

	upd := menu.Update{
		Name:        req.Name,
		Category:    req.Category,
		Available:   req.Available,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if req.Price != nil {
		p := decimal.NewFromFloat(*req.Price)
		upd.Price = &p
	}

	item, err := h.menu.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(*item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
