// Package api exposes the POS core over HTTP: menu, carts, checkout, orders,
// inventory, analytics, forecasting, and AI insights.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zaiqapos/pos-api/internal/domain/auth"
	"github.com/zaiqapos/pos-api/internal/domain/cart"
	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/menu"
	"github.com/zaiqapos/pos-api/internal/domain/order"
	"github.com/zaiqapos/pos-api/internal/insights"
)

// Handler serves the POS API, delegating business logic to the injected
// domain services.
type Handler struct {
	menu      menu.Repository
	carts     *cart.SessionStore
	orders    *order.Service
	inventory *inventory.Service
	insights  *insights.Service
	changes   ChangeFeed
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	menuRepo menu.Repository,
	carts *cart.SessionStore,
	orders *order.Service,
	inv *inventory.Service,
	ins *insights.Service,
	changes ChangeFeed,
) *Handler {
	return &Handler{
		menu:      menuRepo,
		carts:     carts,
		orders:    orders,
		inventory: inv,
		insights:  ins,
		changes:   changes,
	}
}

// Router builds the API route tree. Read endpoints are open; mutating
// endpoints require an API key with sufficient role via sec.
func (h *Handler) Router(sec *Security) chi.Router {
	r := chi.NewRouter()

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.listMenu)
		r.Get("/{id}", h.getMenuItem)
		r.Group(func(r chi.Router) {
			r.Use(sec.Require(auth.RoleManager))
			r.Post("/", h.createMenuItem)
			r.Patch("/{id}", h.updateMenuItem)
			r.Delete("/{id}", h.deleteMenuItem)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(sec.Require(auth.RoleStaff), requireSession)
		r.Get("/", h.getCart)
		r.Post("/items", h.addCartLine)
		r.Put("/items/{itemId}", h.setCartQuantity)
		r.Put("/items/{itemId}/note", h.setCartLineNote)
		r.Delete("/items/{itemId}", h.removeCartLine)
		r.Put("/customer", h.attachCustomer)
		r.Delete("/", h.clearCart)
		r.Post("/checkout", h.checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(sec.Require(auth.RoleStaff))
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/status", h.updateOrderStatus)
		r.Post("/{id}/cancel", h.cancelOrder)
		r.With(sec.Require(auth.RoleManager)).Delete("/{id}", h.deleteOrder)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Use(sec.Require(auth.RoleStaff))
		r.Get("/", h.listInventory)
		r.Get("/low-stock", h.lowStock)
		r.Get("/search", h.searchInventory)
		r.Get("/{id}", h.getInventoryItem)
		r.Group(func(r chi.Router) {
			r.Use(sec.Require(auth.RoleManager))
			r.Post("/", h.createInventoryItem)
			r.Patch("/{id}", h.updateInventoryItem)
			r.Delete("/{id}", h.deleteInventoryItem)
		})
	})

	r.Route("/forecast", func(r chi.Router) {
		r.Use(sec.Require(auth.RoleStaff))
		r.Get("/revenue", h.revenueForecast)
		r.Get("/items", h.itemForecast)
		r.Get("/waste", h.wasteAnalysis)
	})

	r.With(sec.Require(auth.RoleStaff)).Get("/analytics/summary", h.analyticsSummary)
	r.With(sec.Require(auth.RoleStaff)).Get("/events", h.streamEvents)
	r.With(sec.Require(auth.RoleManager)).Post("/insights", h.generateInsights)

	return r
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
