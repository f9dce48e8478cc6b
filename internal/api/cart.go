package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zaiqapos/pos-api/internal/domain/cart"
	"github.com/zaiqapos/pos-api/internal/domain/order"
)

type cartLineResponse struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Note      string  `json:"note,omitempty"`
}

type customerResponse struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	TableNumber string `json:"tableNumber,omitempty"`
}

type cartResponse struct {
	Lines    []cartLineResponse `json:"lines"`
	Customer *customerResponse  `json:"customer,omitempty"`
	Subtotal float64            `json:"subtotal"`
	Tax      float64            `json:"tax"`
	Total    float64            `json:"total"`
	Count    int                `json:"count"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	lines := c.Lines()
	out := cartResponse{
		Lines:    make([]cartLineResponse, len(lines)),
		Subtotal: c.Subtotal().InexactFloat64(),
		Tax:      c.Tax().InexactFloat64(),
		Total:    c.Total().InexactFloat64(),
		Count:    c.Count(),
	}
	for i, l := range lines {
		out.Lines[i] = cartLineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.InexactFloat64(),
			Quantity:  l.Quantity,
			Note:      l.Note,
		}
	}
	if cust := c.Customer(); cust != nil {
		out.Customer = &customerResponse{
			Name:        cust.Name,
			Phone:       cust.Phone,
			TableNumber: cust.TableNumber,
		}
	}
	return out
}

func (h *Handler) sessionCart(r *http.Request) *cart.Cart {
	return h.carts.Get(sessionFromContext(r.Context()))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCartResponse(h.sessionCart(r)))
}

type addCartLineRequest struct {
	ItemID string `json:"itemId"`
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var req addCartLineRequest
	if err := decodeJSON(r, &req); err != nil || req.ItemID == "" {
		writeBadRequest(w, "itemId is required")
		return
	}

	item, err := h.menu.GetByID(r.Context(), req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := h.sessionCart(r)
	if err := c.AddLine(item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	c := h.sessionCart(r)
	if err := c.SetQuantity(chi.URLParam(r, "itemId"), req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type setNoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) setCartLineNote(w http.ResponseWriter, r *http.Request) {
	var req setNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	c := h.sessionCart(r)
	if err := c.SetLineNote(chi.URLParam(r, "itemId"), req.Note); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(r)
	if err := c.RemoveLine(chi.URLParam(r, "itemId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type attachCustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TableNumber string `json:"tableNumber"`
}

func (h *Handler) attachCustomer(w http.ResponseWriter, r *http.Request) {
	var req attachCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	c := h.sessionCart(r)
	if err := c.AttachCustomer(cart.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		TableNumber: req.TableNumber,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(r)
	c.Clear()
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.Checkout(r.Context(), h.sessionCart(r), order.PaymentMethod(req.PaymentMethod), req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*o))
}
