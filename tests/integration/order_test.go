//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

const testAPIKey = "integration-test-key"

var (
	uuidPattern   = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	numberPattern = regexp.MustCompile(`^ORD-\d{4}$`)
)

func menuItemID(t *testing.T, name string) string {
	t.Helper()

	resp := doGet(t, "/api/menu")
	defer resp.Body.Close()
	items := decodeJSON[[]menuItemResponse](t, resp)
	for _, it := range items {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("menu item %q not found", name)
	return ""
}

func TestCart_NoAuth(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/api/cart", nil, map[string]string{"X-Session-ID": "till-1"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCart_NoSession(t *testing.T) {
	resp := doRequest(t, http.MethodGet, "/api/cart", nil, authHeaders(testAPIKey, ""))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckoutFlow(t *testing.T) {
	session := authHeaders(testAPIKey, "till-checkout")
	biryani := menuItemID(t, "Chicken Biryani")

	// Add two biryani.
	for i := 0; i < 2; i++ {
		resp := doRequest(t, http.MethodPost, "/api/cart/items", map[string]any{"itemId": biryani}, session)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := doRequest(t, http.MethodGet, "/api/cart", nil, session)
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Count != 2 {
		t.Fatalf("cart count: got %d, want 2", cart.Count)
	}
	if cart.Subtotal != 900 {
		t.Fatalf("cart subtotal: got %v, want 900", cart.Subtotal)
	}

	resp = doRequest(t, http.MethodPut, "/api/cart/customer", map[string]any{
		"name":        "Ahmed",
		"tableNumber": "5",
	}, session)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("attach customer: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodPost, "/api/cart/checkout", map[string]any{"paymentMethod": "cash"}, session)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	if !uuidPattern.MatchString(order.ID) {
		t.Errorf("order ID %q is not a UUID", order.ID)
	}
	if !numberPattern.MatchString(order.Number) {
		t.Errorf("order number %q does not match ORD-NNNN", order.Number)
	}
	if order.Status != "pending" {
		t.Errorf("status: got %q, want pending", order.Status)
	}
	if order.Subtotal != 900 {
		t.Errorf("subtotal: got %v, want 900", order.Subtotal)
	}
	if order.CustomerName != "Ahmed" {
		t.Errorf("customer: got %q, want Ahmed", order.CustomerName)
	}

	// The cart drains after checkout.
	resp2 := doRequest(t, http.MethodGet, "/api/cart", nil, session)
	defer resp2.Body.Close()
	cart = decodeJSON[cartResponse](t, resp2)
	if cart.Count != 0 {
		t.Errorf("cart count after checkout: got %d, want 0", cart.Count)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	session := authHeaders(testAPIKey, "till-empty")

	resp := doRequest(t, http.MethodPost, "/api/cart/checkout", map[string]any{"paymentMethod": "cash"}, session)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCheckout_InvalidPayment(t *testing.T) {
	session := authHeaders(testAPIKey, "till-payment")
	biryani := menuItemID(t, "Chicken Biryani")

	resp := doRequest(t, http.MethodPost, "/api/cart/items", map[string]any{"itemId": biryani}, session)
	resp.Body.Close()
	resp = doRequest(t, http.MethodPut, "/api/cart/customer", map[string]any{"name": "Sana"}, session)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, "/api/cart/checkout", map[string]any{"paymentMethod": "bitcoin"}, session)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestOrderLifecycle(t *testing.T) {
	session := authHeaders(testAPIKey, "till-lifecycle")
	lassi := menuItemID(t, "Mango Lassi")

	resp := doRequest(t, http.MethodPost, "/api/cart/items", map[string]any{"itemId": lassi}, session)
	resp.Body.Close()
	resp = doRequest(t, http.MethodPut, "/api/cart/customer", map[string]any{"name": "Bilal"}, session)
	resp.Body.Close()
	resp = doRequest(t, http.MethodPost, "/api/cart/checkout", map[string]any{"paymentMethod": "jazzcash"}, session)
	placed := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	update := func(status string) *http.Response {
		return doRequest(t, http.MethodPut, "/api/orders/"+placed.ID+"/status",
			map[string]any{"status": status}, authHeaders(testAPIKey, ""))
	}

	// Skipping a stage is rejected.
	resp = update("ready")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("pending->ready: expected 422, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	for _, status := range []string{"preparing", "ready", "completed"} {
		resp = update(status)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d", status, resp.StatusCode)
		}
		got := decodeJSON[orderResponse](t, resp)
		resp.Body.Close()
		if got.Status != status {
			t.Fatalf("status: got %q, want %q", got.Status, status)
		}
	}

	// Completed is terminal.
	resp = update("pending")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("completed->pending: expected 422, got %d", resp.StatusCode)
	}
}
