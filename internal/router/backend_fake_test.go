package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

const fakeSessionID = "0f8fad5b-d9cb-469f-a165-70867728950e"

// fakeBackend 最小化的商城后端
type fakeBackend struct {
	mu       sync.Mutex
	cart     map[string]int
	order    []string
	status   string
	payKeys  []string
	finalize []string
	decline  bool
	methods  []map[string]interface{}
	statuses []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	b := &fakeBackend{cart: make(map[string]int), status: "INITIATED"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("GET /auth/me", b.me)
	mux.HandleFunc("GET /products", b.products)
	mux.HandleFunc("GET /products/{id}", b.product)
	mux.HandleFunc("GET /categories", b.categories)
	mux.HandleFunc("DELETE /customers/{cid}/cart", b.clearCart)
	mux.HandleFunc("POST /orders/{id}/payments", b.payOrder)
	mux.HandleFunc("GET /admin/orders", b.adminOrders)
	mux.HandleFunc("GET /admin/orders/{id}/tracking", b.adminTracking)
	mux.HandleFunc("PATCH /admin/orders/{id}/status", b.adminUpdateStatus)
	mux.HandleFunc("GET /customers/{cid}/cart", b.getCart)
	mux.HandleFunc("POST /customers/{cid}/cart/items", b.addItem)
	mux.HandleFunc("PATCH /customers/{cid}/cart/items/{item}", b.updateItem)
	mux.HandleFunc("GET /customers/{cid}/payment-methods", b.listMethods)
	mux.HandleFunc("POST /customers/{cid}/payment-methods", b.addMethod)
	mux.HandleFunc("GET /customers/{cid}/orders", b.orders)
	mux.HandleFunc("GET /orders/{id}/tracking", b.tracking)
	mux.HandleFunc("POST /checkout/sessions", b.createSession)
	mux.HandleFunc("GET /checkout/sessions/{id}", b.getSession)
	mux.HandleFunc("POST /checkout/sessions/{id}/pay", b.pay)
	mux.HandleFunc("POST /checkout/sessions/{id}/finalize", b.finalizeSession)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readBody(r *http.Request) map[string]interface{} {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer tok-ada"
}

func adminAuthorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer tok-grace"
}

var fakeUser = map[string]interface{}{
	"id":         "u1",
	"email":      "ada@example.com",
	"fullName":   "Ada Lovelace",
	"roles":      []string{"ROLE_CUSTOMER"},
	"customerId": "7",
}

var fakeAdmin = map[string]interface{}{
	"id":       "u2",
	"email":    "grace@example.com",
	"fullName": "Grace Hopper",
	"roles":    []string{"ROLE_ADMIN"},
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	if body["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	switch body["email"] {
	case "ada@example.com":
		writeJSON(w, http.StatusOK, map[string]interface{}{"tokenType": "Bearer", "accessToken": "tok-ada", "user": fakeUser})
	case "grace@example.com":
		writeJSON(w, http.StatusOK, map[string]interface{}{"tokenType": "Bearer", "accessToken": "tok-grace", "user": fakeAdmin})
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}
}

func (b *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	switch {
	case authorized(r):
		writeJSON(w, http.StatusOK, fakeUser)
	case adminAuthorized(r):
		writeJSON(w, http.StatusOK, fakeAdmin)
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}
}

func (b *fakeBackend) products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]interface{}{
		{"id": "p1", "name": "Desk Lamp", "price": 100, "stockQuantity": 5, "active": true, "category": map[string]interface{}{"id": 1, "name": "Lighting"}},
		{"id": "p2", "name": "Notebook", "price": "15.50", "stockQuantity": 0, "active": true, "category": map[string]interface{}{"id": 2, "name": "Paper"}},
	})
}

func (b *fakeBackend) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 1, "name": "Lighting"}, {"id": 2, "name": "Paper"}})
}

func (b *fakeBackend) clearCart(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cart = make(map[string]int)
	b.order = nil
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) payOrder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id": 9, "orderId": r.PathValue("id"), "status": "DECLINED", "amount": "200.00",
		"gatewayResponseCode": "05", "gatewayMessage": "Do not honor",
	})
}

func (b *fakeBackend) adminOrders(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return
	}
	writeJSON(w, http.StatusOK, []map[string]interface{}{
		{"id": 501, "orderNumber": "ORD-501", "status": "SHIPPED", "totalAmount": "200.00"},
		{"id": 502, "orderNumber": "ORD-502", "status": "DELIVERED", "totalAmount": "15.50"},
	})
}

func (b *fakeBackend) adminTracking(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId": r.PathValue("id"), "currentStatus": "SHIPPED", "paymentApproved": true,
	})
}

func (b *fakeBackend) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	status, _ := body["status"].(string)
	b.mu.Lock()
	b.statuses = append(b.statuses, status)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": r.PathValue("id"), "orderNumber": "ORD-501", "status": status, "totalAmount": "200.00"})
}

func (b *fakeBackend) product(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id != "p1" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": "p1", "name": "Desk Lamp", "price": 100, "stockQuantity": 5, "active": true})
}

func (b *fakeBackend) cartJSON() map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(b.order))
	total := decimal.Zero
	for _, id := range b.order {
		q := b.cart[id]
		subtotal := decimal.NewFromInt(100 * int64(q))
		total = total.Add(subtotal)
		items = append(items, map[string]interface{}{
			"id": "item-" + id, "productId": id, "productName": "Desk Lamp",
			"quantity": q, "unitPrice": 100, "subtotal": subtotal.String(),
		})
	}
	return map[string]interface{}{"id": "cart-7", "customerId": "7", "items": items, "totalAmount": total.String()}
}

func (b *fakeBackend) getCart(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.cartJSON())
}

func (b *fakeBackend) addItem(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	id, _ := body["productId"].(string)
	q, _ := body["quantity"].(float64)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.cart[id]; !ok {
		b.order = append(b.order, id)
	}
	b.cart[id] += int(q)
	writeJSON(w, http.StatusOK, b.cartJSON())
}

func (b *fakeBackend) updateItem(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	q, _ := body["quantity"].(float64)
	id := strings.TrimPrefix(r.PathValue("item"), "item-")
	if int(q) > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Only 5 in stock"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cart[id] = int(q)
	writeJSON(w, http.StatusOK, b.cartJSON())
}

func (b *fakeBackend) listMethods(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	methods := b.methods
	if methods == nil {
		methods = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, methods)
}

func (b *fakeBackend) addMethod(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	number, _ := body["cardNumber"].(string)
	b.mu.Lock()
	defer b.mu.Unlock()
	method := map[string]interface{}{
		"id": "m1", "provider": body["provider"], "cardHolderName": body["cardHolderName"],
		"last4": number[len(number)-4:], "enabled": true, "defaultMethod": true,
	}
	b.methods = append(b.methods, method)
	writeJSON(w, http.StatusCreated, method)
}

func (b *fakeBackend) orders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]interface{}{
		{"id": 501, "orderNumber": "ORD-501", "status": "SHIPPED", "totalAmount": "200.00"},
	})
}

func (b *fakeBackend) tracking(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId": r.PathValue("id"), "currentStatus": "ORDER_RECEIVED", "paymentApproved": false,
		"events": []map[string]string{{"status": "ORDER_RECEIVED"}},
	})
}

func (b *fakeBackend) createSession(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"checkoutSessionId": fakeSessionID, "status": "INITIATED", "amount": "200.00"})
}

func (b *fakeBackend) getSession(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": r.PathValue("id"), "status": b.status, "amount": "200.00"})
}

func (b *fakeBackend) pay(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	key, _ := body["idempotencyKey"].(string)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payKeys = append(b.payKeys, key)
	if b.decline {
		b.decline = false
		b.status = "FAILED"
		writeJSON(w, http.StatusOK, map[string]string{"status": "DECLINED", "gatewayMessage": "Insufficient funds"})
		return
	}
	b.status = "APPROVED"
	writeJSON(w, http.StatusOK, map[string]string{"status": "APPROVED", "transactionId": "tx-1"})
}

func (b *fakeBackend) finalizeSession(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	key, _ := body["idempotencyKey"].(string)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalize = append(b.finalize, key)
	b.status = "CONSUMED"
	b.cart = make(map[string]int)
	b.order = nil
	writeJSON(w, http.StatusOK, map[string]interface{}{"orderId": 501, "orderNumber": "ORD-501"})
}
