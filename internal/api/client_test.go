package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/storefront-next/internal/gateway"
)

type recorder struct {
	mu       sync.Mutex
	requests []string
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req.Method+" "+req.URL.RequestURI())
}

func (r *recorder) count(entry string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.requests {
		if e == entry {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(gateway.New(gateway.Options{BaseURL: srv.URL})), rec
}

func respond(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func TestCreateCheckoutSessionResolvesID(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{"id", map[string]interface{}{"id": "s-1", "status": "INITIATED"}, "s-1"},
		{"sessionId", map[string]interface{}{"sessionId": "s-2", "status": "INITIATED"}, "s-2"},
		{"checkoutSessionId", map[string]interface{}{"checkoutSessionId": 42, "status": "INITIATED"}, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, tt.payload)
			})
			session, err := client.CreateCheckoutSession(context.Background(), "tok")
			if err != nil {
				t.Fatalf("create session failed: %v", err)
			}
			if session.ID.String() != tt.want {
				t.Fatalf("unexpected id: %s", session.ID)
			}
		})
	}
}

func TestCreateCheckoutSessionMissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]string{"status": "INITIATED"})
	})
	_, err := client.CreateCheckoutSession(context.Background(), "tok")
	if !errors.Is(err, ErrSessionIDMissing) {
		t.Fatalf("expected ErrSessionIDMissing, got %v", err)
	}
}

func TestCartMutationInvalidatesCart(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]interface{}{"id": "c1", "customerId": "7", "items": []interface{}{}})
	})
	ctx := context.Background()

	if _, err := client.GetCart(ctx, "tok", "7"); err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if _, err := client.GetCart(ctx, "tok", "7"); err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if rec.count("GET /customers/7/cart") != 1 {
		t.Fatalf("expected cached cart read")
	}

	if _, err := client.AddToCart(ctx, "tok", "7", "p1", 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if _, err := client.GetCart(ctx, "tok", "7"); err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if rec.count("GET /customers/7/cart") != 2 {
		t.Fatalf("cart should be refetched after mutation")
	}
}

func TestCartMutationEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	cart, err := client.RemoveCartItem(context.Background(), "tok", "7", "item-1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart for empty response, got %+v", cart)
	}
}

func TestPayAndFinalizeInvalidateSession(t *testing.T) {
	status := "INITIATED"
	var mu sync.Mutex
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/checkout/sessions/s-1":
			respond(w, map[string]string{"id": "s-1", "status": status})
		case "/checkout/sessions/s-1/pay":
			var body PayInput
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.IdempotencyKey != "key-1" {
				t.Errorf("unexpected idempotency key: %q", body.IdempotencyKey)
			}
			status = "APPROVED"
			respond(w, map[string]string{"status": "APPROVED"})
		case "/checkout/sessions/s-1/finalize":
			status = "CONSUMED"
			respond(w, map[string]interface{}{"orderId": 99})
		}
	})
	ctx := context.Background()

	if _, err := client.GetCheckoutSession(ctx, "tok", "s-1"); err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if _, err := client.PayCheckoutSession(ctx, "tok", "s-1", PayInput{PaymentMethodID: "m1", CVV: "123", IdempotencyKey: "key-1"}); err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	session, err := client.GetCheckoutSession(ctx, "tok", "s-1")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.Status != "APPROVED" {
		t.Fatalf("session read after pay should be fresh, got %s", session.Status)
	}

	finalized, err := client.FinalizeCheckoutSession(ctx, "tok", "s-1", "key-1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.OrderID.String() != "99" {
		t.Fatalf("unexpected order id: %s", finalized.OrderID)
	}
	session, _ = client.GetCheckoutSession(ctx, "tok", "s-1")
	if session.Status != "CONSUMED" {
		t.Fatalf("session read after finalize should be fresh, got %s", session.Status)
	}
	if rec.count("GET /checkout/sessions/s-1") != 3 {
		t.Fatalf("unexpected session reads: %v", rec.requests)
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]interface{}{"id": 1})
	})
	if _, err := client.SetPaymentMethodEnabled(context.Background(), "tok", "7", "a/b", false); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if rec.count("PATCH /customers/7/payment-methods/a%2Fb/access?enabled=false") != 1 {
		t.Fatalf("unexpected requests: %v", rec.requests)
	}
}

func TestWritesInvalidateDependentReads(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		read  func(c *Client) error
		entry string
		write func(c *Client) error
	}{
		{
			name:  "create product refreshes product list",
			read:  func(c *Client) error { _, err := c.ListProducts(ctx); return err },
			entry: "GET /products",
			write: func(c *Client) error {
				_, err := c.CreateProduct(ctx, "tok", ProductInput{Name: "Lamp", CategoryID: "1"})
				return err
			},
		},
		{
			name:  "update product refreshes product detail",
			read:  func(c *Client) error { _, err := c.GetProduct(ctx, "7"); return err },
			entry: "GET /products/7",
			write: func(c *Client) error {
				_, err := c.UpdateProduct(ctx, "tok", "7", ProductInput{Name: "Lamp", CategoryID: "1"})
				return err
			},
		},
		{
			name:  "delete product refreshes product detail",
			read:  func(c *Client) error { _, err := c.GetProduct(ctx, "7"); return err },
			entry: "GET /products/7",
			write: func(c *Client) error { return c.DeleteProduct(ctx, "tok", "7") },
		},
		{
			name:  "order invalidation refreshes order list",
			read:  func(c *Client) error { _, err := c.ListOrders(ctx, "tok", "7"); return err },
			entry: "GET /customers/7/orders",
			write: func(c *Client) error { c.InvalidateOrders(ctx, "7"); return nil },
		},
		{
			name:  "delete category refreshes products",
			read:  func(c *Client) error { _, err := c.ListProducts(ctx); return err },
			entry: "GET /products",
			write: func(c *Client) error { return c.DeleteCategory(ctx, "tok", "3") },
		},
		{
			name:  "update customer refreshes profile",
			read:  func(c *Client) error { _, err := c.GetCustomer(ctx, "tok", "7"); return err },
			entry: "GET /customers/7",
			write: func(c *Client) error {
				_, err := c.UpdateCustomer(ctx, "tok", "7", CustomerUpdateInput{FullName: "Ada", Email: "ada@example.com"})
				return err
			},
		},
		{
			name:  "default method refreshes method list",
			read:  func(c *Client) error { _, err := c.ListPaymentMethods(ctx, "tok", "7"); return err },
			entry: "GET /customers/7/payment-methods",
			write: func(c *Client) error { _, err := c.SetDefaultPaymentMethod(ctx, "tok", "7", "m1"); return err },
		},
		{
			name:  "order payment refreshes order payments",
			read:  func(c *Client) error { _, err := c.ListOrderPayments(ctx, "tok", "501"); return err },
			entry: "GET /orders/501/payments",
			write: func(c *Client) error { _, err := c.ProcessOrderPayment(ctx, "tok", "501", "m1", "123"); return err },
		},
		{
			name:  "order status refreshes customer order view",
			read:  func(c *Client) error { _, err := c.GetOrder(ctx, "tok", "501"); return err },
			entry: "GET /orders/501",
			write: func(c *Client) error { _, err := c.AdminUpdateOrderStatus(ctx, "tok", "501", "SHIPPED"); return err },
		},
		{
			name:  "user access refreshes user list",
			read:  func(c *Client) error { _, err := c.AdminListUsers(ctx, "tok"); return err },
			entry: "GET /admin/users",
			write: func(c *Client) error { _, err := c.AdminSetUserAccess(ctx, "tok", "u1", false); return err },
		},
		{
			name:  "clear cart refreshes cart",
			read:  func(c *Client) error { _, err := c.GetCart(ctx, "tok", "7"); return err },
			entry: "GET /customers/7/cart",
			write: func(c *Client) error { _, err := c.ClearCart(ctx, "tok", "7"); return err },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet && (strings.HasSuffix(r.URL.Path, "s") || strings.HasSuffix(r.URL.Path, "methods")) {
					respond(w, []interface{}{})
					return
				}
				respond(w, map[string]interface{}{"id": "1"})
			})
			for i := 0; i < 2; i++ {
				if err := tt.read(client); err != nil {
					t.Fatalf("read failed: %v", err)
				}
			}
			if rec.count(tt.entry) != 1 {
				t.Fatalf("second read should hit the cache: %v", rec.requests)
			}
			if err := tt.write(client); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if err := tt.read(client); err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if rec.count(tt.entry) != 2 {
				t.Fatalf("read after write should reach the backend: %v", rec.requests)
			}
		})
	}
}

func TestAuthFlowsDoNotCache(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/verify-otp":
			respond(w, map[string]bool{"valid": true})
		case "/auth/forgot-password":
			w.WriteHeader(http.StatusNoContent)
		default:
			respond(w, map[string]interface{}{"accessToken": "tok", "user": map[string]interface{}{"id": 1}})
		}
	})
	ctx := context.Background()

	if err := client.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	valid, err := client.VerifyOTP(ctx, VerifyOTPInput{Email: "ada@example.com", Code: "123456", Type: "PASSWORD_RESET"})
	if err != nil || !valid {
		t.Fatalf("verify otp failed: valid=%v err=%v", valid, err)
	}
	if _, err := client.ResetPassword(ctx, ResetPasswordInput{Email: "ada@example.com", Code: "123456", NewPassword: "n3w"}); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}
	if _, err := client.VerifyOTP(ctx, VerifyOTPInput{Email: "ada@example.com", Code: "123456"}); err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}
	if rec.count("POST /auth/verify-otp") != 2 {
		t.Fatalf("writes must never be served from cache: %v", rec.requests)
	}
}
