package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/gateway"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeProduct struct {
	Name  string
	Price int64
	Stock int
}

type fakeLine struct {
	ProductID string
	Quantity  int
}

type fakeSession struct {
	ID     string
	Status string
	Amount decimal.Decimal
	Items  []fakeLine
}

// fakeShop 内存版后端，记录收到的请求
type fakeShop struct {
	t  *testing.T
	mu sync.Mutex

	products map[string]fakeProduct
	carts    map[string][]fakeLine
	sessions map[string]*fakeSession
	methods  map[string][]models.PaymentMethod
	users    map[string]models.AuthUser

	failAddFor   map[string]bool
	addGate      chan struct{}
	addArrived   chan struct{}
	declineNext  int
	failFinalize int
	orders       map[string][]models.Order

	requests     []string
	payKeys      []string
	finalizeKeys []string
	charges      map[string]int
}

func newFakeShop(t *testing.T) *fakeShop {
	return &fakeShop{
		t: t,
		products: map[string]fakeProduct{
			"p1": {Name: "Desk Lamp", Price: 100, Stock: 10},
			"p2": {Name: "Notebook", Price: 15, Stock: 10},
		},
		carts:      make(map[string][]fakeLine),
		sessions:   make(map[string]*fakeSession),
		methods:    make(map[string][]models.PaymentMethod),
		users:      make(map[string]models.AuthUser),
		failAddFor: make(map[string]bool),
		charges:    make(map[string]int),
		orders:     make(map[string][]models.Order),
	}
}

func (s *fakeShop) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (s *fakeShop) cartLines(customerID string) []fakeLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fakeLine(nil), s.carts[customerID]...)
}

func (s *fakeShop) setSessionStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id].Status = status
}

func (s *fakeShop) addSession(status string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = &fakeSession{ID: id, Status: status, Amount: decimal.NewFromInt(200)}
	return id
}

func (s *fakeShop) cartJSON(customerID string) map[string]interface{} {
	items := make([]map[string]interface{}, 0)
	total := decimal.Zero
	for _, line := range s.carts[customerID] {
		p := s.products[line.ProductID]
		price := decimal.NewFromInt(p.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, map[string]interface{}{
			"id":          "item-" + line.ProductID,
			"productId":   line.ProductID,
			"productName": p.Name,
			"quantity":    line.Quantity,
			"unitPrice":   p.Price,
			"subtotal":    subtotal.String(),
		})
	}
	return map[string]interface{}{
		"id":          "cart-" + customerID,
		"customerId":  customerID,
		"items":       items,
		"totalAmount": total.String(),
	}
}

func reply(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	var body map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		s.handleLogin(w, body)
	case r.Method == http.MethodGet && r.URL.Path == "/auth/me":
		s.handleMe(w, r)
	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "products":
		s.handleProduct(w, parts[1])
	case len(parts) >= 3 && parts[0] == "customers" && parts[2] == "cart":
		s.handleCart(w, r, parts, body)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "customers" && parts[2] == "orders":
		s.mu.Lock()
		orders := append([]models.Order{}, s.orders[parts[1]]...)
		s.mu.Unlock()
		reply(w, http.StatusOK, orders)
	case len(parts) == 3 && parts[0] == "customers" && parts[2] == "payment-methods":
		s.handleMethods(w, r, parts[1], body)
	case len(parts) >= 2 && parts[0] == "checkout" && parts[1] == "sessions":
		s.handleSession(w, r, parts, body)
	default:
		reply(w, http.StatusNotFound, map[string]string{"message": "not found: " + r.URL.Path})
	}
}

func (s *fakeShop) handleLogin(w http.ResponseWriter, body map[string]interface{}) {
	email, _ := body["email"].(string)
	s.mu.Lock()
	user, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	reply(w, http.StatusOK, models.AuthResponse{
		TokenType:   "Bearer",
		AccessToken: "token-" + email,
		User:        user,
	})
}

func (s *fakeShop) handleMe(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	user, ok := s.users[strings.TrimPrefix(token, "token-")]
	s.mu.Unlock()
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	reply(w, http.StatusOK, user)
}

func (s *fakeShop) handleProduct(w http.ResponseWriter, id string) {
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		reply(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
		return
	}
	reply(w, http.StatusOK, map[string]interface{}{"id": id, "name": p.Name, "price": p.Price, "stockQuantity": p.Stock, "active": true})
}

func (s *fakeShop) handleCart(w http.ResponseWriter, r *http.Request, parts []string, body map[string]interface{}) {
	customerID := parts[1]
	if r.Method == http.MethodPost && len(parts) == 4 {
		productID, _ := body["productId"].(string)
		quantity := int(body["quantity"].(float64))
		if s.addArrived != nil {
			s.addArrived <- struct{}{}
		}
		if s.addGate != nil {
			<-s.addGate
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failAddFor[productID] {
			reply(w, http.StatusConflict, map[string]string{"message": "Insufficient stock"})
			return
		}
		lines := s.carts[customerID]
		found := false
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity += quantity
				found = true
			}
		}
		if !found {
			lines = append(lines, fakeLine{ProductID: productID, Quantity: quantity})
		}
		s.carts[customerID] = lines
		reply(w, http.StatusOK, s.cartJSON(customerID))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && len(parts) == 3:
		reply(w, http.StatusOK, s.cartJSON(customerID))
	case r.Method == http.MethodPatch && len(parts) == 5:
		productID := strings.TrimPrefix(parts[4], "item-")
		quantity := int(body["quantity"].(float64))
		if quantity > s.products[productID].Stock {
			reply(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Only %d in stock", s.products[productID].Stock)})
			return
		}
		for i, line := range s.carts[customerID] {
			if line.ProductID == productID {
				s.carts[customerID][i].Quantity = quantity
			}
		}
		reply(w, http.StatusOK, s.cartJSON(customerID))
	case r.Method == http.MethodDelete && len(parts) == 5:
		productID := strings.TrimPrefix(parts[4], "item-")
		kept := s.carts[customerID][:0]
		for _, line := range s.carts[customerID] {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		s.carts[customerID] = kept
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && len(parts) == 3:
		delete(s.carts, customerID)
		reply(w, http.StatusOK, s.cartJSON(customerID))
	default:
		reply(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

func (s *fakeShop) handleMethods(w http.ResponseWriter, r *http.Request, customerID string, body map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Method == http.MethodGet {
		methods := s.methods[customerID]
		if methods == nil {
			methods = []models.PaymentMethod{}
		}
		reply(w, http.StatusOK, methods)
		return
	}
	number, _ := body["cardNumber"].(string)
	last4 := number
	if len(number) > 4 {
		last4 = number[len(number)-4:]
	}
	method := models.PaymentMethod{
		ID:       models.ID(fmt.Sprintf("m%d", len(s.methods[customerID])+1)),
		Provider: "CARD",
		Last4:    last4,
		Enabled:  true,
	}
	s.methods[customerID] = append(s.methods[customerID], method)
	reply(w, http.StatusCreated, method)
}

func (s *fakeShop) handleSession(w http.ResponseWriter, r *http.Request, parts []string, body map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(parts) == 2 && r.Method == http.MethodPost {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user := s.users[strings.TrimPrefix(token, "token-")]
		customerID := user.CustomerID.String()
		session := &fakeSession{ID: uuid.NewString(), Status: "INITIATED", Items: append([]fakeLine(nil), s.carts[customerID]...)}
		for _, line := range session.Items {
			session.Amount = session.Amount.Add(decimal.NewFromInt(s.products[line.ProductID].Price * int64(line.Quantity)))
		}
		s.sessions[session.ID] = session
		reply(w, http.StatusCreated, map[string]interface{}{"checkoutSessionId": session.ID, "status": session.Status, "amount": session.Amount.String()})
		return
	}
	session, ok := s.sessions[parts[2]]
	if !ok {
		reply(w, http.StatusNotFound, map[string]string{"message": "Checkout session not found"})
		return
	}
	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		reply(w, http.StatusOK, map[string]interface{}{"id": session.ID, "status": session.Status, "amount": session.Amount.String()})
	case len(parts) == 4 && parts[3] == "pay":
		key, _ := body["idempotencyKey"].(string)
		s.payKeys = append(s.payKeys, key)
		if s.declineNext > 0 {
			s.declineNext--
			session.Status = "FAILED"
			reply(w, http.StatusOK, map[string]string{"status": "DECLINED", "gatewayResponseCode": "51", "gatewayMessage": "Insufficient funds"})
			return
		}
		s.charges[key]++
		session.Status = "APPROVED"
		reply(w, http.StatusOK, map[string]string{"status": "APPROVED", "transactionId": "tx-1"})
	case len(parts) == 4 && parts[3] == "finalize":
		key, _ := body["idempotencyKey"].(string)
		s.finalizeKeys = append(s.finalizeKeys, key)
		if s.failFinalize > 0 {
			s.failFinalize--
			reply(w, http.StatusServiceUnavailable, map[string]string{"message": "Order service unavailable"})
			return
		}
		if session.Status != "APPROVED" {
			reply(w, http.StatusConflict, map[string]string{"message": "Checkout session is not approved"})
			return
		}
		session.Status = "CONSUMED"
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		customerID := s.users[strings.TrimPrefix(token, "token-")].CustomerID.String()
		delete(s.carts, customerID)
		s.orders[customerID] = append(s.orders[customerID], models.Order{
			ID:          "501",
			OrderNumber: "ORD-501",
			Status:      "PENDING",
			TotalAmount: models.NewMoneyFromDecimal(session.Amount),
			CustomerID:  models.ID(customerID),
		})
		reply(w, http.StatusOK, map[string]interface{}{"orderId": 501, "orderNumber": "ORD-501"})
	default:
		reply(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

type testEnv struct {
	shop   *fakeShop
	client *api.Client
	slots  *repository.GormSlotRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	shop := newFakeShop(t)
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)

	db, err := models.OpenDB("sqlite", filepath.Join(t.TempDir(), "slots.db"), models.DBPoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	return &testEnv{
		shop:   shop,
		client: api.New(gateway.New(gateway.Options{BaseURL: srv.URL})),
		slots:  repository.NewSlotRepository(db),
	}
}

func (e *testEnv) coordinator() *CartCoordinator {
	return NewCartCoordinator(e.client, NewGuestCartStore(e.slots, "ecommerce_guest_cart_v1"))
}

func customerIdentity(customerID string) Identity {
	return Identity{Token: "token-" + customerID + "@example.com", CustomerID: customerID, HasUser: true}
}

func (e *testEnv) addUser(customerID string, roles ...string) models.AuthUser {
	if len(roles) == 0 {
		roles = []string{"ROLE_CUSTOMER"}
	}
	user := models.AuthUser{
		ID:         models.ID("u" + customerID),
		Email:      customerID + "@example.com",
		FullName:   "Customer " + customerID,
		Roles:      roles,
		CustomerID: models.ID(customerID),
	}
	e.shop.mu.Lock()
	e.shop.users[user.Email] = user
	e.shop.mu.Unlock()
	return user
}
