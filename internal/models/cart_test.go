package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartQuantityAndTotal(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "1", Quantity: 2, UnitPrice: NewMoneyFromInt(100)},
		{ProductID: "2", Quantity: 1, UnitPrice: NewMoneyFromFloat(9.99)},
	}}
	if got := cart.ItemQuantity(); got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}
	if got := cart.ComputeTotal(); !got.Equal(decimal.RequireFromString("209.99")) {
		t.Fatalf("unexpected total: %s", got.String())
	}

	var nilCart *Cart
	if nilCart.ItemQuantity() != 0 || !nilCart.ComputeTotal().IsZero() {
		t.Fatalf("nil cart should be empty")
	}
}

func TestGuestCartEntryValid(t *testing.T) {
	cases := []struct {
		name  string
		entry GuestCartEntry
		want  bool
	}{
		{"ok", GuestCartEntry{ProductID: "p1", Quantity: 1, ProductName: "Tea", UnitPrice: NewMoneyFromInt(5)}, true},
		{"free", GuestCartEntry{ProductID: "p1", Quantity: 1, UnitPrice: NewMoneyFromInt(0)}, true},
		{"empty product", GuestCartEntry{ProductID: " ", Quantity: 1}, false},
		{"zero quantity", GuestCartEntry{ProductID: "p1", Quantity: 0}, false},
		{"negative price", GuestCartEntry{ProductID: "p1", Quantity: 1, UnitPrice: NewMoneyFromInt(-1)}, false},
	}
	for _, tc := range cases {
		if got := tc.entry.Valid(); got != tc.want {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestGuestCartEntryToCartItem(t *testing.T) {
	item := GuestCartEntry{ProductID: "p1", Quantity: 2, ProductName: "Tea", UnitPrice: NewMoneyFromInt(100)}.ToCartItem()
	if item.ID != "p1" || item.ProductID != "p1" {
		t.Fatalf("guest item should use product id as id: %+v", item)
	}
	if !item.Subtotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected subtotal: %s", item.Subtotal.String())
	}
}
