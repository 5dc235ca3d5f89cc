package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyUnmarshalNumberAndString(t *testing.T) {
	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":19.999,"b":"5.5"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.A.String() != "20.00" {
		t.Fatalf("unexpected number amount: %s", payload.A.String())
	}
	if payload.B.String() != "5.50" {
		t.Fatalf("unexpected string amount: %s", payload.B.String())
	}
}

func TestMoneyTimesAndPlus(t *testing.T) {
	unit := NewMoneyFromInt(100)
	total := unit.Times(2).Plus(NewMoneyFromFloat(0.5))
	if !total.Equal(decimal.RequireFromString("200.50")) {
		t.Fatalf("unexpected total: %s", total.String())
	}
	body, err := json.Marshal(total)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != `"200.50"` {
		t.Fatalf("unexpected json: %s", string(body))
	}
}
