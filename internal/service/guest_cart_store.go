package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// GuestCartStore 游客购物车槽位
type GuestCartStore struct {
	slots repository.SlotRepository
	key   string
}

// NewGuestCartStore 创建游客购物车存储
func NewGuestCartStore(slots repository.SlotRepository, key string) *GuestCartStore {
	return &GuestCartStore{slots: slots, key: key}
}

// storedGuestEntry 读取时用指针区分缺失字段
type storedGuestEntry struct {
	ProductID   *string       `json:"productId"`
	Quantity    *float64      `json:"quantity"`
	ProductName *string       `json:"productName"`
	UnitPrice   *models.Money `json:"unitPrice"`
}

// Read 读取游客购物车，格式错误的条目被静默丢弃
func (s *GuestCartStore) Read(ctx context.Context) ([]models.GuestCartEntry, error) {
	raw, ok, err := s.slots.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Debugw("guest_cart_slot_malformed", "key", s.key, "error", err)
		return nil, nil
	}
	entries := make([]models.GuestCartEntry, 0, len(items))
	for _, item := range items {
		var stored storedGuestEntry
		if err := json.Unmarshal(item, &stored); err != nil {
			continue
		}
		entry, ok := stored.toEntry()
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e storedGuestEntry) toEntry() (models.GuestCartEntry, bool) {
	if e.ProductID == nil || e.Quantity == nil || e.ProductName == nil || e.UnitPrice == nil {
		return models.GuestCartEntry{}, false
	}
	q := *e.Quantity
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return models.GuestCartEntry{}, false
	}
	entry := models.GuestCartEntry{
		ProductID:   *e.ProductID,
		Quantity:    clampQuantity(q),
		ProductName: *e.ProductName,
		UnitPrice:   *e.UnitPrice,
	}
	return entry, entry.Valid()
}

// Write 覆盖写入游客购物车
func (s *GuestCartStore) Write(ctx context.Context, entries []models.GuestCartEntry) error {
	if entries == nil {
		entries = []models.GuestCartEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.slots.Put(ctx, s.key, string(payload))
}

// Clear 删除游客购物车槽位
func (s *GuestCartStore) Clear(ctx context.Context) error {
	return s.slots.Delete(ctx, s.key)
}

// clampQuantity 截断小数并保证至少为 1
func clampQuantity(q float64) int {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 1
	}
	t := math.Trunc(q)
	if t < 1 {
		return 1
	}
	if t > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(t)
}

// guestCartView 把游客条目渲染为购物车视图
func guestCartView(entries []models.GuestCartEntry) *models.Cart {
	cart := &models.Cart{
		ID:         models.ID(constants.GuestCartID),
		CustomerID: models.ID(constants.GuestCustomerID),
		Items:      make([]models.CartItem, 0, len(entries)),
	}
	for _, entry := range entries {
		cart.Items = append(cart.Items, entry.ToCartItem())
	}
	cart.TotalAmount = cart.ComputeTotal()
	return cart
}
