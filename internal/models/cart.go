package models

import "strings"

// CartItem 购物车项
type CartItem struct {
	ID          ID     `json:"id"`
	ProductID   ID     `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
	Subtotal    Money  `json:"subtotal"`
}

// Cart 购物车视图
// TotalAmount 仅作展示，服务端数据缺失时由 ComputeTotal 重新计算
type Cart struct {
	ID          ID         `json:"id"`
	CustomerID  ID         `json:"customerId"`
	Items       []CartItem `json:"items"`
	TotalAmount Money      `json:"totalAmount"`
}

// ItemQuantity 购物车商品总件数
func (c *Cart) ItemQuantity() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// ComputeTotal 根据购物车项重新计算总额
func (c *Cart) ComputeTotal() Money {
	total := Money{}
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		total = total.Plus(item.UnitPrice.Times(item.Quantity))
	}
	return total
}

// GuestCartEntry 游客购物车条目（持久化在本地槽位）
type GuestCartEntry struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName"`
	UnitPrice   Money  `json:"unitPrice"`
}

// Valid 条目是否满足持久化约束
func (e GuestCartEntry) Valid() bool {
	return strings.TrimSpace(e.ProductID) != "" &&
		e.Quantity > 0 &&
		!e.UnitPrice.IsNegative()
}

// ToCartItem 转换为购物车项，游客条目以商品 ID 作为条目 ID
func (e GuestCartEntry) ToCartItem() CartItem {
	return CartItem{
		ID:          ID(e.ProductID),
		ProductID:   ID(e.ProductID),
		ProductName: e.ProductName,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		Subtotal:    e.UnitPrice.Times(e.Quantity),
	}
}
