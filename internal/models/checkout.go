package models

import (
	"strings"
	"time"
)

// CheckoutSessionItem 结账会话商品快照
type CheckoutSessionItem struct {
	ProductID   ID     `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
	Subtotal    Money  `json:"subtotal"`
}

// CheckoutSession 结账会话
// 后端可能以 id / sessionId / checkoutSessionId 任一字段返回标识
type CheckoutSession struct {
	ID                ID                    `json:"id,omitempty"`
	SessionID         ID                    `json:"sessionId,omitempty"`
	CheckoutSessionID ID                    `json:"checkoutSessionId,omitempty"`
	Status            string                `json:"status"`
	Amount            Money                 `json:"amount"`
	Items             []CheckoutSessionItem `json:"items"`
	CreatedAt         string                `json:"createdAt,omitempty"`
	ExpiresAt         string                `json:"expiresAt,omitempty"`
}

// ResolvedID 返回第一个非空的会话标识
func (s *CheckoutSession) ResolvedID() ID {
	if s == nil {
		return ""
	}
	for _, id := range []ID{s.ID, s.SessionID, s.CheckoutSessionID} {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}

// ItemQuantity 会话内商品总件数
func (s *CheckoutSession) ItemQuantity() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// ExpiresAtTime 解析过期时间，缺失或格式无法识别时返回 nil
func (s *CheckoutSession) ExpiresAtTime() *time.Time {
	if s == nil {
		return nil
	}
	return ParseTimestamp(s.ExpiresAt)
}

// CheckoutSessionPayResponse 支付结果
type CheckoutSessionPayResponse struct {
	Status              string `json:"status"`
	SessionStatus       string `json:"sessionStatus,omitempty"`
	TransactionID       ID     `json:"transactionId,omitempty"`
	GatewayResponseCode string `json:"gatewayResponseCode,omitempty"`
	GatewayMessage      string `json:"gatewayMessage,omitempty"`
}

// FinalizeCheckoutSessionResponse 完成结账返回
type FinalizeCheckoutSessionResponse struct {
	OrderID     ID     `json:"orderId"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Status      string `json:"status,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp 解析后端时间字符串（带或不带时区）
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
