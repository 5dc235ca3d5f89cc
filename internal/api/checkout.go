package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// PayInput 会话支付请求体
type PayInput struct {
	PaymentMethodID string `json:"paymentMethodId"`
	CVV             string `json:"cvv"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

// CreateCheckoutSession 以当前购物车创建结账会话
// 响应中的 id / sessionId / checkoutSessionId 统一回填到 ID
func (c *Client) CreateCheckoutSession(ctx context.Context, token string) (*models.CheckoutSession, error) {
	var out models.CheckoutSession
	if err := c.mutate(ctx, http.MethodPost, "/checkout/sessions", token, struct{}{}, &out); err != nil {
		return nil, err
	}
	resolved := out.ResolvedID()
	if resolved.IsZero() {
		return nil, ErrSessionIDMissing
	}
	out.ID = resolved
	return &out, nil
}

// GetCheckoutSession 查询结账会话
func (c *Client) GetCheckoutSession(ctx context.Context, token, sessionID string) (*models.CheckoutSession, error) {
	var out models.CheckoutSession
	if err := c.get(ctx, sessionPath(sessionID), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PayCheckoutSession 支付结账会话，拒付以结果返回而非错误
func (c *Client) PayCheckoutSession(ctx context.Context, token, sessionID string, input PayInput) (*models.CheckoutSessionPayResponse, error) {
	var out models.CheckoutSessionPayResponse
	if err := c.mutate(ctx, http.MethodPost, sessionPath(sessionID, "pay"), token, input, &out, sessionPath(sessionID)); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinalizeCheckoutSession 完成结账生成订单，幂等键须与支付时一致
func (c *Client) FinalizeCheckoutSession(ctx context.Context, token, sessionID, idempotencyKey string) (*models.FinalizeCheckoutSessionResponse, error) {
	var out models.FinalizeCheckoutSessionResponse
	body := map[string]string{"idempotencyKey": idempotencyKey}
	if err := c.gw.Request(ctx, http.MethodPost, sessionPath(sessionID, "finalize"), token, body, &out); err != nil {
		return nil, err
	}
	orderID := out.OrderID.String()
	c.gw.Invalidate(ctx,
		sessionPath(sessionID),
		"/admin/orders",
		orderPath(orderID),
		orderPath(orderID, "tracking"),
	)
	return &out, nil
}
