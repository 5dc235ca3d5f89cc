package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// GetCart 客户购物车
func (c *Client) GetCart(ctx context.Context, token, customerID string) (*models.Cart, error) {
	var out models.Cart
	if err := c.get(ctx, customerPath(customerID, "cart"), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart 加购
func (c *Client) AddToCart(ctx context.Context, token, customerID, productID string, quantity int) (*models.Cart, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	return c.cartMutation(ctx, http.MethodPost, token, customerID, customerPath(customerID, "cart", "items"), body)
}

// UpdateCartItem 修改购物车项数量
func (c *Client) UpdateCartItem(ctx context.Context, token, customerID, itemID string, quantity int) (*models.Cart, error) {
	body := map[string]int{"quantity": quantity}
	return c.cartMutation(ctx, http.MethodPatch, token, customerID, customerPath(customerID, "cart", "items", itemID), body)
}

// RemoveCartItem 删除购物车项
func (c *Client) RemoveCartItem(ctx context.Context, token, customerID, itemID string) (*models.Cart, error) {
	return c.cartMutation(ctx, http.MethodDelete, token, customerID, customerPath(customerID, "cart", "items", itemID), nil)
}

// ClearCart 清空购物车
func (c *Client) ClearCart(ctx context.Context, token, customerID string) (*models.Cart, error) {
	return c.cartMutation(ctx, http.MethodDelete, token, customerID, customerPath(customerID, "cart"), nil)
}

// InvalidateCart 丢弃客户购物车的缓存，服务端在别处改动购物车后使用
func (c *Client) InvalidateCart(ctx context.Context, customerID string) {
	c.gw.Invalidate(ctx, customerPath(customerID, "cart"))
}

// cartMutation 写购物车，响应体可能为空，此时返回 nil
func (c *Client) cartMutation(ctx context.Context, method, token, customerID, path string, body interface{}) (*models.Cart, error) {
	var out *models.Cart
	if err := c.mutate(ctx, method, path, token, body, &out, customerPath(customerID, "cart")); err != nil {
		return nil, err
	}
	return out, nil
}
