package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// InvalidateOrders 丢弃客户订单列表缓存，结账生成订单后调用
func (c *Client) InvalidateOrders(ctx context.Context, customerID string) {
	c.gw.Invalidate(ctx, customerPath(customerID, "orders"))
}

// ListOrders 客户订单列表
func (c *Client) ListOrders(ctx context.Context, token, customerID string) ([]models.Order, error) {
	var out []models.Order
	if err := c.get(ctx, customerPath(customerID, "orders"), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder 订单详情
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	var out models.Order
	if err := c.get(ctx, orderPath(orderID), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrderTracking 订单轨迹
func (c *Client) GetOrderTracking(ctx context.Context, token, orderID string) (*models.OrderTracking, error) {
	var out models.OrderTracking
	if err := c.get(ctx, orderPath(orderID, "tracking"), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPaymentMethods 客户支付方式
func (c *Client) ListPaymentMethods(ctx context.Context, token, customerID string) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	if err := c.get(ctx, customerPath(customerID, "payment-methods"), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePaymentMethod 新增支付方式
func (c *Client) CreatePaymentMethod(ctx context.Context, token, customerID string, input models.PaymentMethodInput) (*models.PaymentMethod, error) {
	var out models.PaymentMethod
	path := customerPath(customerID, "payment-methods")
	if err := c.mutate(ctx, http.MethodPost, path, token, input, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetDefaultPaymentMethod 设为默认支付方式
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, token, customerID, methodID string) (*models.PaymentMethod, error) {
	var out models.PaymentMethod
	path := customerPath(customerID, "payment-methods", methodID, "default")
	if err := c.mutate(ctx, http.MethodPatch, path, token, nil, &out, customerPath(customerID, "payment-methods")); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPaymentMethodEnabled 启用或停用支付方式
func (c *Client) SetPaymentMethodEnabled(ctx context.Context, token, customerID, methodID string, enabled bool) (*models.PaymentMethod, error) {
	var out models.PaymentMethod
	path := withEnabled(customerPath(customerID, "payment-methods", methodID, "access"), enabled)
	if err := c.mutate(ctx, http.MethodPatch, path, token, nil, &out, customerPath(customerID, "payment-methods")); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessOrderPayment 对已有订单直接扣款
func (c *Client) ProcessOrderPayment(ctx context.Context, token, orderID, methodID, cvv string) (*models.PaymentTransaction, error) {
	var out models.PaymentTransaction
	body := map[string]string{"paymentMethodId": methodID, "cvv": cvv}
	err := c.mutate(ctx, http.MethodPost, orderPath(orderID, "payments"), token, body, &out,
		orderPath(orderID, "payments"),
		orderPath(orderID),
		orderPath(orderID, "tracking"),
		"/admin/orders",
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrderPayments 订单支付流水
func (c *Client) ListOrderPayments(ctx context.Context, token, orderID string) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	if err := c.get(ctx, orderPath(orderID, "payments"), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCustomerPayments 客户支付流水
func (c *Client) ListCustomerPayments(ctx context.Context, token, customerID string) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	if err := c.get(ctx, customerPath(customerID, "payments"), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}
