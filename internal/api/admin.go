package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// AdminListOrders 全部订单
func (c *Client) AdminListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var out []models.Order
	if err := c.get(ctx, "/admin/orders", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminGetOrderTracking 管理端订单轨迹
func (c *Client) AdminGetOrderTracking(ctx context.Context, token, orderID string) (*models.OrderTracking, error) {
	var out models.OrderTracking
	if err := c.get(ctx, adminOrderPath(orderID, "tracking"), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateOrderStatus 推进订单履约状态
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, token, orderID, status string) (*models.Order, error) {
	var out models.Order
	err := c.mutate(ctx, http.MethodPatch, adminOrderPath(orderID, "status"), token, map[string]string{"status": status}, &out,
		"/admin/orders",
		orderPath(orderID),
		orderPath(orderID, "tracking"),
		adminOrderPath(orderID, "tracking"),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminListUsers 用户列表
func (c *Client) AdminListUsers(ctx context.Context, token string) ([]models.AdminUser, error) {
	var out []models.AdminUser
	if err := c.get(ctx, "/admin/users", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminSetUserAccess 启用或禁用用户
func (c *Client) AdminSetUserAccess(ctx context.Context, token, userID string, enabled bool) (*models.AdminUser, error) {
	var out models.AdminUser
	path := withEnabled(join("admin", "users", userID, "access"), enabled)
	if err := c.mutate(ctx, http.MethodPatch, path, token, nil, &out, "/admin/users"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateUser 更新用户
func (c *Client) AdminUpdateUser(ctx context.Context, token, userID string, input models.AdminUserUpdateInput) (*models.AdminUser, error) {
	var out models.AdminUser
	if err := c.mutate(ctx, http.MethodPut, join("admin", "users", userID), token, input, &out, "/admin/users"); err != nil {
		return nil, err
	}
	return &out, nil
}
