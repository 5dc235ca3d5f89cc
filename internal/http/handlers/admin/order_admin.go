package admin

import (
	"slices"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 推进订单状态，status 为空时进入下一履约状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// AdminOrderView 管理端订单列表项
type AdminOrderView struct {
	models.Order
	StatusLabel string `json:"status_label"`
	NextStatus  string `json:"next_status"`
}

// ListOrders 全部订单，可按 status 过滤
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.API.AdminListOrders(c.Request.Context(), h.token())
	if err != nil {
		respondBackendError(c, err, "Failed to load orders.")
		return
	}
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		if status != "" && order.Status != status {
			continue
		}
		views = append(views, AdminOrderView{
			Order:       order,
			StatusLabel: service.OrderStatusLabel(order.Status, true),
			NextStatus:  service.NextOrderStatus(order.Status),
		})
	}
	response.Success(c, views)
}

// GetOrderTracking 订单轨迹
func (h *Handler) GetOrderTracking(c *gin.Context) {
	tracking, err := h.API.AdminGetOrderTracking(c.Request.Context(), h.token(), c.Param("id"))
	if err != nil {
		respondBackendError(c, err, "Failed to load order tracking.")
		return
	}
	response.Success(c, gin.H{
		"tracking":     tracking,
		"status_label": service.OrderStatusLabel(tracking.CurrentStatus, tracking.PaymentApproved),
		"next_status":  service.NextOrderStatus(tracking.CurrentStatus),
	})
}

// UpdateOrderStatus 更新订单履约状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body.", nil)
		return
	}
	ctx := c.Request.Context()
	orderID := c.Param("id")

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		tracking, err := h.API.AdminGetOrderTracking(ctx, h.token(), orderID)
		if err != nil {
			respondBackendError(c, err, "Failed to load order tracking.")
			return
		}
		status = service.NextOrderStatus(tracking.CurrentStatus)
		if status == "" {
			respondError(c, response.CodeConflict, "Order has no further status.", nil)
			return
		}
	}
	if status != constants.OrderStatusCancelled && !slices.Contains(service.OrderTrackingFlow, status) {
		respondError(c, response.CodeBadRequest, "Unknown order status.", nil)
		return
	}

	order, err := h.API.AdminUpdateOrderStatus(ctx, h.token(), orderID, status)
	if err != nil {
		respondBackendError(c, err, "Failed to update order status.")
		return
	}
	response.Success(c, AdminOrderView{
		Order:       *order,
		StatusLabel: service.OrderStatusLabel(order.Status, true),
		NextStatus:  service.NextOrderStatus(order.Status),
	})
}
