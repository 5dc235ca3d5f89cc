package public

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderView 订单列表项
type OrderView struct {
	models.Order
	StatusLabel string `json:"status_label"`
}

// TrackingView 订单轨迹
type TrackingView struct {
	*models.OrderTracking
	StatusLabel string   `json:"status_label"`
	NextStatus  string   `json:"next_status"`
	Flow        []string `json:"flow"`
}

// PayOrderRequest 对已有订单扣款
type PayOrderRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	CVV             string `json:"cvv" binding:"required"`
}

// requireCustomer 需要已登录且处于客户视图
func (h *Handler) requireCustomer(c *gin.Context, msg string) (service.Identity, bool) {
	identity := h.Cart.Identity()
	if !identity.Authenticated() {
		respondError(c, response.CodeUnauthorized, msg, nil)
		return identity, false
	}
	return identity, true
}

// ListOrders 当前客户的订单
func (h *Handler) ListOrders(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view orders.")
	if !ok {
		return
	}
	orders, err := h.API.ListOrders(c.Request.Context(), identity.Token, identity.CustomerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load orders.")
		return
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, OrderView{Order: order, StatusLabel: service.OrderStatusLabel(order.Status, true)})
	}
	response.Success(c, views)
}

// GetOrderTracking 订单履约轨迹
func (h *Handler) GetOrderTracking(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view orders.")
	if !ok {
		return
	}
	tracking, err := h.API.GetOrderTracking(c.Request.Context(), identity.Token, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load order tracking.")
		return
	}
	response.Success(c, TrackingView{
		OrderTracking: tracking,
		StatusLabel:   service.OrderStatusLabel(tracking.CurrentStatus, tracking.PaymentApproved),
		NextStatus:    service.NextOrderStatus(tracking.CurrentStatus),
		Flow:          service.OrderTrackingFlow,
	})
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view orders.")
	if !ok {
		return
	}
	order, err := h.API.GetOrder(c.Request.Context(), identity.Token, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load order.")
		return
	}
	response.Success(c, OrderView{Order: *order, StatusLabel: service.OrderStatusLabel(order.Status, true)})
}

// ListOrderPayments 订单支付流水
func (h *Handler) ListOrderPayments(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view orders.")
	if !ok {
		return
	}
	payments, err := h.API.ListOrderPayments(c.Request.Context(), identity.Token, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load payments.")
		return
	}
	if payments == nil {
		payments = []models.PaymentTransaction{}
	}
	response.Success(c, payments)
}

// PayOrder 对待支付订单直接扣款；拒付同样返回流水
func (h *Handler) PayOrder(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to pay for orders.")
	if !ok {
		return
	}
	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, guardMessage(service.ErrPaymentMethodRequired), nil)
		return
	}
	cvv := strings.TrimSpace(req.CVV)
	if !service.ValidCVV(cvv) {
		respondError(c, response.CodeBadRequest, guardMessage(service.ErrCVVInvalid), nil)
		return
	}
	txn, err := h.API.ProcessOrderPayment(c.Request.Context(), identity.Token, c.Param("id"), strings.TrimSpace(req.PaymentMethodID), cvv)
	if err != nil {
		respondServiceError(c, err, "Payment failed.")
		return
	}
	msg := "Payment approved."
	if !strings.EqualFold(txn.Status, constants.PaymentResultApproved) {
		msg = strings.TrimSpace(txn.GatewayMessage)
		if msg == "" {
			msg = "Payment declined."
		}
	}
	response.SuccessWithMsg(c, msg, txn)
}
