package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
)

// OrderTrackingFlow 订单履约顺序
var OrderTrackingFlow = []string{
	constants.OrderStatusReceived,
	constants.OrderStatusProcessing,
	constants.OrderStatusShipped,
	constants.OrderStatusInTransit,
	constants.OrderStatusOutForDelivery,
	constants.OrderStatusDelivered,
}

// OrderStatusLabel 订单状态展示文案，未付款的新订单显示为待支付
func OrderStatusLabel(status string, paymentApproved bool) string {
	switch status {
	case constants.OrderStatusReceived:
		if paymentApproved {
			return "Order Received"
		}
		return "Awaiting Payment"
	case constants.OrderStatusProcessing:
		return "Processing / Packing"
	case constants.OrderStatusShipped:
		return "Shipped"
	case constants.OrderStatusInTransit:
		return "In Transit"
	case constants.OrderStatusOutForDelivery:
		return "Out for Delivery"
	case constants.OrderStatusDelivered:
		return "Delivered"
	case constants.OrderStatusCancelled:
		return "Cancelled"
	}
	return strings.ReplaceAll(status, "_", " ")
}

// NextOrderStatus 下一个履约状态，已到末尾或未知状态返回空串
func NextOrderStatus(status string) string {
	for i, s := range OrderTrackingFlow {
		if s == status {
			if i+1 < len(OrderTrackingFlow) {
				return OrderTrackingFlow[i+1]
			}
			return ""
		}
	}
	return ""
}
