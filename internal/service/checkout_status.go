package service

import "github.com/storefront-next/internal/constants"

// CanPaySession 会话是否仍可发起支付
func CanPaySession(status string) bool {
	switch status {
	case constants.CheckoutStatusInitiated,
		constants.CheckoutStatusPaymentPending,
		constants.CheckoutStatusFailed:
		return true
	}
	return false
}

// IsTerminalSession 会话是否已终结
func IsTerminalSession(status string) bool {
	return status == constants.CheckoutStatusExpired || status == constants.CheckoutStatusConsumed
}

// SessionStatusLabel 会话状态展示文案
func SessionStatusLabel(status string) string {
	switch status {
	case constants.CheckoutStatusInitiated:
		return "Awaiting Payment"
	case constants.CheckoutStatusPaymentPending:
		return "Payment Pending"
	case constants.CheckoutStatusApproved:
		return "Approved - Ready to Finalize"
	case constants.CheckoutStatusFailed:
		return "Payment Failed"
	case constants.CheckoutStatusExpired:
		return "Session Expired"
	case constants.CheckoutStatusConsumed:
		return "Order Created"
	case "":
		return "Unknown"
	}
	return status
}
