package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PayRequest 支付请求，payment_method_id 为空时沿用当前选择
type PayRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	CVV             string `json:"cvv" binding:"required"`
}

// AddPaymentMethodRequest 新增银行卡请求
type AddPaymentMethodRequest struct {
	Provider       string `json:"provider"`
	CardHolderName string `json:"card_holder_name" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required"`
	Brand          string `json:"brand"`
	ExpiryMonth    int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" binding:"required"`
	BillingAddress string `json:"billing_address"`
	DefaultMethod  bool   `json:"default_method"`
}

// CheckoutView 支付页状态
type CheckoutView struct {
	SessionID        string                  `json:"session_id"`
	Session          *models.CheckoutSession `json:"session"`
	StatusLabel      string                  `json:"status_label"`
	CanPay           bool                    `json:"can_pay"`
	PaymentMethods   []models.PaymentMethod  `json:"payment_methods"`
	SelectedMethodID string                  `json:"selected_method_id"`
}

// PayView 支付结果与支付后的会话状态
type PayView struct {
	Result   *service.PaymentResult `json:"result"`
	Checkout CheckoutView           `json:"checkout"`
}

func newCheckoutView(flow *service.PaymentFlow) CheckoutView {
	session := flow.Session()
	view := CheckoutView{
		SessionID:        flow.SessionID(),
		Session:          session,
		CanPay:           flow.CanPay(),
		PaymentMethods:   flow.PaymentMethods(),
		SelectedMethodID: flow.SelectedMethodID(),
	}
	if session != nil {
		view.StatusLabel = service.SessionStatusLabel(session.Status)
	}
	if view.PaymentMethods == nil {
		view.PaymentMethods = []models.PaymentMethod{}
	}
	return view
}

// GetCheckout 获取结账会话，已打开的会话会重新加载
func (h *Handler) GetCheckout(c *gin.Context) {
	flow, err := h.Checkout.Refresh(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load checkout session.")
		return
	}
	response.Success(c, newCheckoutView(flow))
}

// PayCheckout 支付结账会话；拒付以成功响应返回，由 result.approved 区分
func (h *Handler) PayCheckout(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, guardMessage(service.ErrCVVInvalid), nil)
		return
	}
	flow, err := h.Checkout.Open(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load checkout session.")
		return
	}
	if methodID := strings.TrimSpace(req.PaymentMethodID); methodID != "" {
		flow.SelectMethod(methodID)
	}

	result, err := flow.Pay(c.Request.Context(), strings.TrimSpace(req.CVV))
	if err != nil {
		respondServiceError(c, err, "Payment failed.")
		return
	}
	view := PayView{Result: result, Checkout: newCheckoutView(flow)}
	if session := flow.Session(); session != nil && service.IsTerminalSession(session.Status) {
		h.Checkout.Forget(flow.SessionID())
	}
	response.SuccessWithMsg(c, result.Message, view)
}

// FinalizeCheckout 为已批准的会话生成订单
func (h *Handler) FinalizeCheckout(c *gin.Context) {
	flow, err := h.Checkout.Refresh(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load checkout session.")
		return
	}
	result, err := flow.Finalize(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to create order.")
		return
	}
	view := PayView{Result: result, Checkout: newCheckoutView(flow)}
	if session := flow.Session(); session != nil && service.IsTerminalSession(session.Status) {
		h.Checkout.Forget(flow.SessionID())
	}
	response.SuccessWithMsg(c, result.Message, view)
}

// AddPaymentMethod 在支付页新增银行卡并选中
func (h *Handler) AddPaymentMethod(c *gin.Context) {
	var req AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid card details.", nil)
		return
	}
	flow, err := h.Checkout.Open(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load checkout session.")
		return
	}
	method, err := flow.AddPaymentMethod(c.Request.Context(), models.PaymentMethodInput{
		Provider:       strings.TrimSpace(req.Provider),
		CardHolderName: strings.TrimSpace(req.CardHolderName),
		CardNumber:     strings.ReplaceAll(req.CardNumber, " ", ""),
		Brand:          strings.TrimSpace(req.Brand),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		BillingAddress: strings.TrimSpace(req.BillingAddress),
		DefaultMethod:  req.DefaultMethod,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to add payment method.")
		return
	}
	response.Success(c, gin.H{"method": method, "checkout": newCheckoutView(flow)})
}
