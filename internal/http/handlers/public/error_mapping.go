package public

import (
	"errors"

	"github.com/storefront-next/internal/api"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误码与展示文案的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var guardErrorRules = []mappedHandlerError{
	{target: service.ErrAuthRequired, code: response.CodeUnauthorized, msg: "Login to use cart."},
	{target: service.ErrCheckoutLoginRequired, code: response.CodeUnauthorized, msg: "Login to checkout."},
	{target: service.ErrGuestCheckout, code: response.CodeUnauthorized, msg: "Login to checkout. Your guest cart will be merged automatically."},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "Quantity must be a positive whole number."},
	{target: service.ErrSessionIDInvalid, code: response.CodeBadRequest, msg: "Invalid checkout session. Start checkout again from the cart page."},
	{target: service.ErrPaymentMethodRequired, code: response.CodeBadRequest, msg: "Choose a payment method first."},
	{target: service.ErrCVVInvalid, code: response.CodeBadRequest, msg: "Enter a valid CVV (3 or 4 digits)."},
	{target: service.ErrSessionNotLoaded, code: response.CodeConflict, msg: "Checkout session is not loaded."},
	{target: service.ErrSessionNotPayable, code: response.CodeConflict, msg: "This checkout session can no longer be paid."},
	{target: service.ErrSessionNotApproved, code: response.CodeConflict, msg: "This checkout session has not been approved yet."},
	{target: service.ErrPaymentInProgress, code: response.CodeConflict, msg: "A payment attempt is already in progress."},
	{target: api.ErrSessionIDMissing, code: response.CodeBadGateway, msg: "Checkout session response is missing session ID."},
}

// guardMessage 守卫错误的展示文案
func guardMessage(target error) string {
	for _, rule := range guardErrorRules {
		if rule.target == target {
			return rule.msg
		}
	}
	return target.Error()
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 先匹配守卫错误，其余交给后端错误映射
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	for _, rule := range guardErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	handlershared.RespondBackendError(c, err, fallbackMsg)
}
