package service

import "errors"

// 购物车 / 结账守卫错误，在发起任何网络请求前返回
var (
	ErrAuthRequired          = errors.New("cart requires login")
	ErrCheckoutLoginRequired = errors.New("checkout requires login")
	ErrGuestCheckout         = errors.New("guest cart cannot check out")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrSessionIDInvalid      = errors.New("invalid checkout session id")
	ErrSessionNotLoaded      = errors.New("checkout session not loaded")
	ErrSessionNotPayable     = errors.New("checkout session not payable")
	ErrSessionNotApproved    = errors.New("checkout session not approved")
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrCVVInvalid            = errors.New("invalid cvv")
	ErrPaymentInProgress     = errors.New("payment already in progress")
)
