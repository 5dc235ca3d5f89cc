package public

import (
	"strings"

	"github.com/storefront-next/internal/api"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ForgotPasswordRequest 申请重置密码
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest 使用验证码重置密码
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// VerifyOTPRequest 校验验证码
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
	Type  string `json:"type"`
}

// UpdateProfileRequest 更新客户资料
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register 注册并直接登录
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Name, email and password are required.", nil)
		return
	}
	err := h.Auth.Register(c.Request.Context(), models.RegisterInput{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	})
	if err != nil {
		respondServiceError(c, err, "Registration failed.")
		return
	}
	response.Success(c, h.snapshot())
}

// ForgotPassword 发送重置验证码
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email is required.", nil)
		return
	}
	if err := h.API.ForgotPassword(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		respondServiceError(c, err, "Failed to send reset code.")
		return
	}
	response.SuccessWithMsg(c, "If the email exists, a reset code has been sent.", nil)
}

// ResetPassword 重置密码，完成后需重新登录
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email, code and new password are required.", nil)
		return
	}
	_, err := h.API.ResetPassword(c.Request.Context(), api.ResetPasswordInput{
		Email:       strings.TrimSpace(req.Email),
		Code:        strings.TrimSpace(req.Code),
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to reset password.")
		return
	}
	response.SuccessWithMsg(c, "Password updated. Please log in.", nil)
}

// VerifyOTP 校验验证码
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email and code are required.", nil)
		return
	}
	otpType := strings.TrimSpace(req.Type)
	if otpType == "" {
		otpType = "PASSWORD_RESET"
	}
	valid, err := h.API.VerifyOTP(c.Request.Context(), api.VerifyOTPInput{
		Email: strings.TrimSpace(req.Email),
		Code:  strings.TrimSpace(req.Code),
		Type:  otpType,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to verify code.")
		return
	}
	response.Success(c, gin.H{"valid": valid})
}

// GetProfile 当前客户资料
func (h *Handler) GetProfile(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view your profile.")
	if !ok {
		return
	}
	profile, err := h.API.GetCustomer(c.Request.Context(), identity.Token, identity.CustomerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile.")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新客户资料后刷新登录用户
func (h *Handler) UpdateProfile(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to update your profile.")
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Name and email are required.", nil)
		return
	}
	profile, err := h.API.UpdateCustomer(c.Request.Context(), identity.Token, identity.CustomerID, api.CustomerUpdateInput{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update profile.")
		return
	}
	if err := h.Auth.RefreshUser(c.Request.Context()); err != nil {
		handlershared.RequestLog(c).Warnw("profile_user_refresh_failed", "error", err)
	}
	response.Success(c, profile)
}

// ListPaymentMethods 客户已保存的支付方式
func (h *Handler) ListPaymentMethods(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to manage payment methods.")
	if !ok {
		return
	}
	methods, err := h.API.ListPaymentMethods(c.Request.Context(), identity.Token, identity.CustomerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load payment methods.")
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	response.Success(c, methods)
}

// SetDefaultPaymentMethod 设为默认支付方式
func (h *Handler) SetDefaultPaymentMethod(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to manage payment methods.")
	if !ok {
		return
	}
	method, err := h.API.SetDefaultPaymentMethod(c.Request.Context(), identity.Token, identity.CustomerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to update payment method.")
		return
	}
	response.Success(c, method)
}

// SetPaymentMethodAccess 启用或停用支付方式，enabled 缺省为 true
func (h *Handler) SetPaymentMethodAccess(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to manage payment methods.")
	if !ok {
		return
	}
	enabled := c.DefaultQuery("enabled", "true") != "false"
	method, err := h.API.SetPaymentMethodEnabled(c.Request.Context(), identity.Token, identity.CustomerID, c.Param("id"), enabled)
	if err != nil {
		respondServiceError(c, err, "Failed to update payment method.")
		return
	}
	response.Success(c, method)
}

// ListPayments 客户支付流水
func (h *Handler) ListPayments(c *gin.Context) {
	identity, ok := h.requireCustomer(c, "Login to view payments.")
	if !ok {
		return
	}
	payments, err := h.API.ListCustomerPayments(c.Request.Context(), identity.Token, identity.CustomerID)
	if err != nil {
		respondServiceError(c, err, "Failed to load payments.")
		return
	}
	if payments == nil {
		payments = []models.PaymentTransaction{}
	}
	response.Success(c, payments)
}
