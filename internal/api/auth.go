package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// Login 登录
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.mutate(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register 注册
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.mutate(ctx, http.MethodPost, "/auth/register", "", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me 当前登录用户
func (c *Client) Me(ctx context.Context, token string) (*models.AuthUser, error) {
	var out models.AuthUser
	if err := c.get(ctx, "/auth/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword 发送重置密码验证码
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.mutate(ctx, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": email}, nil)
}

// ResetPasswordInput 重置密码请求体
type ResetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword 使用验证码重置密码
func (c *Client) ResetPassword(ctx context.Context, input ResetPasswordInput) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.mutate(ctx, http.MethodPost, "/auth/reset-password", "", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTPInput 验证码校验请求体
type VerifyOTPInput struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Type  string `json:"type"`
}

// VerifyOTP 校验验证码
func (c *Client) VerifyOTP(ctx context.Context, input VerifyOTPInput) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := c.mutate(ctx, http.MethodPost, "/auth/verify-otp", "", input, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// GetCustomer 客户资料
func (c *Client) GetCustomer(ctx context.Context, token, customerID string) (*models.CustomerProfile, error) {
	var out models.CustomerProfile
	if err := c.get(ctx, customerPath(customerID), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomerUpdateInput 更新客户资料请求体
type CustomerUpdateInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// UpdateCustomer 更新客户资料
func (c *Client) UpdateCustomer(ctx context.Context, token, customerID string, input CustomerUpdateInput) (*models.CustomerProfile, error) {
	var out models.CustomerProfile
	path := customerPath(customerID)
	if err := c.mutate(ctx, http.MethodPut, path, token, input, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}
