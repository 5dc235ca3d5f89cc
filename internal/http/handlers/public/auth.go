package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录；成功后购物车协调器通过订阅完成游客购物车合并
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Email and password are required.", nil)
		return
	}
	if err := h.Auth.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password); err != nil {
		respondServiceError(c, err, "Login failed.")
		return
	}
	response.Success(c, h.snapshot())
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context()); err != nil {
		respondServiceError(c, err, "Logout failed.")
		return
	}
	response.Success(c, h.snapshot())
}

// GetMe 向后端重新校验当前用户
func (h *Handler) GetMe(c *gin.Context) {
	if h.Auth.State().Token == "" {
		respondError(c, response.CodeUnauthorized, "Not logged in.", nil)
		return
	}
	if err := h.Auth.RefreshUser(c.Request.Context()); err != nil {
		respondServiceError(c, err, "Failed to load profile.")
		return
	}
	response.Success(c, newAuthView(h.Auth.State()))
}

// ToggleViewMode 管理员切换管理视图与客户视图
func (h *Handler) ToggleViewMode(c *gin.Context) {
	if !h.Auth.State().HasAdminRole() {
		respondError(c, response.CodeForbidden, "Only administrators can switch views.", nil)
		return
	}
	mode := h.Auth.ToggleViewMode()
	response.Success(c, gin.H{"view_mode": mode, "auth": newAuthView(h.Auth.State())})
}
