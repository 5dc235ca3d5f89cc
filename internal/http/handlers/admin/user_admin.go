package admin

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// SetUserAccessRequest 启用或禁用用户
type SetUserAccessRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UpdateUserRequest 更新用户资料与角色
type UpdateUserRequest struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Enabled  *bool    `json:"enabled"`
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.API.AdminListUsers(c.Request.Context(), h.token())
	if err != nil {
		respondBackendError(c, err, "Failed to load users.")
		return
	}
	if users == nil {
		users = []models.AdminUser{}
	}
	response.Success(c, users)
}

// SetUserAccess 启用或禁用用户
func (h *Handler) SetUserAccess(c *gin.Context) {
	var req SetUserAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "enabled is required.", nil)
		return
	}
	user, err := h.API.AdminSetUserAccess(c.Request.Context(), h.token(), c.Param("id"), *req.Enabled)
	if err != nil {
		respondBackendError(c, err, "Failed to update user access.")
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body.", nil)
		return
	}
	roles := make([]string, 0, len(req.Roles))
	for _, role := range req.Roles {
		if role = strings.ToUpper(strings.TrimSpace(role)); role != "" {
			roles = append(roles, role)
		}
	}
	user, err := h.API.AdminUpdateUser(c.Request.Context(), h.token(), c.Param("id"), models.AdminUserUpdateInput{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Roles:    roles,
		Enabled:  req.Enabled,
	})
	if err != nil {
		respondBackendError(c, err, "Failed to update user.")
		return
	}
	response.Success(c, user)
}
