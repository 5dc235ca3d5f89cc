package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求，数量缺省为 1
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// RefreshCart 重新加载购物车
func (h *Handler) RefreshCart(c *gin.Context) {
	if err := h.Cart.RefreshCart(c.Request.Context()); err != nil {
		respondServiceError(c, err, "Failed to load cart.")
		return
	}
	response.Success(c, h.Cart.State())
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body.", nil)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := h.Cart.AddItem(c.Request.Context(), strings.TrimSpace(req.ProductID), quantity); err != nil {
		respondServiceError(c, err, "Failed to add item to cart.")
		return
	}
	response.SuccessWithMsg(c, "Added to cart.", h.Cart.State())
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body.", nil)
		return
	}
	if err := h.Cart.UpdateItem(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		respondServiceError(c, err, "Failed to update cart item.")
		return
	}
	response.Success(c, h.Cart.State())
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	if err := h.Cart.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to remove cart item.")
		return
	}
	response.Success(c, h.Cart.State())
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.ClearCart(c.Request.Context()); err != nil {
		respondServiceError(c, err, "Failed to clear cart.")
		return
	}
	response.Success(c, h.Cart.State())
}

// StartCheckout 从购物车创建结账会话
func (h *Handler) StartCheckout(c *gin.Context) {
	sessionID, err := h.Cart.Checkout(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to start checkout.")
		return
	}
	response.Success(c, gin.H{"session_id": sessionID})
}
