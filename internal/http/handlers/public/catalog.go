package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，可按 category_id 过滤
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.API.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load products.")
		return
	}
	categoryID := strings.TrimSpace(c.Query("category_id"))
	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if categoryID != "" && product.Category.ID.String() != categoryID {
			continue
		}
		filtered = append(filtered, product)
	}
	response.Success(c, filtered)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "Invalid product.", nil)
		return
	}
	product, err := h.API.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load product.")
		return
	}
	response.Success(c, product)
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.API.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load categories.")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	response.Success(c, categories)
}
