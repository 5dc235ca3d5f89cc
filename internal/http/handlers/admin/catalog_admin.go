package admin

import (
	"strings"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建或更新商品
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	CategoryID    string          `json:"category_id" binding:"required"`
	ImageURLs     []string        `json:"image_urls"`
	Active        *bool           `json:"active"`
}

// CategoryRequest 创建或更新分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (r ProductRequest) toInput() api.ProductInput {
	images := make([]string, 0, len(r.ImageURLs))
	for _, url := range r.ImageURLs {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return api.ProductInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		Price:         models.NewMoneyFromDecimal(r.Price),
		StockQuantity: r.StockQuantity,
		CategoryID:    strings.TrimSpace(r.CategoryID),
		ImageURLs:     images,
		Active:        active,
	}
}

func bindProduct(c *gin.Context) (api.ProductInput, bool) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, response.CodeBadRequest, "Product name and category are required.", nil)
		return api.ProductInput{}, false
	}
	if req.Price.IsNegative() {
		respondError(c, response.CodeBadRequest, "Price must not be negative.", nil)
		return api.ProductInput{}, false
	}
	return req.toInput(), true
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	input, ok := bindProduct(c)
	if !ok {
		return
	}
	product, err := h.API.CreateProduct(c.Request.Context(), h.token(), input)
	if err != nil {
		respondBackendError(c, err, "Failed to create product.")
		return
	}
	response.SuccessWithMsg(c, "Product created.", product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	input, ok := bindProduct(c)
	if !ok {
		return
	}
	product, err := h.API.UpdateProduct(c.Request.Context(), h.token(), c.Param("id"), input)
	if err != nil {
		respondBackendError(c, err, "Failed to update product.")
		return
	}
	response.SuccessWithMsg(c, "Product updated.", product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.API.DeleteProduct(c.Request.Context(), h.token(), c.Param("id")); err != nil {
		respondBackendError(c, err, "Failed to delete product.")
		return
	}
	response.SuccessWithMsg(c, "Product deleted.", nil)
}

func bindCategory(c *gin.Context) (api.CategoryInput, bool) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, response.CodeBadRequest, "Category name is required.", nil)
		return api.CategoryInput{}, false
	}
	return api.CategoryInput{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}, true
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	input, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := h.API.CreateCategory(c.Request.Context(), h.token(), input)
	if err != nil {
		respondBackendError(c, err, "Failed to create category.")
		return
	}
	response.SuccessWithMsg(c, "Category created.", category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	input, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := h.API.UpdateCategory(c.Request.Context(), h.token(), c.Param("id"), input)
	if err != nil {
		respondBackendError(c, err, "Failed to update category.")
		return
	}
	response.SuccessWithMsg(c, "Category updated.", category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.API.DeleteCategory(c.Request.Context(), h.token(), c.Param("id")); err != nil {
		respondBackendError(c, err, "Failed to delete category.")
		return
	}
	response.SuccessWithMsg(c, "Category deleted.", nil)
}
