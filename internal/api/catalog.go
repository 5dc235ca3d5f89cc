package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// CategoryInput 分类请求体
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProductInput 商品请求体
type ProductInput struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         models.Money `json:"price"`
	StockQuantity int          `json:"stockQuantity"`
	CategoryID    string       `json:"categoryId"`
	ImageURLs     []string     `json:"imageUrls"`
	Active        bool         `json:"active"`
}

// ListProducts 商品列表
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.get(ctx, "/products", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct 商品详情
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var out models.Product
	if err := c.get(ctx, join("products", productID), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct 创建商品
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.mutate(ctx, http.MethodPost, "/products", token, input, &out, "/products"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct 更新商品
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.mutate(ctx, http.MethodPut, join("products", productID), token, input, &out, "/products", join("products", productID)); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct 删除商品
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	return c.mutate(ctx, http.MethodDelete, join("products", productID), token, nil, nil, "/products", join("products", productID))
}

// ListCategories 分类列表
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.get(ctx, "/categories", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory 创建分类
func (c *Client) CreateCategory(ctx context.Context, token string, input CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.mutate(ctx, http.MethodPost, "/categories", token, input, &out, "/categories", "/products"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory 更新分类
func (c *Client) UpdateCategory(ctx context.Context, token, categoryID string, input CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.mutate(ctx, http.MethodPut, join("categories", categoryID), token, input, &out, "/categories", "/products"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory 删除分类
func (c *Client) DeleteCategory(ctx context.Context, token, categoryID string) error {
	return c.mutate(ctx, http.MethodDelete, join("categories", categoryID), token, nil, nil, "/categories", "/products")
}
