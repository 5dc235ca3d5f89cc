package models

// Category 商品分类
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product 商品
type Product struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         Money    `json:"price"`
	StockQuantity int      `json:"stockQuantity"`
	Active        bool     `json:"active"`
	ImageURLs     []string `json:"imageUrls"`
	Category      Category `json:"category"`
}

// PrimaryImage 第一张有效图片，没有时返回空串
func (p *Product) PrimaryImage() string {
	if p == nil {
		return ""
	}
	for _, url := range p.ImageURLs {
		if url != "" {
			return url
		}
	}
	return ""
}
