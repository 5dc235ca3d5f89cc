package public

import "github.com/storefront-next/internal/provider"

// Handler 本地界面桥接处理器
// 说明：所有请求都经由容器中的会话、购物车与结账协调器，不直接访问后端。
type Handler struct {
	*provider.Container
}

// New 创建桥接处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
