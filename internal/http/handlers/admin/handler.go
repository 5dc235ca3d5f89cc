package admin

import "github.com/storefront-next/internal/provider"

// Handler 管理视图接口处理器
// 说明：请求使用当前登录管理员的令牌转发到后端管理接口。
type Handler struct {
	*provider.Container
}

// New 创建管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) token() string {
	return h.Auth.State().Token
}
