package public

import (
	"io"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthView 登录态展示结构，不包含令牌
type AuthView struct {
	User          *models.AuthUser `json:"user"`
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	ViewMode      string           `json:"view_mode"`
	HasAdminRole  bool             `json:"has_admin_role"`
	IsAdmin       bool             `json:"is_admin"`
}

// StateView 界面所需的完整状态快照
type StateView struct {
	Auth AuthView          `json:"auth"`
	Cart service.CartState `json:"cart"`
}

func newAuthView(st service.AuthState) AuthView {
	return AuthView{
		User:          st.User,
		Authenticated: st.User != nil && st.Token != "",
		Loading:       st.Loading,
		ViewMode:      st.ViewMode,
		HasAdminRole:  st.HasAdminRole(),
		IsAdmin:       st.IsAdmin(),
	}
}

func (h *Handler) snapshot() StateView {
	return StateView{
		Auth: newAuthView(h.Auth.State()),
		Cart: h.Cart.State(),
	}
}

// GetState 获取当前状态
func (h *Handler) GetState(c *gin.Context) {
	response.Success(c, h.snapshot())
}

// StreamState 以 SSE 推送状态快照，连接建立时先推送一次
func (h *Handler) StreamState(c *gin.Context) {
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}
	unsubscribeCart := h.Cart.Subscribe(func(service.CartState) { notify() })
	defer unsubscribeCart()
	unsubscribeAuth := h.Auth.Subscribe(func(service.AuthState) { notify() })
	defer unsubscribeAuth()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("state", h.snapshot())
	c.Writer.Flush()

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case <-updates:
			c.SSEvent("state", h.snapshot())
			return true
		}
	})
}
