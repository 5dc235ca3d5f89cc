package app

import (
	"context"
	"sync"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/service"
)

// SessionService 启动时恢复登录态，之后让购物车跟随身份切换
type SessionService struct {
	auth *service.AuthSession
	cart *service.CartCoordinator

	mu     sync.Mutex
	unbind func()
}

// NewSessionService 创建会话服务
func NewSessionService(auth *service.AuthSession, cart *service.CartCoordinator) *SessionService {
	return &SessionService{auth: auth, cart: cart}
}

// Name 服务名称
func (s *SessionService) Name() string {
	return "session"
}

// Start 恢复并绑定后阻塞到 ctx 结束；后端不可达只记录日志
func (s *SessionService) Start(ctx context.Context) error {
	if err := s.auth.Restore(ctx); err != nil {
		logger.Warnw("session_restore_failed", "error", err)
	}
	unbind, err := s.cart.BindAuth(ctx, s.auth)
	if err != nil {
		logger.Warnw("session_cart_bind_failed", "error", err)
	}
	s.mu.Lock()
	s.unbind = unbind
	s.mu.Unlock()

	st := s.auth.State()
	logger.Infow("session_ready",
		"authenticated", st.Token != "",
		"view_mode", st.ViewMode,
		"cart_quantity", s.cart.State().Quantity,
	)
	<-ctx.Done()
	return nil
}

// Stop 取消购物车对登录态的订阅
func (s *SessionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	unbind := s.unbind
	s.unbind = nil
	s.mu.Unlock()
	if unbind != nil {
		unbind()
	}
	return nil
}
