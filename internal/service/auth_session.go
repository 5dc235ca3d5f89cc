package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// 管理员视图模式
const (
	ViewModeAdmin    = "ADMIN"
	ViewModeCustomer = "CUSTOMER"
)

// AuthBackend 认证相关后端接口
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.AuthUser, error)
}

// AuthState 登录态快照
type AuthState struct {
	User     *models.AuthUser `json:"user"`
	Token    string           `json:"-"`
	Loading  bool             `json:"loading"`
	ViewMode string           `json:"view_mode"`
}

// HasAdminRole 是否拥有管理员角色
func (s AuthState) HasAdminRole() bool {
	return s.User.HasRole(constants.RoleAdmin)
}

// IsAdmin 管理员且处于管理视图
func (s AuthState) IsAdmin() bool {
	return s.HasAdminRole() && s.ViewMode == ViewModeAdmin
}

// EffectiveCustomerID 当前可用于客户接口的客户 ID，管理视图下为空
func (s AuthState) EffectiveCustomerID() string {
	if s.User == nil || s.IsAdmin() {
		return ""
	}
	return strings.TrimSpace(s.User.CustomerID.String())
}

// Identity 转换为购物车身份
func (s AuthState) Identity() Identity {
	return Identity{
		Token:      s.Token,
		CustomerID: s.EffectiveCustomerID(),
		HasUser:    s.User != nil,
	}
}

// AuthSession 登录态管理，登录结果持久化在 auth 槽位
type AuthSession struct {
	backend AuthBackend
	slots   repository.SlotRepository
	key     string
	store   *Store[AuthState]
	now     func() time.Time
}

// NewAuthSession 创建登录态管理
func NewAuthSession(backend AuthBackend, slots repository.SlotRepository, key string) *AuthSession {
	return &AuthSession{
		backend: backend,
		slots:   slots,
		key:     key,
		store:   NewStore(AuthState{Loading: true, ViewMode: ViewModeCustomer}),
		now:     time.Now,
	}
}

// State 当前快照
func (s *AuthSession) State() AuthState {
	return s.store.Get()
}

// Subscribe 订阅登录态变化
func (s *AuthSession) Subscribe(fn func(AuthState)) func() {
	return s.store.Subscribe(fn)
}

// Restore 从槽位恢复登录态，令牌过期或校验失败时清除
func (s *AuthSession) Restore(ctx context.Context) error {
	stored, err := s.readStored(ctx)
	if err != nil {
		s.store.Update(func(st *AuthState) { st.Loading = false })
		return err
	}
	if stored == nil {
		s.store.Update(func(st *AuthState) { st.Loading = false })
		return nil
	}
	if tokenExpired(stored.AccessToken, s.now()) {
		logger.Infow("auth_stored_token_expired")
		return s.clear(ctx)
	}

	user := stored.User
	s.store.Update(func(st *AuthState) {
		st.User = &user
		st.Token = stored.AccessToken
		st.ViewMode = defaultViewMode(&user)
	})

	current, err := s.backend.Me(ctx, stored.AccessToken)
	if err != nil {
		logger.Warnw("auth_restore_validate_failed", "error", err)
		return s.clear(ctx)
	}
	s.store.Update(func(st *AuthState) {
		st.User = current
		st.Loading = false
	})
	return nil
}

// Login 登录
func (s *AuthSession) Login(ctx context.Context, email, password string) error {
	auth, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.accept(ctx, auth)
}

// Register 注册并登录
func (s *AuthSession) Register(ctx context.Context, input models.RegisterInput) error {
	auth, err := s.backend.Register(ctx, input)
	if err != nil {
		return err
	}
	return s.accept(ctx, auth)
}

// RefreshUser 重新拉取当前用户，未登录时不做任何事
func (s *AuthSession) RefreshUser(ctx context.Context) error {
	token := s.State().Token
	if token == "" {
		return nil
	}
	user, err := s.backend.Me(ctx, token)
	if err != nil {
		return err
	}
	s.store.Update(func(st *AuthState) { st.User = user })

	stored, err := s.readStored(ctx)
	if err != nil || stored == nil {
		return err
	}
	stored.User = *user
	stored.AccessToken = token
	return s.persist(ctx, stored)
}

// SetUser 直接替换当前用户（资料更新后使用）
func (s *AuthSession) SetUser(user *models.AuthUser) {
	s.store.Update(func(st *AuthState) { st.User = user })
}

// ToggleViewMode 管理员在管理视图与客户视图间切换
func (s *AuthSession) ToggleViewMode() string {
	next := s.store.Update(func(st *AuthState) {
		if !st.HasAdminRole() {
			st.ViewMode = ViewModeCustomer
			return
		}
		if st.ViewMode == ViewModeAdmin {
			st.ViewMode = ViewModeCustomer
		} else {
			st.ViewMode = ViewModeAdmin
		}
	})
	return next.ViewMode
}

// Logout 退出登录
func (s *AuthSession) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

func (s *AuthSession) accept(ctx context.Context, auth *models.AuthResponse) error {
	if err := s.persist(ctx, auth); err != nil {
		return err
	}
	user := auth.User
	s.store.Update(func(st *AuthState) {
		st.User = &user
		st.Token = auth.AccessToken
		st.Loading = false
		st.ViewMode = defaultViewMode(&user)
	})
	logger.Infow("auth_session_started", "user_id", user.ID, "customer_id", user.CustomerID)
	return nil
}

func (s *AuthSession) clear(ctx context.Context) error {
	err := s.slots.Delete(ctx, s.key)
	s.store.Update(func(st *AuthState) {
		st.User = nil
		st.Token = ""
		st.Loading = false
		st.ViewMode = ViewModeCustomer
	})
	return err
}

func (s *AuthSession) readStored(ctx context.Context) (*models.AuthResponse, error) {
	raw, ok, err := s.slots.Get(ctx, s.key)
	if err != nil || !ok {
		return nil, err
	}
	var stored models.AuthResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Debugw("auth_slot_malformed", "error", err)
		return nil, nil
	}
	if strings.TrimSpace(stored.AccessToken) == "" {
		return nil, nil
	}
	return &stored, nil
}

func (s *AuthSession) persist(ctx context.Context, auth *models.AuthResponse) error {
	payload, err := json.Marshal(auth)
	if err != nil {
		return err
	}
	return s.slots.Put(ctx, s.key, string(payload))
}

func defaultViewMode(user *models.AuthUser) string {
	if user.HasRole(constants.RoleAdmin) {
		return ViewModeAdmin
	}
	return ViewModeCustomer
}

// tokenExpired 读取 exp 声明判断是否过期，非 JWT 令牌交给后端校验
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}
