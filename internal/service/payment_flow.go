package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	sessionIDPattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
	cvvPattern       = regexp.MustCompile(`^\d{3,4}$`)
)

// PaymentBackend 结账支付相关后端接口
type PaymentBackend interface {
	GetCheckoutSession(ctx context.Context, token, sessionID string) (*models.CheckoutSession, error)
	PayCheckoutSession(ctx context.Context, token, sessionID string, input api.PayInput) (*models.CheckoutSessionPayResponse, error)
	FinalizeCheckoutSession(ctx context.Context, token, sessionID, idempotencyKey string) (*models.FinalizeCheckoutSessionResponse, error)
	ListPaymentMethods(ctx context.Context, token, customerID string) ([]models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, token, customerID string, input models.PaymentMethodInput) (*models.PaymentMethod, error)
	InvalidateCart(ctx context.Context, customerID string)
	InvalidateOrders(ctx context.Context, customerID string)
}

// CartRefresher 支付成功后刷新购物车
type CartRefresher interface {
	RefreshCart(ctx context.Context) error
}

// PaymentResult 一次支付尝试的结果；拒付不是错误
type PaymentResult struct {
	Approved      bool      `json:"approved"`
	Status        string    `json:"status"`
	SessionStatus string    `json:"session_status,omitempty"`
	TransactionID models.ID `json:"transaction_id,omitempty"`
	OrderID       models.ID `json:"order_id,omitempty"`
	OrderNumber   string    `json:"order_number,omitempty"`
	Message       string    `json:"message"`
}

// PaymentFlow 单个结账会话的支付流程，整个流程共用一个幂等键
type PaymentFlow struct {
	backend   PaymentBackend
	cart      CartRefresher
	identity  Identity
	sessionID string
	key       string

	mu       sync.RWMutex
	session  *models.CheckoutSession
	methods  []models.PaymentMethod
	selected string

	processing atomic.Bool
}

// NewPaymentFlow 创建支付流程，会话 ID 须为 36 位 UUID 形式
func NewPaymentFlow(backend PaymentBackend, cart CartRefresher, identity Identity, sessionID string) (*PaymentFlow, error) {
	sessionID = strings.TrimSpace(sessionID)
	if !sessionIDPattern.MatchString(sessionID) {
		return nil, ErrSessionIDInvalid
	}
	if !identity.Authenticated() {
		return nil, ErrCheckoutLoginRequired
	}
	return &PaymentFlow{
		backend:   backend,
		cart:      cart,
		identity:  identity,
		sessionID: sessionID,
		key:       uuid.NewString(),
	}, nil
}

// SessionID 会话 ID
func (f *PaymentFlow) SessionID() string {
	return f.sessionID
}

// IdempotencyKey 支付与完成结账共用的幂等键
func (f *PaymentFlow) IdempotencyKey() string {
	return f.key
}

// Load 并行加载会话与支付方式
func (f *PaymentFlow) Load(ctx context.Context) error {
	var (
		session *models.CheckoutSession
		methods []models.PaymentMethod
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		session, err = f.backend.GetCheckoutSession(gctx, f.identity.Token, f.sessionID)
		return err
	})
	g.Go(func() error {
		var err error
		methods, err = f.backend.ListPaymentMethods(gctx, f.identity.Token, f.identity.CustomerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = session
	f.methods = methods
	if f.selected == "" {
		f.selected = defaultPaymentMethodID(methods)
	}
	return nil
}

// defaultPaymentMethodID 默认且启用的优先，否则取第一个启用的
func defaultPaymentMethodID(methods []models.PaymentMethod) string {
	for _, m := range methods {
		if m.DefaultMethod && m.Enabled {
			return m.ID.String()
		}
	}
	for _, m := range methods {
		if m.Enabled {
			return m.ID.String()
		}
	}
	return ""
}

// Session 当前会话快照
func (f *PaymentFlow) Session() *models.CheckoutSession {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session
}

// PaymentMethods 已加载的支付方式
func (f *PaymentFlow) PaymentMethods() []models.PaymentMethod {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.methods
}

// SelectedMethodID 当前选中的支付方式
func (f *PaymentFlow) SelectedMethodID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.selected
}

// SelectMethod 选择支付方式
func (f *PaymentFlow) SelectMethod(methodID string) {
	f.mu.Lock()
	f.selected = strings.TrimSpace(methodID)
	f.mu.Unlock()
}

// CanPay 会话已加载且处于可支付状态
func (f *PaymentFlow) CanPay() bool {
	session := f.Session()
	return session != nil && CanPaySession(session.Status)
}

// Pay 使用选中的支付方式支付；批准后以同一幂等键完成结账
// 无论结果如何都会重新读取会话
func (f *PaymentFlow) Pay(ctx context.Context, cvv string) (*PaymentResult, error) {
	if f.Session() == nil {
		return nil, ErrSessionNotLoaded
	}
	if !f.CanPay() {
		return nil, ErrSessionNotPayable
	}
	methodID := f.SelectedMethodID()
	if methodID == "" {
		return nil, ErrPaymentMethodRequired
	}
	if !ValidCVV(cvv) {
		return nil, ErrCVVInvalid
	}
	if !f.processing.CompareAndSwap(false, true) {
		return nil, ErrPaymentInProgress
	}
	defer f.processing.Store(false)

	paid, err := f.backend.PayCheckoutSession(ctx, f.identity.Token, f.sessionID, api.PayInput{
		PaymentMethodID: methodID,
		CVV:             cvv,
		IdempotencyKey:  f.key,
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{
		Status:        paid.Status,
		SessionStatus: paid.SessionStatus,
		TransactionID: paid.TransactionID,
	}
	if paid.Status == constants.PaymentResultApproved {
		if err := f.finalize(ctx, result); err != nil {
			// 会话此时应为 APPROVED，刷新后可单独调用 Finalize
			f.reload(ctx, &PaymentResult{})
			return nil, err
		}
	} else {
		result.Message = paid.GatewayMessage
		if result.Message == "" {
			result.Message = "Payment declined."
		}
		logger.Infow("checkout_payment_declined",
			"session_id", f.sessionID,
			"status", paid.Status,
			"gateway_code", paid.GatewayResponseCode,
		)
	}

	f.reload(ctx, result)
	return result, nil
}

// Finalize 完成已批准但尚未生成订单的会话，沿用本流程的幂等键
func (f *PaymentFlow) Finalize(ctx context.Context) (*PaymentResult, error) {
	session := f.Session()
	if session == nil {
		return nil, ErrSessionNotLoaded
	}
	if session.Status != constants.CheckoutStatusApproved {
		return nil, ErrSessionNotApproved
	}
	if !f.processing.CompareAndSwap(false, true) {
		return nil, ErrPaymentInProgress
	}
	defer f.processing.Store(false)

	result := &PaymentResult{Status: constants.PaymentResultApproved}
	if err := f.finalize(ctx, result); err != nil {
		return nil, err
	}
	f.reload(ctx, result)
	return result, nil
}

// finalize 生成订单并失效购物车与订单列表
func (f *PaymentFlow) finalize(ctx context.Context, result *PaymentResult) error {
	finalized, err := f.backend.FinalizeCheckoutSession(ctx, f.identity.Token, f.sessionID, f.key)
	if err != nil {
		return err
	}
	result.Approved = true
	result.OrderID = finalized.OrderID
	result.OrderNumber = finalized.OrderNumber
	result.Message = "Payment approved. Order created."
	logger.Infow("checkout_session_finalized", "session_id", f.sessionID, "order_id", finalized.OrderID)
	// 下单后服务端已清空购物车
	f.backend.InvalidateCart(ctx, f.identity.CustomerID)
	f.backend.InvalidateOrders(ctx, f.identity.CustomerID)
	if f.cart != nil {
		if err := f.cart.RefreshCart(ctx); err != nil {
			logger.Warnw("checkout_cart_refresh_failed", "session_id", f.sessionID, "error", err)
		}
	}
	return nil
}

// reload 支付或完成后重新读取会话，失败只记录日志
func (f *PaymentFlow) reload(ctx context.Context, result *PaymentResult) {
	session, err := f.backend.GetCheckoutSession(ctx, f.identity.Token, f.sessionID)
	if err != nil {
		logger.Warnw("checkout_session_reload_failed", "session_id", f.sessionID, "error", err)
		return
	}
	f.mu.Lock()
	f.session = session
	f.mu.Unlock()
	if result.SessionStatus == "" {
		result.SessionStatus = session.Status
	}
}

// AddPaymentMethod 新增支付方式，重新加载列表并选中新卡
func (f *PaymentFlow) AddPaymentMethod(ctx context.Context, input models.PaymentMethodInput) (*models.PaymentMethod, error) {
	if input.Provider == "" {
		input.Provider = constants.PaymentProviderCard
	}
	method, err := f.backend.CreatePaymentMethod(ctx, f.identity.Token, f.identity.CustomerID, input)
	if err != nil {
		return nil, err
	}
	methods, err := f.backend.ListPaymentMethods(ctx, f.identity.Token, f.identity.CustomerID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.methods = methods
	f.selected = method.ID.String()
	f.mu.Unlock()
	return method, nil
}

// ValidCVV CVV 为 3 到 4 位数字
func ValidCVV(cvv string) bool {
	return cvvPattern.MatchString(cvv)
}
