package service

import (
	"context"
	"strings"
	"sync"
)

// IdentitySource 提供当前身份
type IdentitySource interface {
	Identity() Identity
}

// CheckoutFlows 按会话 ID 复用支付流程，使重试沿用同一幂等键
// 身份变化后已有流程全部作废
type CheckoutFlows struct {
	backend  PaymentBackend
	cart     CartRefresher
	identity IdentitySource

	mu    sync.Mutex
	owner Identity
	flows map[string]*PaymentFlow
}

// NewCheckoutFlows 创建支付流程登记表
func NewCheckoutFlows(backend PaymentBackend, cart CartRefresher, identity IdentitySource) *CheckoutFlows {
	return &CheckoutFlows{
		backend:  backend,
		cart:     cart,
		identity: identity,
		flows:    make(map[string]*PaymentFlow),
	}
}

// Open 返回会话对应的支付流程；首次打开时加载会话与支付方式
func (r *CheckoutFlows) Open(ctx context.Context, sessionID string) (*PaymentFlow, error) {
	flow, _, err := r.open(ctx, sessionID)
	return flow, err
}

// Refresh 打开支付流程，已存在的流程重新加载会话与支付方式
func (r *CheckoutFlows) Refresh(ctx context.Context, sessionID string) (*PaymentFlow, error) {
	flow, loaded, err := r.open(ctx, sessionID)
	if err != nil || loaded {
		return flow, err
	}
	if err := flow.Load(ctx); err != nil {
		return nil, err
	}
	return flow, nil
}

func (r *CheckoutFlows) open(ctx context.Context, sessionID string) (*PaymentFlow, bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	identity := r.identity.Identity()

	r.mu.Lock()
	if identity != r.owner {
		r.owner = identity
		r.flows = make(map[string]*PaymentFlow)
	}
	flow, ok := r.flows[sessionID]
	r.mu.Unlock()
	if ok {
		return flow, false, nil
	}

	flow, err := NewPaymentFlow(r.backend, r.cart, identity, sessionID)
	if err != nil {
		return nil, false, err
	}
	if err := flow.Load(ctx); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if identity != r.owner {
		return nil, false, ErrCheckoutLoginRequired
	}
	if existing, ok := r.flows[sessionID]; ok {
		return existing, false, nil
	}
	r.flows[sessionID] = flow
	return flow, true, nil
}

// Forget 丢弃会话的支付流程
func (r *CheckoutFlows) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.flows, strings.TrimSpace(sessionID))
	r.mu.Unlock()
}

// Len 当前登记的流程数
func (r *CheckoutFlows) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}
