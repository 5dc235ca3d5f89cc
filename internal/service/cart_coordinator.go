package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

// CartBackend 购物车相关后端接口
type CartBackend interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	GetCart(ctx context.Context, token, customerID string) (*models.Cart, error)
	AddToCart(ctx context.Context, token, customerID, productID string, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, token, customerID, itemID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, token, customerID, itemID string) (*models.Cart, error)
	ClearCart(ctx context.Context, token, customerID string) (*models.Cart, error)
	CreateCheckoutSession(ctx context.Context, token string) (*models.CheckoutSession, error)
}

// Identity 购物车所属身份
type Identity struct {
	Token      string
	CustomerID string
	HasUser    bool
}

// IsGuest 既无用户也无令牌时使用游客购物车
func (i Identity) IsGuest() bool {
	return !i.HasUser && i.Token == ""
}

// Authenticated 有令牌且能解析出客户 ID
func (i Identity) Authenticated() bool {
	return i.Token != "" && i.CustomerID != ""
}

// CartState 购物车快照
type CartState struct {
	Cart        *models.Cart `json:"cart"`
	Quantity    int          `json:"quantity"`
	IsGuestCart bool         `json:"is_guest_cart"`
	Loading     bool         `json:"loading"`
	Mutating    bool         `json:"mutating"`
	Merging     bool         `json:"merging"`
}

// CartCoordinator 购物车协调器：游客购物车、登录合并、乐观数量与结账会话创建
type CartCoordinator struct {
	backend CartBackend
	guest   *GuestCartStore
	store   *Store[CartState]

	quantity OptimisticQuantity

	mu          sync.RWMutex
	identity    Identity
	identityGen uint64

	mutations int32
	loads     int32

	// guestMu 串行化游客槽位的读改写与合并回放
	guestMu  sync.Mutex
	draining atomic.Bool
}

// NewCartCoordinator 创建购物车协调器，初始为游客身份
func NewCartCoordinator(backend CartBackend, guest *GuestCartStore) *CartCoordinator {
	return &CartCoordinator{
		backend: backend,
		guest:   guest,
		store:   NewStore(CartState{IsGuestCart: true}),
	}
}

// State 当前快照
func (c *CartCoordinator) State() CartState {
	return c.store.Get()
}

// Subscribe 订阅购物车变化
func (c *CartCoordinator) Subscribe(fn func(CartState)) func() {
	return c.store.Subscribe(fn)
}

// Identity 当前身份
func (c *CartCoordinator) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *CartCoordinator) snapshotIdentity() (Identity, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity, c.identityGen
}

func (c *CartCoordinator) current(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identityGen == gen
}

// BindAuth 跟随登录态切换身份，返回取消订阅函数
func (c *CartCoordinator) BindAuth(ctx context.Context, auth *AuthSession) (func(), error) {
	unsubscribe := auth.Subscribe(func(state AuthState) {
		if state.Loading {
			return
		}
		next := state.Identity()
		if next == c.Identity() {
			return
		}
		if err := c.SetIdentity(context.WithoutCancel(ctx), next); err != nil {
			logger.Warnw("cart_identity_sync_failed", "error", err)
		}
	})
	if err := c.SetIdentity(ctx, auth.State().Identity()); err != nil {
		return unsubscribe, err
	}
	return unsubscribe, nil
}

// SetIdentity 切换身份：清空乐观数量，合并游客购物车，然后刷新
func (c *CartCoordinator) SetIdentity(ctx context.Context, identity Identity) error {
	c.mu.Lock()
	changed := c.identity != identity
	c.identity = identity
	if changed {
		c.identityGen++
	}
	c.mu.Unlock()

	if changed {
		c.quantity.Reset()
		c.store.Update(func(st *CartState) {
			st.Cart = nil
			st.IsGuestCart = identity.IsGuest()
			st.Quantity = c.quantity.Visible()
		})
	}

	if identity.Authenticated() {
		if err := c.MergeGuestCart(ctx); err != nil {
			return err
		}
	}
	return c.RefreshCart(ctx)
}

// RefreshCart 从游客槽位或后端重新加载购物车
func (c *CartCoordinator) RefreshCart(ctx context.Context) error {
	identity, gen := c.snapshotIdentity()
	cart, err := c.loadCart(ctx, identity)
	if err != nil {
		return err
	}
	c.applyCart(gen, cart, nil)
	return nil
}

// loadCart 不发布状态，只返回当前身份下的购物车；无身份时为 nil
func (c *CartCoordinator) loadCart(ctx context.Context, identity Identity) (*models.Cart, error) {
	if identity.IsGuest() {
		entries, err := c.guest.Read(ctx)
		if err != nil {
			return nil, err
		}
		return guestCartView(entries), nil
	}
	if !identity.Authenticated() {
		return nil, nil
	}

	c.setLoading(1)
	defer c.setLoading(-1)
	return c.backend.GetCart(ctx, identity.Token, identity.CustomerID)
}

// applyCart 发布购物车；身份已切换时丢弃结果，tx 非空时一并提交
func (c *CartCoordinator) applyCart(gen uint64, cart *models.Cart, tx *QuantityTx) {
	if !c.current(gen) {
		tx.Rollback()
		return
	}
	if tx != nil {
		tx.Commit(cart.ItemQuantity())
	} else {
		c.quantity.SetCommitted(cart.ItemQuantity())
	}
	c.store.Update(func(st *CartState) {
		st.Cart = cart
		st.Quantity = c.quantity.Visible()
	})
}

// AddItem 加购，先乐观增加角标数量
func (c *CartCoordinator) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	identity, gen := c.snapshotIdentity()
	if !identity.IsGuest() && !identity.Authenticated() {
		return ErrAuthRequired
	}

	c.beginMutation()
	defer c.endMutation()
	tx := c.quantity.Apply(quantity)
	c.publishQuantity()

	var err error
	if identity.IsGuest() {
		err = c.addGuestItem(ctx, gen, productID, quantity, tx)
	} else {
		var next *models.Cart
		next, err = c.backend.AddToCart(ctx, identity.Token, identity.CustomerID, productID, quantity)
		if err == nil {
			err = c.syncFromMutation(ctx, identity, gen, next, tx)
		}
	}
	if err != nil {
		tx.Rollback()
		c.publishQuantity()
		return err
	}
	return nil
}

func (c *CartCoordinator) addGuestItem(ctx context.Context, gen uint64, productID string, quantity int, tx *QuantityTx) error {
	product, err := c.backend.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	c.guestMu.Lock()
	entries, err := c.guest.Read(ctx)
	if err == nil {
		entries = upsertGuestEntry(entries, productID, quantity, product)
		err = c.guest.Write(ctx, entries)
	}
	c.guestMu.Unlock()
	if err != nil {
		return err
	}

	c.applyCart(gen, guestCartView(entries), tx)
	return nil
}

func upsertGuestEntry(entries []models.GuestCartEntry, productID string, quantity int, product *models.Product) []models.GuestCartEntry {
	next := make([]models.GuestCartEntry, 0, len(entries)+1)
	found := false
	for _, entry := range entries {
		if entry.ProductID == productID {
			entry.Quantity += quantity
			found = true
		}
		next = append(next, entry)
	}
	if !found {
		next = append(next, models.GuestCartEntry{
			ProductID:   productID,
			Quantity:    quantity,
			ProductName: product.Name,
			UnitPrice:   product.Price,
		})
	}
	return next
}

// UpdateItem 修改数量；游客模式至少为 1，登录模式原样提交由后端校验库存
func (c *CartCoordinator) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	identity, gen := c.snapshotIdentity()
	if identity.IsGuest() {
		c.beginMutation()
		defer c.endMutation()
		return c.rewriteGuest(ctx, gen, func(entries []models.GuestCartEntry) []models.GuestCartEntry {
			for i := range entries {
				if entries[i].ProductID == itemID {
					entries[i].Quantity = max(1, quantity)
				}
			}
			return entries
		})
	}
	if !identity.Authenticated() {
		return ErrAuthRequired
	}

	c.beginMutation()
	defer c.endMutation()
	next, err := c.backend.UpdateCartItem(ctx, identity.Token, identity.CustomerID, itemID, quantity)
	if err != nil {
		return err
	}
	return c.syncFromMutation(ctx, identity, gen, next, nil)
}

// RemoveItem 删除购物车项；游客模式删除不存在的条目不报错
func (c *CartCoordinator) RemoveItem(ctx context.Context, itemID string) error {
	identity, gen := c.snapshotIdentity()
	if identity.IsGuest() {
		c.beginMutation()
		defer c.endMutation()
		return c.rewriteGuest(ctx, gen, func(entries []models.GuestCartEntry) []models.GuestCartEntry {
			kept := entries[:0]
			for _, entry := range entries {
				if entry.ProductID != itemID {
					kept = append(kept, entry)
				}
			}
			return kept
		})
	}
	if !identity.Authenticated() {
		return ErrAuthRequired
	}

	c.beginMutation()
	defer c.endMutation()
	next, err := c.backend.RemoveCartItem(ctx, identity.Token, identity.CustomerID, itemID)
	if err != nil {
		return err
	}
	return c.syncFromMutation(ctx, identity, gen, next, nil)
}

// ClearCart 清空购物车；游客模式清空本地槽位
func (c *CartCoordinator) ClearCart(ctx context.Context) error {
	identity, gen := c.snapshotIdentity()
	if identity.IsGuest() {
		c.beginMutation()
		defer c.endMutation()
		return c.rewriteGuest(ctx, gen, func([]models.GuestCartEntry) []models.GuestCartEntry {
			return nil
		})
	}
	if !identity.Authenticated() {
		return ErrAuthRequired
	}

	c.beginMutation()
	defer c.endMutation()
	next, err := c.backend.ClearCart(ctx, identity.Token, identity.CustomerID)
	if err != nil {
		return err
	}
	return c.syncFromMutation(ctx, identity, gen, next, nil)
}

func (c *CartCoordinator) rewriteGuest(ctx context.Context, gen uint64, fn func([]models.GuestCartEntry) []models.GuestCartEntry) error {
	c.guestMu.Lock()
	entries, err := c.guest.Read(ctx)
	if err == nil {
		entries = fn(entries)
		err = c.guest.Write(ctx, entries)
	}
	c.guestMu.Unlock()
	if err != nil {
		return err
	}
	c.applyCart(gen, guestCartView(entries), nil)
	return nil
}

// syncFromMutation 先采用写接口返回的购物车，再强制刷新
func (c *CartCoordinator) syncFromMutation(ctx context.Context, identity Identity, gen uint64, next *models.Cart, tx *QuantityTx) error {
	if next != nil && next.Items != nil {
		c.applyCart(gen, next, tx)
		tx = nil
	}
	fresh, err := c.loadCart(ctx, identity)
	if err != nil {
		return err
	}
	c.applyCart(gen, fresh, tx)
	return nil
}

// Checkout 创建结账会话并返回会话 ID，游客必须先登录
func (c *CartCoordinator) Checkout(ctx context.Context) (string, error) {
	identity := c.Identity()
	if identity.IsGuest() {
		return "", ErrGuestCheckout
	}
	if !identity.Authenticated() {
		return "", ErrCheckoutLoginRequired
	}

	c.beginMutation()
	defer c.endMutation()
	session, err := c.backend.CreateCheckoutSession(ctx, identity.Token)
	if err != nil {
		return "", err
	}
	c.quantity.ClearPending()
	c.publishQuantity()
	logger.Infow("checkout_session_created",
		"session_id", session.ID,
		"customer_id", identity.CustomerID,
		"status", session.Status,
	)
	return session.ID.String(), nil
}

// MergeGuestCart 登录后按原顺序回放游客条目，每成功一条就从槽位移除
// 已有合并在进行时直接返回
func (c *CartCoordinator) MergeGuestCart(ctx context.Context) error {
	identity, gen := c.snapshotIdentity()
	if !identity.Authenticated() {
		return nil
	}
	if !c.draining.CompareAndSwap(false, true) {
		return nil
	}
	defer c.draining.Store(false)

	c.guestMu.Lock()
	defer c.guestMu.Unlock()

	entries, err := c.guest.Read(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	c.beginMutation()
	c.store.Update(func(st *CartState) { st.Merging = true })
	defer func() {
		c.store.Update(func(st *CartState) { st.Merging = false })
		c.endMutation()
	}()

	logger.Infow("cart_merge_started", "customer_id", identity.CustomerID, "entries", len(entries))
	for i, entry := range entries {
		if !c.current(gen) {
			logger.Warnw("cart_merge_identity_changed", "replayed", i, "remaining", len(entries)-i)
			return nil
		}
		if _, err := c.backend.AddToCart(ctx, identity.Token, identity.CustomerID, entry.ProductID, max(1, entry.Quantity)); err != nil {
			logger.Warnw("cart_merge_replay_failed",
				"customer_id", identity.CustomerID,
				"product_id", entry.ProductID,
				"replayed", i,
				"error", err,
			)
			return err
		}
		rest := entries[i+1:]
		if len(rest) == 0 {
			err = c.guest.Clear(ctx)
		} else {
			err = c.guest.Write(ctx, rest)
		}
		if err != nil {
			return err
		}
	}
	logger.Infow("cart_merge_completed", "customer_id", identity.CustomerID, "entries", len(entries))

	fresh, err := c.loadCart(ctx, identity)
	if err != nil {
		return err
	}
	c.applyCart(gen, fresh, nil)
	return nil
}

func (c *CartCoordinator) beginMutation() {
	atomic.AddInt32(&c.mutations, 1)
	c.store.Update(func(st *CartState) { st.Mutating = atomic.LoadInt32(&c.mutations) > 0 })
}

func (c *CartCoordinator) endMutation() {
	atomic.AddInt32(&c.mutations, -1)
	c.store.Update(func(st *CartState) { st.Mutating = atomic.LoadInt32(&c.mutations) > 0 })
}

func (c *CartCoordinator) setLoading(delta int32) {
	atomic.AddInt32(&c.loads, delta)
	c.store.Update(func(st *CartState) { st.Loading = atomic.LoadInt32(&c.loads) > 0 })
}

func (c *CartCoordinator) publishQuantity() {
	c.store.Update(func(st *CartState) { st.Quantity = c.quantity.Visible() })
}
