package service

import "sync"

// OptimisticQuantity 购物车角标数量：服务端确认值 + 进行中变更的乐观增量
// Reset 之后，旧事务的 Commit / Rollback 不再生效
type OptimisticQuantity struct {
	mu        sync.Mutex
	committed int
	pending   int
	epoch     uint64
}

// QuantityTx 单次变更的乐观增量，只能结束一次
type QuantityTx struct {
	q     *OptimisticQuantity
	delta int
	epoch uint64
	done  bool
}

// Apply 立即计入乐观增量
func (q *OptimisticQuantity) Apply(delta int) *QuantityTx {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending += delta
	return &QuantityTx{q: q, delta: delta, epoch: q.epoch}
}

// Commit 以服务端数量替换乐观增量
func (tx *QuantityTx) Commit(committed int) {
	tx.finish(func(q *OptimisticQuantity) { q.committed = committed })
}

// Rollback 撤销乐观增量
func (tx *QuantityTx) Rollback() {
	tx.finish(nil)
}

func (tx *QuantityTx) finish(apply func(*OptimisticQuantity)) {
	if tx == nil {
		return
	}
	q := tx.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if tx.done {
		return
	}
	tx.done = true
	if tx.epoch != q.epoch {
		return
	}
	q.pending -= tx.delta
	if apply != nil {
		apply(q)
	}
}

// SetCommitted 刷新后写入服务端数量
func (q *OptimisticQuantity) SetCommitted(committed int) {
	q.mu.Lock()
	q.committed = committed
	q.mu.Unlock()
}

// ClearPending 丢弃所有乐观增量
func (q *OptimisticQuantity) ClearPending() {
	q.mu.Lock()
	q.pending = 0
	q.epoch++
	q.mu.Unlock()
}

// Reset 身份变化时清零
func (q *OptimisticQuantity) Reset() {
	q.mu.Lock()
	q.committed = 0
	q.pending = 0
	q.epoch++
	q.mu.Unlock()
}

// Visible 展示数量
func (q *OptimisticQuantity) Visible() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.committed + q.pending
}

// Pending 当前乐观增量
func (q *OptimisticQuantity) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
