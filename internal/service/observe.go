package service

import "sync"

// Store 可订阅的状态容器，变更后按订阅顺序同步通知快照
type Store[S any] struct {
	mu     sync.RWMutex
	state  S
	nextID int
	subs   map[int]func(S)
	order  []int
}

// NewStore 创建状态容器
func NewStore[S any](initial S) *Store[S] {
	return &Store[S]{state: initial, subs: make(map[int]func(S))}
}

// Get 当前快照
func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update 在锁内修改状态，释放锁后通知订阅者
func (s *Store[S]) Update(fn func(*S)) S {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	listeners := make([]func(S), 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.subs[id])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
	return snapshot
}

// Subscribe 注册监听，返回取消函数
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			for i, existing := range s.order {
				if existing == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
