package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable 缓存后端不可用
var ErrCacheUnavailable = errors.New("response cache unavailable")

// ResponseCache GET 响应缓存接口
// 值为原始响应体，空切片也是合法的缓存值
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
