package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 60 * time.Second

// Options 网关构造参数
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      cache.ResponseCache
	CacheTTL   time.Duration
	Timeout    time.Duration // 0 表示不设置超时
}

// Gateway 后端请求的唯一出口：GET 缓存、并发合并、前缀失效
type Gateway struct {
	baseURL string
	client  *http.Client
	cache   cache.ResponseCache
	ttl     time.Duration
	timeout time.Duration

	group singleflight.Group

	mu       sync.Mutex
	seq      uint64
	inflight map[string]uint64
}

// New 创建网关实例
func New(opts Options) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	store := opts.Cache
	if store == nil {
		store = cache.NewMemoryCache()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Gateway{
		baseURL:  strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		client:   client,
		cache:    store,
		ttl:      ttl,
		timeout:  opts.Timeout,
		inflight: make(map[string]uint64),
	}
}

// CacheKey 缓存键 method:path:token
func CacheKey(method, path, token string) string {
	return strings.ToUpper(method) + ":" + path + ":" + token
}

// Request 发起请求并把响应解码到 out
// out 可为 nil；204、非 JSON 或空响应体时 out 保持零值
func (g *Gateway) Request(ctx context.Context, method, path, token string, body, out interface{}) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	var (
		raw []byte
		err error
	)
	if method == http.MethodGet {
		raw, err = g.get(ctx, path, token)
	} else {
		raw, err = g.send(ctx, method, path, token, body)
	}
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// Do 泛型版本的 Request
func Do[T any](ctx context.Context, g *Gateway, method, path, token string, body interface{}) (T, error) {
	var out T
	err := g.Request(ctx, method, path, token, body, &out)
	return out, err
}

// Invalidate 删除 key 以 GET:<prefix>: 开头的缓存与进行中请求
func (g *Gateway) Invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		keyPrefix := CacheKey(http.MethodGet, prefix, "")
		removed, err := g.cache.DeletePrefix(ctx, keyPrefix)
		if err != nil {
			logger.Warnw("gateway_cache_invalidate_failed", "prefix", prefix, "error", err)
		}

		forgotten := 0
		g.mu.Lock()
		for key := range g.inflight {
			if strings.HasPrefix(key, keyPrefix) {
				delete(g.inflight, key)
				g.group.Forget(key)
				forgotten++
			}
		}
		g.mu.Unlock()
		logger.Debugw("gateway_cache_invalidated", "prefix", prefix, "removed", removed, "inflight", forgotten)
	}
}

func (g *Gateway) get(ctx context.Context, path, token string) ([]byte, error) {
	key := CacheKey(http.MethodGet, path, token)
	cached, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		logger.Warnw("gateway_cache_read_failed", "key", redactKey(key), "error", err)
	}
	if ok {
		logger.Debugw("gateway_cache_hit", "path", path)
		return cached, nil
	}

	ch := g.group.DoChan(key, func() (interface{}, error) {
		// 共享请求不随单个调用方取消
		flightCtx := context.WithoutCancel(ctx)
		seq := g.track(key)
		raw, err := g.send(flightCtx, http.MethodGet, path, token, nil)
		if err != nil {
			g.untrack(key, seq)
			return nil, err
		}
		if g.untrack(key, seq) {
			if err := g.cache.Set(flightCtx, key, raw, g.ttl); err != nil {
				logger.Warnw("gateway_cache_write_failed", "key", redactKey(key), "error", err)
			}
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debugw("gateway_request_coalesced", "path", path)
		}
		raw, _ := res.Val.([]byte)
		return raw, nil
	}
}

// track 登记进行中的 GET，返回本次请求的序号
func (g *Gateway) track(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.inflight[key] = g.seq
	return g.seq
}

// untrack 注销进行中的 GET，返回结果是否仍可写入缓存
func (g *Gateway) untrack(key string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if current, ok := g.inflight[key]; ok && current == seq {
		delete(g.inflight, key)
		return true
	}
	return false
}

func (g *Gateway) send(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		logger.Warnw("gateway_request_failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed: %v", ErrTransport, err)
	}
	logger.Debugw("gateway_request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp.StatusCode, respBody)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidResponse, method, path)
	}
	return trimmed, nil
}

func decode(raw []byte, out interface{}) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// redactKey 日志中隐藏 token
func redactKey(key string) string {
	idx := strings.LastIndex(key, ":")
	if idx < 0 || idx == len(key)-1 {
		return key
	}
	return key[:idx+1] + "***"
}
