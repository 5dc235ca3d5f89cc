package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 200

// NewRedisClient 根据配置创建 Redis 客户端，未启用时返回 nil
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCache 共享响应缓存
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache 创建 Redis 响应缓存
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "sf"
	}
	return &RedisCache{client: client, prefix: prefix + ":resp"}
}

// Get 读取缓存
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, ErrCacheUnavailable
	}
	val, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// Set 写入缓存
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheUnavailable
	}
	if err := c.client.Set(ctx, c.buildKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// DeletePrefix 使用 SCAN 删除指定前缀的所有条目
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if c == nil || c.client == nil {
		return 0, ErrCacheUnavailable
	}
	pattern := escapeGlob(c.buildKey(prefix)) + "*"
	removed := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis delete failed: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (c *RedisCache) buildKey(key string) string {
	return c.prefix + ":" + key
}

// escapeGlob 转义 Redis MATCH 模式中的特殊字符
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
