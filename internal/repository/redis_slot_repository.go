package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSlotRepository Redis 实现，槽位不过期
type RedisSlotRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSlotRepository 创建 Redis 槽位仓库
func NewRedisSlotRepository(client *redis.Client, prefix string) *RedisSlotRepository {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "sf"
	}
	return &RedisSlotRepository{client: client, prefix: prefix + ":slot:"}
}

// Get 读取槽位
func (r *RedisSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Put 写入槽位
func (r *RedisSlotRepository) Put(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete 删除槽位
func (r *RedisSlotRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
