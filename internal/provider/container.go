package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/gateway"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrRedisRequired 选择了 redis 驱动但未启用 Redis
var ErrRedisRequired = errors.New("redis driver selected but redis is disabled")

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	DB     *gorm.DB      // storage.driver 为 redis 时为 nil
	Redis  *redis.Client // 未启用时为 nil

	ResponseCache cache.ResponseCache
	Gateway       *gateway.Gateway
	API           *api.Client

	// Repositories
	SlotRepo repository.SlotRepository

	// Services
	Auth     *service.AuthSession
	Cart     *service.CartCoordinator
	Checkout *service.CheckoutFlows
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	c := &Container{Config: cfg}

	// 初始化 Redis
	c.Redis = cache.NewRedisClient(&cfg.Redis)
	if c.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Redis.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Warnw("provider_redis_ping_failed", "error", err)
		}
	}

	// 响应缓存
	switch cfg.Gateway.CacheDriver {
	case constants.CacheDriverRedis:
		if c.Redis == nil {
			return nil, fmt.Errorf("gateway cache: %w", ErrRedisRequired)
		}
		c.ResponseCache = cache.NewRedisCache(c.Redis, cfg.Redis.Prefix)
	default:
		c.ResponseCache = cache.NewMemoryCache()
	}

	c.Gateway = gateway.New(gateway.Options{
		BaseURL:  cfg.Backend.BaseURL,
		Cache:    c.ResponseCache,
		CacheTTL: cfg.Gateway.CacheTTL(),
		Timeout:  cfg.Backend.Timeout(),
	})
	c.API = api.New(c.Gateway)

	// 本地槽位存储
	slots, err := c.openSlots()
	if err != nil {
		return nil, err
	}
	c.SlotRepo = slots

	c.Auth = service.NewAuthSession(c.API, c.SlotRepo, cfg.Storage.AuthKey)
	c.Cart = service.NewCartCoordinator(c.API, service.NewGuestCartStore(c.SlotRepo, cfg.Storage.GuestCartKey))
	c.Checkout = service.NewCheckoutFlows(c.API, c.Cart, c.Cart)

	logger.Infow("provider_container_ready",
		"backend", cfg.Backend.BaseURL,
		"cache_driver", cfg.Gateway.CacheDriver,
		"storage_driver", cfg.Storage.Driver,
	)
	return c, nil
}

func (c *Container) openSlots() (repository.SlotRepository, error) {
	cfg := c.Config.Storage
	switch cfg.Driver {
	case constants.StorageDriverRedis:
		if c.Redis == nil {
			return nil, fmt.Errorf("slot storage: %w", ErrRedisRequired)
		}
		return repository.NewRedisSlotRepository(c.Redis, c.Config.Redis.Prefix), nil
	case constants.StorageDriverSqlite:
		if dir := filepath.Dir(cfg.DSN); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir failed: %w", err)
			}
		}
	}
	db, err := models.OpenDB(cfg.Driver, cfg.DSN, models.DBPoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open slot storage failed: %w", err)
	}
	c.DB = db
	return repository.NewSlotRepository(db), nil
}

// Close 释放连接
func (c *Container) Close() error {
	var errs []error
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
