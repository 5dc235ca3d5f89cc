package app

import (
	"errors"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/router"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	// HTTP 服务最后登记，停止时最先关闭
	sessionService := NewSessionService(container.Auth, container.Cart)
	engine := router.SetupRouter(cfg, container)
	httpService := NewHTTPService(cfg.Server.Addr(), engine)

	return NewRunner(sessionService, httpService), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container, err := provider.NewContainer(opts.Config)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			opts.Logger.Warnw("app_container_close_failed", "error", err)
		}
	}()

	runner, err := BuildRunner(opts.Config, container)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "backend", opts.Config.Backend.BaseURL)
	return RunWithOptions(runner, opts)
}
