package app

import (
	"os"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 桥接进程启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Signals []os.Signal // 为空时不监听信号，由 ctx 或服务退出驱动停止
	// ShutdownTimeout 为 0 时取 server.shutdown_timeout_seconds
	ShutdownTimeout time.Duration
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 && opts.Config != nil {
		opts.ShutdownTimeout = opts.Config.Server.ShutdownTimeout()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	return opts
}
