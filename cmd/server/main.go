package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/storefront-next/internal/app"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认在当前目录及 ./etc 下查找 config.yml")
	flag.Parse()

	// 加载配置
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if !strings.HasPrefix(cfg.Backend.BaseURL, "https://") {
		stdLog.Printf("警告: 后端地址未使用 HTTPS: %s", cfg.Backend.BaseURL)
	}

	printStartupBanner(cfg)

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if strings.TrimSpace(path) == "" {
		return config.Load(), nil
	}
	return config.LoadFile(path)
}

func printStartupBanner(cfg *config.Config) {
	fmt.Println(ansiCyan + ansiBold + "storefront bridge" + ansiReset)
	fmt.Println(ansiDim + "  listen:  " + ansiReset + "http://" + cfg.Server.Addr() + "/api/v1")
	fmt.Println(ansiDim + "  backend: " + ansiReset + cfg.Backend.BaseURL)
	fmt.Println(ansiDim + "  cache:   " + ansiReset + cfg.Gateway.CacheDriver + ", storage: " + cfg.Storage.Driver)
}
