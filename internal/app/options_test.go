package app

import (
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestNormalizeOptionsShutdownTimeout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want time.Duration
	}{
		{"default", Options{}, defaultShutdownTimeout},
		{"from config", Options{Config: &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}}, 3 * time.Second},
		{"explicit wins", Options{Config: &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}, ShutdownTimeout: time.Second}, time.Second},
		{"zero config", Options{Config: &config.Config{}}, defaultShutdownTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeOptions(tt.opts)
			if got.ShutdownTimeout != tt.want {
				t.Fatalf("want %s got %s", tt.want, got.ShutdownTimeout)
			}
			if got.Logger == nil {
				t.Fatalf("logger should be defaulted")
			}
		})
	}
}
