package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name: "auth enabled without keys",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.APIKeys = nil
			},
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "invalid" },
			wantErr: true,
		},
		{
			name:    "alpha out of range",
			mutate:  func(c *Config) { c.Analytics.Alpha = 1.5 },
			wantErr: true,
		},
		{
			name:    "trend window too small",
			mutate:  func(c *Config) { c.Analytics.TrendWindow = 1 },
			wantErr: true,
		},
		{
			name:    "max horizon below default horizon",
			mutate:  func(c *Config) { c.Analytics.MaxHorizon = 1 },
			wantErr: true,
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: true,
		},
		{
			name: "disabled cache skips validation",
			mutate: func(c *Config) {
				c.Cache.Enabled = false
				c.Cache.Type = "memcached"
			},
			wantErr: false,
		},
		{
			name: "redis cache without url",
			mutate: func(c *Config) {
				c.Cache.Type = "redis"
				c.Cache.URL = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown queue type",
			mutate:  func(c *Config) { c.Queue.Type = "rabbitmq" },
			wantErr: true,
		},
		{
			name: "kafka queue without brokers",
			mutate: func(c *Config) {
				c.Queue.Type = "kafka"
				c.Queue.KafkaBrokers = nil
				c.Queue.URL = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown job store type",
			mutate:  func(c *Config) { c.Jobs.Type = "etcd" },
			wantErr: true,
		},
		{
			name:    "memory job store without bound",
			mutate:  func(c *Config) { c.Jobs.MaxEntries = 0 },
			wantErr: true,
		},
		{
			name: "memory job store with shared queue",
			mutate: func(c *Config) {
				c.Queue.Type = "nats"
				c.Jobs.Type = "memory"
			},
			wantErr: true,
		},
		{
			name: "redis job store with shared queue",
			mutate: func(c *Config) {
				c.Queue.Type = "redis"
				c.Queue.URL = "redis://localhost:6379/0"
				c.Jobs.Type = "redis"
			},
			wantErr: false,
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 5580 {
		t.Errorf("expected HTTPPort 5580, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Analytics.Window != 3 || cfg.Analytics.Alpha != 0.3 {
		t.Errorf("unexpected forecaster defaults: window=%d alpha=%v", cfg.Analytics.Window, cfg.Analytics.Alpha)
	}

	if cfg.Analytics.AnomalyThreshold != 2.0 {
		t.Errorf("expected anomaly threshold 2.0, got %v", cfg.Analytics.AnomalyThreshold)
	}

	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected cache TTL 10m, got %v", cfg.Cache.TTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsProduction() {
		t.Error("default config should be production mode")
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	if !cfg.IsDevelopment() {
		t.Error("config with debug/console should be development mode")
	}

	if addr := cfg.GetServerAddress(); addr != "0.0.0.0:5580" {
		t.Errorf("expected '0.0.0.0:5580', got %s", addr)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  http_port: 9000
analytics:
  window: 5
  alpha: 0.5
queue:
  type: nats
  url: nats://queue:4222
jobs:
  type: redis
  url: redis://jobs:6379/1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPPort != 9000 {
		t.Errorf("expected HTTPPort 9000, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Analytics.Window != 5 || cfg.Analytics.Alpha != 0.5 {
		t.Errorf("unexpected analytics section: %+v", cfg.Analytics)
	}
	if cfg.Analytics.TrendWindow != 3 {
		t.Errorf("expected default trend window 3, got %d", cfg.Analytics.TrendWindow)
	}
	if cfg.Queue.Type != "nats" || cfg.Queue.URL != "nats://queue:4222" {
		t.Errorf("unexpected queue section: %+v", cfg.Queue)
	}
	if cfg.Jobs.Type != "redis" || cfg.Jobs.KeyPrefix != "finlytics:" {
		t.Errorf("unexpected jobs section: %+v", cfg.Jobs)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 9000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FINLYTICS_SERVER_HTTP_PORT", "9100")
	t.Setenv("FINLYTICS_ANALYTICS_ANOMALY_THRESHOLD", "3.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPPort != 9100 {
		t.Errorf("expected env override 9100, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Analytics.AnomalyThreshold != 3.5 {
		t.Errorf("expected env override 3.5, got %v", cfg.Analytics.AnomalyThreshold)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}
