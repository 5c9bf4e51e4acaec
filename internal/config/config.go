package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	BodyLimit    int           `mapstructure:"body_limit"`    // Max request body in bytes
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Fiber read timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Fiber write timeout
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// AnalyticsConfig holds the defaults applied when a request omits a parameter
type AnalyticsConfig struct {
	Model            string  `mapstructure:"model"`             // Default forecaster
	Window           int     `mapstructure:"window"`            // Moving-average window
	Alpha            float64 `mapstructure:"alpha"`             // Exponential smoothing factor
	Horizon          int     `mapstructure:"horizon"`           // Forecast periods
	TrendWindow      int     `mapstructure:"trend_window"`      // Trailing points for trend detection
	SeasonalPeriod   int     `mapstructure:"seasonal_period"`   // Seasonality phase count
	AnomalyThreshold float64 `mapstructure:"anomaly_threshold"` // |z| cut-off
	EMASpan          int     `mapstructure:"ema_span"`          // Exponential moving average span
	VolatilityWindow int     `mapstructure:"volatility_window"` // Rolling volatility window
	Lookback         int     `mapstructure:"lookback"`          // Metrics lookback, 0 = whole series
	MaxSeriesLength  int     `mapstructure:"max_series_length"` // Reject longer inputs
	MaxHorizon       int     `mapstructure:"max_horizon"`       // Reject longer forecasts
}

// CacheConfig represents the analysis result cache
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Type       string        `mapstructure:"type"`        // memory (default), redis
	URL        string        `mapstructure:"url"`         // redis://host:port/db
	TTL        time.Duration `mapstructure:"ttl"`         // Entry lifetime
	MaxEntries int           `mapstructure:"max_entries"` // Memory backend bound
	KeyPrefix  string        `mapstructure:"key_prefix"`  // Redis key namespace
}

// JobsConfig represents the job status store. It is never shared with the
// result cache, so result traffic cannot evict job records.
type JobsConfig struct {
	Type       string        `mapstructure:"type"`        // memory (default), redis
	URL        string        `mapstructure:"url"`         // redis://host:port/db
	TTL        time.Duration `mapstructure:"ttl"`         // How long finished jobs stay readable
	MaxEntries int           `mapstructure:"max_entries"` // Memory backend bound
	KeyPrefix  string        `mapstructure:"key_prefix"`  // Redis key namespace
}

// StoreConfig returns the cache settings backing the job store
func (c JobsConfig) StoreConfig() CacheConfig {
	return CacheConfig{
		Enabled:    true,
		Type:       c.Type,
		URL:        c.URL,
		TTL:        c.TTL,
		MaxEntries: c.MaxEntries,
		KeyPrefix:  c.KeyPrefix,
	}
}

// QueueConfig represents message queue configuration for async jobs
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: memory (default), nats, redis, kafka
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication
	Subject  string `mapstructure:"subject"`  // Job subject/topic

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "finlytics")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "finlytics-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Jobs.Validate(); err != nil {
		return fmt.Errorf("jobs config: %w", err)
	}

	// Workers of a shared queue run in other processes and must see the same store
	if !isMemory(c.Queue.Type) && isMemory(c.Jobs.Type) {
		return fmt.Errorf("jobs config: jobs.type memory cannot be used with a %s queue; use redis", c.Queue.Type)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}
	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// Validate validates analytics defaults
func (c *AnalyticsConfig) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("analytics.window must be at least 1")
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("analytics.alpha must be in (0, 1]")
	}
	if c.Horizon < 0 {
		return fmt.Errorf("analytics.horizon cannot be negative")
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("analytics.trend_window must be at least 2")
	}
	if c.SeasonalPeriod < 1 {
		return fmt.Errorf("analytics.seasonal_period must be at least 1")
	}
	if c.AnomalyThreshold <= 0 {
		return fmt.Errorf("analytics.anomaly_threshold must be positive")
	}
	if c.EMASpan < 1 {
		return fmt.Errorf("analytics.ema_span must be at least 1")
	}
	if c.VolatilityWindow < 2 {
		return fmt.Errorf("analytics.volatility_window must be at least 2")
	}
	if c.MaxSeriesLength < 1 {
		return fmt.Errorf("analytics.max_series_length must be at least 1")
	}
	if c.MaxHorizon < c.Horizon {
		return fmt.Errorf("analytics.max_horizon cannot be below analytics.horizon")
	}
	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Type {
	case "memory", "":
		if c.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be at least 1")
		}
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis'")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}

// Validate validates job store configuration
func (c *JobsConfig) Validate() error {
	switch c.Type {
	case "memory", "":
		if c.MaxEntries < 1 {
			return fmt.Errorf("jobs.max_entries must be at least 1")
		}
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("jobs.url is required for redis job store")
		}
	default:
		return fmt.Errorf("jobs.type must be 'memory' or 'redis'")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("jobs.ttl must be positive")
	}
	return nil
}

func isMemory(backend string) bool {
	return backend == "memory" || backend == ""
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "memory", "":
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("queue.url is required for %s queue", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("queue.kafka_brokers is required for kafka queue")
		}
	default:
		return fmt.Errorf("queue.type must be one of: memory, nats, redis, kafka")
	}
	if c.Subject == "" {
		return fmt.Errorf("queue.subject is required")
	}
	return nil
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Scrape path, outside the /v1 auth group
}

// Validate validates metrics configuration
func (c *MetricsConfig) Validate() error {
	if c.Enabled && !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}
