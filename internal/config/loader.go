package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FINLYTICS_SERVER_HTTP_PORT
const EnvPrefix = "FINLYTICS"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/finlytics")
	}

	setDefaults(v)

	// Nested keys map to underscores: server.http_port -> FINLYTICS_SERVER_HTTP_PORT
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults mirrors DefaultConfig so every key is known to viper,
// which AutomaticEnv needs to resolve env-only overrides during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)

	v.SetDefault("analytics.model", d.Analytics.Model)
	v.SetDefault("analytics.window", d.Analytics.Window)
	v.SetDefault("analytics.alpha", d.Analytics.Alpha)
	v.SetDefault("analytics.horizon", d.Analytics.Horizon)
	v.SetDefault("analytics.trend_window", d.Analytics.TrendWindow)
	v.SetDefault("analytics.seasonal_period", d.Analytics.SeasonalPeriod)
	v.SetDefault("analytics.anomaly_threshold", d.Analytics.AnomalyThreshold)
	v.SetDefault("analytics.ema_span", d.Analytics.EMASpan)
	v.SetDefault("analytics.volatility_window", d.Analytics.VolatilityWindow)
	v.SetDefault("analytics.lookback", d.Analytics.Lookback)
	v.SetDefault("analytics.max_series_length", d.Analytics.MaxSeriesLength)
	v.SetDefault("analytics.max_horizon", d.Analytics.MaxHorizon)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.url", d.Cache.URL)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)

	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.username", d.Queue.Username)
	v.SetDefault("queue.password", d.Queue.Password)
	v.SetDefault("queue.subject", d.Queue.Subject)
	v.SetDefault("queue.redis_db", d.Queue.RedisDB)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.redis_group", d.Queue.RedisGroup)
	v.SetDefault("queue.redis_consumer", d.Queue.RedisConsumer)
	v.SetDefault("queue.kafka_brokers", d.Queue.KafkaBrokers)
	v.SetDefault("queue.kafka_group_id", d.Queue.KafkaGroupID)

	v.SetDefault("jobs.type", d.Jobs.Type)
	v.SetDefault("jobs.url", d.Jobs.URL)
	v.SetDefault("jobs.ttl", d.Jobs.TTL)
	v.SetDefault("jobs.max_entries", d.Jobs.MaxEntries)
	v.SetDefault("jobs.key_prefix", d.Jobs.KeyPrefix)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5580,
			BodyLimit:    4 * 1024 * 1024,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
		Analytics: AnalyticsConfig{
			Model:            "linear_trend",
			Window:           3,
			Alpha:            0.3,
			Horizon:          12,
			TrendWindow:      3,
			SeasonalPeriod:   12,
			AnomalyThreshold: 2.0,
			EMASpan:          12,
			VolatilityWindow: 20,
			Lookback:         0,
			MaxSeriesLength:  100000,
			MaxHorizon:       1000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Type:       "memory",
			URL:        "redis://localhost:6379/0",
			TTL:        10 * time.Minute,
			MaxEntries: 1024,
			KeyPrefix:  "finlytics:cache:",
		},
		Queue: QueueConfig{
			Type:         "memory",
			URL:          "nats://localhost:4222",
			Subject:      "finlytics.jobs",
			RedisStream:  "finlytics",
			RedisGroup:   "finlytics-group",
			KafkaBrokers: []string{"localhost:9092"},
			KafkaGroupID: "finlytics-workers",
		},
		Jobs: JobsConfig{
			Type:       "memory",
			URL:        "redis://localhost:6379/0",
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
			KeyPrefix:  "finlytics:",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
