package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const ServiceName = "archimedes-api"

type Config struct {
	Env      string `mapstructure:"ARC_ENV"`
	HTTPAddr string `mapstructure:"ARC_HTTP_ADDR"`

	Storage  StorageConfig  `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Prices   PriceConfig    `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

type StorageConfig struct {
	// Backend selects the watchlist store: "memory" or "postgres".
	Backend     string `mapstructure:"ARC_STORAGE_BACKEND"`
	PostgresDSN string `mapstructure:"ARC_POSTGRES_DSN"`
}

type CacheConfig struct {
	RedisAddr string `mapstructure:"ARC_REDIS_ADDR"`
}

type PriceConfig struct {
	CacheTTL        time.Duration `mapstructure:"ARC_PRICE_CACHE_TTL"`        // Enrichment price cache freshness window
	PublishInterval time.Duration `mapstructure:"ARC_PRICE_PUBLISH_INTERVAL"` // Live feed tick interval
	MockVolatility  float64       `mapstructure:"ARC_PRICE_MOCK_VOLATILITY"`  // Random walk volatility for the simulated venue
}

type SecurityConfig struct {
	RateLimitRPM       int      `mapstructure:"ARC_RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `mapstructure:"ARC_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

func Load() (*Config, error) {
	loadDotEnvFiles()

	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("ARC_ENV", "dev")
	viper.SetDefault("ARC_HTTP_ADDR", ":8080")
	viper.SetDefault("ARC_STORAGE_BACKEND", "memory")
	viper.SetDefault("ARC_POSTGRES_DSN", "")
	viper.SetDefault("ARC_REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("ARC_PRICE_CACHE_TTL", "60s")
	viper.SetDefault("ARC_PRICE_PUBLISH_INTERVAL", "2s")
	viper.SetDefault("ARC_PRICE_MOCK_VOLATILITY", 0.002)
	viper.SetDefault("ARC_RATE_LIMIT_RPM", 120)
	viper.SetDefault("ARC_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	if origins := viper.GetString("ARC_CORS_ALLOWED_ORIGINS"); origins != "" {
		viper.Set("ARC_CORS_ALLOWED_ORIGINS", strings.Split(origins, ","))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("ARC_POSTGRES_DSN is required when ARC_STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("invalid ARC_STORAGE_BACKEND %q (must be memory or postgres)", c.Storage.Backend)
	}

	if c.Prices.CacheTTL <= 0 {
		return fmt.Errorf("ARC_PRICE_CACHE_TTL must be positive")
	}
	if c.Prices.PublishInterval <= 0 {
		return fmt.Errorf("ARC_PRICE_PUBLISH_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
