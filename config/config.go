package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Marketflow MarketflowConfig `yaml:"marketflow"`
	Server     ServerConfig     `yaml:"server"`
	Client     ClientConfig     `yaml:"client"`
	Logging    LoggingConfig    `yaml:"logging"`
	Accounts   AccountsConfig   `yaml:"accounts"`
}

type MarketflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

type ClientConfig struct {
	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// AccountsConfig lists the seller accounts per marketplace. Every account
// carries a PA label that tags all rows produced from its data. The order
// of accounts here fixes the concatenation order of per-account tables.
type AccountsConfig struct {
	Wildberries []WildberriesAccount `yaml:"wildberries" validate:"dive"`
	Ozon        []OzonAccount        `yaml:"ozon" validate:"dive"`
	Yandex      []YandexAccount      `yaml:"yandex" validate:"dive"`
}

type WildberriesAccount struct {
	PA     string `yaml:"pa" validate:"required"`
	APIKey string `yaml:"api_key" validate:"required"`
}

type OzonAccount struct {
	PA       string `yaml:"pa" validate:"required"`
	ClientID string `yaml:"client_id" validate:"required"`
	APIKey   string `yaml:"api_key" validate:"required"`
}

type YandexAccount struct {
	PA         string `yaml:"pa" validate:"required"`
	CampaignID string `yaml:"campaign_id" validate:"required"`
	BusinessID string `yaml:"business_id" validate:"required"`
	APIKey     string `yaml:"api_key" validate:"required"`
}

// LoadConfig reads and validates the YAML configuration. `${VAR}`
// references inside the file are expanded from the environment so
// credentials can stay out of the file itself.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = 30 * time.Second
	}
	if c.Client.ConnectionPool.MaxIdleConns <= 0 {
		c.Client.ConnectionPool.MaxIdleConns = 100
	}
	if c.Client.ConnectionPool.MaxConnsPerHost <= 0 {
		c.Client.ConnectionPool.MaxConnsPerHost = 10
	}
	if c.Client.ConnectionPool.IdleConnTimeout <= 0 {
		c.Client.ConnectionPool.IdleConnTimeout = 90 * time.Second
	}
	if c.Client.RateLimit.RequestsPerSecond <= 0 {
		c.Client.RateLimit.RequestsPerSecond = 5
	}
	if c.Client.RateLimit.BurstSize <= 0 {
		c.Client.RateLimit.BurstSize = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}
