package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const devSessionSecret = "menumagic-dev-secret-change-me"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Orders    OrdersConfig    `yaml:"orders"`
	Inventory InventoryConfig `yaml:"inventory"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port          string `yaml:"port"`
	GinMode       string `yaml:"gin_mode"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type DatabaseConfig struct {
	URL           string        `yaml:"url"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	CookieSecure bool          `yaml:"cookie_secure"`
	TTL          time.Duration `yaml:"ttl"`
}

type OrdersConfig struct {
	TaxRate string `yaml:"tax_rate"`
}

type InventoryConfig struct {
	AllowNegative bool `yaml:"allow_negative"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			GinMode:       "debug",
			PublicBaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Password:      "postgres",
			Name:          "menumagic",
			SSLMode:       "disable",
			SlowThreshold: 200 * time.Millisecond,
			MaxOpenConns:  25,
			MaxIdleConns:  5,
		},
		Session: SessionConfig{
			Secret: devSessionSecret,
			TTL:    7 * 24 * time.Hour,
		},
		Orders:   OrdersConfig{TaxRate: "0.16"},
		RabbitMQ: RabbitMQConfig{Exchange: "order_events"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.Server.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", c.Server.PublicBaseURL), "/")

	// Render-style hosts hand out DATABASE_URL; DB_URL is the local fallback
	c.Database.URL = getEnv("DATABASE_URL", getEnv("DB_URL", c.Database.URL))
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.SlowThreshold = getDuration("DB_SLOW_THRESHOLD", c.Database.SlowThreshold)
	c.Database.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)

	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	c.Session.CookieSecure = getBool("COOKIE_SECURE", c.Session.CookieSecure)
	c.Session.TTL = getDuration("SESSION_TTL", c.Session.TTL)

	c.Orders.TaxRate = getEnv("ORDER_TAX_RATE", c.Orders.TaxRate)
	c.Inventory.AllowNegative = getBool("INVENTORY_ALLOW_NEGATIVE", c.Inventory.AllowNegative)

	c.RabbitMQ.URL = getEnv("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Server.Port)
	}
	rate, err := c.TaxRate()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s out of range [0, 1)", rate)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Server.GinMode == "release" && (c.Session.Secret == devSessionSecret || len(c.Session.Secret) < 32) {
		return errors.New("SESSION_SECRET must be set to at least 32 characters in release mode")
	}
	return nil
}

func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Orders.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", c.Orders.TaxRate, err)
	}
	return rate, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
