package config

import (
	"errors"
	"fmt"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds the storefront cart service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Store    StoreConfig    `yaml:"store"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SecureCookies   bool          `yaml:"secure_cookies"`
	CartIdleTimeout time.Duration `yaml:"cart_idle_timeout"`
}

type StorageConfig struct {
	Driver      string        `yaml:"driver"` // memory, postgres, redis
	PostgresDSN string        `yaml:"postgres_dsn"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisTTL    time.Duration `yaml:"redis_ttl"`
}

// StoreConfig describes the shop itself.
type StoreConfig struct {
	WhatsAppPhone string `yaml:"whatsapp_phone"`
	SiteURL       string `yaml:"site_url"`
	Currency      string `yaml:"currency"`
}

type WhatsAppConfig struct {
	BaseURL string `yaml:"base_url"`
}

type CatalogConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// RabbitMQConfig enables hand-off publishing when URL is set.
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type NotifyConfig struct {
	Window time.Duration `yaml:"window"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CartIdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Store: StoreConfig{
			WhatsAppPhone: "6281234567890",
			SiteURL:       "http://localhost:3000",
			Currency:      "IDR",
		},
		WhatsApp: WhatsAppConfig{
			BaseURL: "https://wa.me",
		},
		Catalog: CatalogConfig{
			BaseURL: "http://localhost:5001/api",
			Timeout: 5 * time.Second,
		},
		Notify: NotifyConfig{
			Window: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml.Marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("storage.postgres_dsn is required for driver %q", c.Storage.Driver))
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("storage.redis_addr is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver[%s] is not supported", c.Storage.Driver))
	}

	if _, err := c.CurrencyUnit(); err != nil {
		errs = append(errs, err)
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}

	if c.Server.CartIdleTimeout <= 0 {
		errs = append(errs, errors.New("server.cart_idle_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Store.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("store.currency[%s] is not valid: %w", c.Store.Currency, err)
	}
	return unit, nil
}
