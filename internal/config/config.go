package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host      string `yaml:"host" env:"SERVER_HOST"`
		Port      int    `yaml:"port" env:"SERVER_PORT"`
		Env       string `yaml:"env" env:"SERVER_ENV"`
		ClientURL string `yaml:"client_url" env:"CLIENT_URL"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // postgres | sqlite
		DSN    string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`

	JWT struct {
		Secret   string `yaml:"secret" env:"JWT_SECRET"`
		TTLHours int    `yaml:"ttl_hours" env:"JWT_TTL_HOURS"`
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
		SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		FromEmail    string `yaml:"from_email" env:"EMAIL_FROM"`
		FromName     string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	} `yaml:"email"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		Channel  string `yaml:"channel" env:"REDIS_CHANNEL"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Workers struct {
		// 0 отключает воркер пересчета рейтингов
		RatingReconcileMinutes int `yaml:"rating_reconcile_minutes" env:"RATING_RECONCILE_MINUTES"`
	} `yaml:"workers"`
}

var AppConfig *Config

// Default возвращает конфиг со значениями по умолчанию
func Default() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.ClientURL = "http://localhost:3000"
	cfg.Database.Driver = "postgres"
	cfg.JWT.TTLHours = 24 * 7
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "GigMarket"
	cfg.Redis.Channel = "gigmarket:relay"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.Workers.RatingReconcileMinutes = 60
	return &cfg
}

// Load читает YAML (CONFIG_PATH, по умолчанию config/config.yaml) и
// накладывает поверх переменные окружения. Отсутствие файла не ошибка.
func Load() (*Config, error) {
	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// только окружение
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	return nil
}

// LoadConfig загружает конфиг в AppConfig
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetConfig() *Config {
	return AppConfig
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
