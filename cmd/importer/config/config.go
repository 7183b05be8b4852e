package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string        `env:"DATABASE_URL" validate:"required"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379" validate:"required,url"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	MetricsAddr string        `env:"METRICS_ADDR" envDefault:":9090"`

	WorkerConcurrency int     `env:"WORKER_CONCURRENCY" envDefault:"2" validate:"min=1,max=32"`
	ScraperRPS        float64 `env:"SCRAPER_RPS" envDefault:"2" validate:"gte=0"`

	Publisher Publisher
	OpenAI    OpenAI
	RabbitMQ  RabbitMQ
}

// Publisher holds destination API client configuration.
type Publisher struct {
	APIVersion         string        `env:"API_VERSION" envDefault:"2026-01" validate:"required"`
	RateLimitRetries   int           `env:"RATE_LIMIT_RETRIES" envDefault:"5" validate:"min=1,max=10"`
	RateLimitBaseDelay time.Duration `env:"RATE_LIMIT_BASE_DELAY" envDefault:"1s" validate:"gt=0"`
	ImageMaxDimension  int           `env:"IMAGE_MAX_DIMENSION" envDefault:"2000" validate:"min=1"`
	ImageJPEGQuality   int           `env:"IMAGE_JPEG_QUALITY" envDefault:"85" validate:"min=1,max=100"`
}

// OpenAI holds description rewriting configuration. Rewriting is disabled without API key.
type OpenAI struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	Model   string `env:"OPENAI_MODEL"`
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL          string `env:"RABBITMQ_URL" validate:"required"`
	Exchange     string `env:"RABBITMQ_EXCHANGE" envDefault:"sfi-ex" validate:"required"`
	ImportQueue  string `env:"RABBITMQ_IMPORT_QUEUE" envDefault:"storefront-importer.imports" validate:"required"`
	BillingQueue string `env:"RABBITMQ_BILLING_QUEUE" envDefault:"storefront-importer.billing" validate:"required"`
}

// Load loads configuration from environment, optional .env file in working directory is loaded first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("can't load .env file: %w", err)
	}

	return Parse()
}

// Parse parses and validates configuration from environment.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("can't parse env variables: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
