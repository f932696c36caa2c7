package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type API struct {
	BaseURL   string        `env:"BASE_URL"`
	TokenType string        `env:"TOKEN_TYPE" envDefault:"frontEndTest"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Cache struct {
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	Capacity int           `env:"CACHE_CAP" envDefault:"1000"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

type Auth struct {
	TokenFile string `env:"AUTH_TOKEN_FILE"`
}

type Breaker struct {
	Threshold   uint32        `env:"THRESHOLD" envDefault:"5"`
	OpenTimeout time.Duration `env:"OPENTIMEOUT" envDefault:"10s"`
	MaxHalfOpen uint32        `env:"MAXHALFOPEN" envDefault:"3"`
}

type Retry struct {
	Attempts     int           `env:"ATTEMPTS" envDefault:"3"`
	Base         time.Duration `env:"BASE" envDefault:"100ms"`
	Max          time.Duration `env:"MAX" envDefault:"2s"`
	JitterFactor float64       `env:"JITTERFACTOR" envDefault:"0.3"`
}

type Telemetry struct {
	Endpoint    string `env:"ENDPOINT"`
	Enabled     bool   `env:"ENABLED" envDefault:"true"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"sales-dashboard"`
}

// Defaults seed the dashboard filter before the first fetch.
type Defaults struct {
	StartDate string `env:"START_DATE"`
	EndDate   string `env:"END_DATE"`
}

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	API       API       `envPrefix:"API_"`
	Cache     Cache
	Auth      Auth
	Breaker   Breaker   `envPrefix:"BREAKER_"`
	Retry     Retry     `envPrefix:"RETRY_"`
	Telemetry Telemetry `envPrefix:"OTEL_"`
	Defaults  Defaults  `envPrefix:"DEFAULT_"`
}

// Load fatals on error; both binaries call it first thing in main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return &missingEnvError{Keys: []string{"API_BASE_URL"}}
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q", c.API.BaseURL)
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("CACHE_CAP must not be negative, got %d", c.Cache.Capacity)
	}
	return nil
}

// normalize clamps values that would make the retry and breaker loops degenerate.
func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.Retry.Attempts < 1 {
		c.Retry.Attempts = 1
	}
	if c.Retry.Base <= 0 {
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		c.Retry.Max = c.Retry.Base
	}
	if c.Breaker.Threshold == 0 {
		c.Breaker.Threshold = 1
	}
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}
