// Package config loads the API's settings from the environment, applies
// defaults, normalizes a few loose spellings and validates the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/JaidenRM/recipe-shopper-api/internal/sysutil"
)

// CORSConfig lists the origins allowed to call the API. Empty allows any.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls the Strict-Transport-Security header.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// DatabaseConfig selects and locates the relational store.
type DatabaseConfig struct {
	Driver string // sqlite|postgres
	Path   string // sqlite file
	URL    string // postgres DSN
}

// RateLimitConfig defines request throttling. When RedisURL is set the
// limiter is a fixed window shared through Redis, otherwise an in-process
// token bucket.
type RateLimitConfig struct {
	RPS      float64
	Burst    int
	RedisURL string
	Window   time.Duration
}

// SupermarketConfig defines the external product search integrations.
type SupermarketConfig struct {
	WoolworthsBaseURL string
	Timeout           time.Duration // per upstream call
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool
	Endpoint    string // OTLP gRPC, e.g. "otel:4317"
	Insecure    bool
	ServiceName string
	SampleRatio float64 // [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	Database    DatabaseConfig
	Supermarket SupermarketConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Security    SecurityConfig

	// IdempotencyTTL is how long a stored Idempotency-Key can be replayed.
	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// rawEnv mirrors the environment one variable per field. Booleans stay
// strings so "yes"/"on" style values are accepted.
type rawEnv struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"20s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES" envDefault:"1048576"`
	GinMode           string        `env:"GIN_MODE" envDefault:"release"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      string `env:"LOG_PRETTY"`
	SwaggerEnabled string `env:"SWAGGER_ENABLED"`
	APIBasePath    string `env:"API_BASE_PATH" envDefault:"/api/v1"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"recipeshopper.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	WoolworthsBaseURL  string        `env:"WOOLWORTHS_BASE_URL" envDefault:"https://www.woolworths.com.au"`
	SupermarketTimeout time.Duration `env:"SUPERMARKET_TIMEOUT" envDefault:"10s"`

	RateRPS      float64       `env:"RATE_RPS" envDefault:"5"`
	RateBurst    int           `env:"RATE_BURST" envDefault:"10"`
	RateRedisURL string        `env:"RATE_REDIS_URL"`
	RateWindow   time.Duration `env:"RATE_WINDOW" envDefault:"1m"`

	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS"`
	EnableHSTS         string        `env:"ENABLE_HSTS"`
	HSTSMaxAge         time.Duration `env:"HSTS_MAX_AGE" envDefault:"4320h"`

	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	OTELEnabled     string  `env:"OTEL_ENABLED"`
	OTELEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELInsecure    string  `env:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTELServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"recipe-shopper-api"`
	OTELSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}

// MustLoad is Load for callers that cannot continue without a config.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load parses the environment and validates the result. Malformed numbers
// and durations are errors, not silent fallbacks to the default. Every
// validation failure is reported, not just the first.
func Load() (Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := raw.config()
	return cfg, cfg.validate()
}

func (r rawEnv) config() Config {
	cfg := Config{
		Port:              strings.TrimSpace(r.Port),
		ReadTimeout:       r.ReadTimeout,
		ReadHeaderTimeout: r.ReadHeaderTimeout,
		WriteTimeout:      r.WriteTimeout,
		IdleTimeout:       r.IdleTimeout,
		MaxHeaderBytes:    r.MaxHeaderBytes,
		GinMode:           strings.ToLower(strings.TrimSpace(r.GinMode)),

		LogLevel:       strings.ToLower(strings.TrimSpace(r.LogLevel)),
		LogPretty:      flag(r.LogPretty, false),
		SwaggerEnabled: flag(r.SwaggerEnabled, false),
		APIBasePath:    normalizeBasePath(r.APIBasePath),

		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(r.DBDriver)),
			Path:   strings.TrimSpace(r.DBPath),
			URL:    strings.TrimSpace(r.DatabaseURL),
		},
		Supermarket: SupermarketConfig{
			WoolworthsBaseURL: strings.TrimRight(strings.TrimSpace(r.WoolworthsBaseURL), "/"),
			Timeout:           r.SupermarketTimeout,
		},
		RateLimit: RateLimitConfig{
			RPS:      r.RateRPS,
			Burst:    r.RateBurst,
			RedisURL: strings.TrimSpace(r.RateRedisURL),
			Window:   r.RateWindow,
		},
		CORS: CORSConfig{AllowedOrigins: splitCSV(r.CORSAllowedOrigins)},
		Security: SecurityConfig{
			EnableHSTS: flag(r.EnableHSTS, false),
			HSTSMaxAge: r.HSTSMaxAge,
		},
		IdempotencyTTL: r.IdempotencyTTL,
		OTEL: OTELConfig{
			Enabled:     flag(r.OTELEnabled, false),
			Endpoint:    r.OTELEndpoint,
			Insecure:    flag(r.OTELInsecure, true),
			ServiceName: r.OTELServiceName,
			SampleRatio: r.OTELSampleRatio,
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	return cfg
}

func (c Config) validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		check(false, "LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	check(c.Port != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch c.Database.Driver {
	case "sqlite":
		check(c.Database.Path != "", "DB_PATH must not be empty")
	case "postgres":
		check(c.Database.URL != "", "DATABASE_URL must be set when DB_DRIVER=postgres")
	default:
		check(false, "DB_DRIVER must be one of: sqlite, postgres")
	}

	check(c.Supermarket.WoolworthsBaseURL != "", "WOOLWORTHS_BASE_URL must not be empty")
	check(c.Supermarket.Timeout > 0, "SUPERMARKET_TIMEOUT must be > 0")
	check(c.RateLimit.RPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateLimit.Burst >= 1, "RATE_BURST must be >= 1")
	check(c.RateLimit.RedisURL == "" || c.RateLimit.Window > 0, "RATE_WINDOW must be > 0")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")

	return errors.Join(errs...)
}

// flag reads a yes/no style value; anything unrecognised yields def.
func flag(v string, def bool) bool {
	switch {
	case sysutil.IsTruthy(v):
		return true
	case sysutil.IsFalsy(v):
		return false
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeBasePath returns "/x/y" for "x/y/", and "/" for blank input.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
