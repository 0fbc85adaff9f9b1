package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
	"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED",
	"API_BASE_PATH", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "WOOLWORTHS_BASE_URL",
	"SUPERMARKET_TIMEOUT", "RATE_RPS", "RATE_BURST", "RATE_REDIS_URL", "RATE_WINDOW",
	"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE", "IDEMPOTENCY_TTL",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
	"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
}

// cleanEnv unsets every variable Load reads; t.Setenv restores them after.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 20*time.Second, cfg.WriteTimeout)
	assert.Equal(t, time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 1<<20, cfg.MaxHeaderBytes)
	assert.Equal(t, "release", cfg.GinMode)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.False(t, cfg.SwaggerEnabled)
	assert.Equal(t, "/api/v1", cfg.APIBasePath)

	assert.Equal(t, DatabaseConfig{Driver: "sqlite", Path: "recipeshopper.db"}, cfg.Database)
	assert.Equal(t, SupermarketConfig{WoolworthsBaseURL: "https://www.woolworths.com.au", Timeout: 10 * time.Second}, cfg.Supermarket)
	assert.Equal(t, RateLimitConfig{RPS: 5, Burst: 10, Window: time.Minute}, cfg.RateLimit)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, SecurityConfig{HSTSMaxAge: 180 * 24 * time.Hour}, cfg.Security)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, OTELConfig{
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "recipe-shopper-api",
		SampleRatio: 1,
	}, cfg.OTEL)
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	cleanEnv(t)
	for k, v := range map[string]string{
		"PORT":                        " 9000 ",
		"READ_TIMEOUT":                "2s",
		"MAX_HEADER_BYTES":            "8192",
		"GIN_MODE":                    "Bogus",
		"LOG_LEVEL":                   "WARNING",
		"LOG_PRETTY":                  "yes",
		"SWAGGER_ENABLED":             "on",
		"API_BASE_PATH":               "api/v2/",
		"DB_DRIVER":                   " Postgres ",
		"DATABASE_URL":                "postgres://u:p@db:5432/recipes?sslmode=disable",
		"WOOLWORTHS_BASE_URL":         "http://woolies.test//",
		"SUPERMARKET_TIMEOUT":         "3s",
		"RATE_RPS":                    "0.5",
		"RATE_BURST":                  "2",
		"RATE_REDIS_URL":              "redis://cache:6379/1",
		"RATE_WINDOW":                 "30s",
		"CORS_ALLOWED_ORIGINS":        " https://a.example , , http://b.example ",
		"ENABLE_HSTS":                 "TRUE",
		"HSTS_MAX_AGE":                "24h",
		"IDEMPOTENCY_TTL":             "48h",
		"OTEL_ENABLED":                "1",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "otel:4317",
		"OTEL_EXPORTER_OTLP_INSECURE": "off",
		"OTEL_SERVICE_NAME":           "shopper",
		"OTEL_TRACES_SAMPLER_ARG":     "0.25",
	} {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 8192, cfg.MaxHeaderBytes)
	assert.Equal(t, "release", cfg.GinMode, "unknown modes fall back to release")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.True(t, cfg.SwaggerEnabled)
	assert.Equal(t, "/api/v2", cfg.APIBasePath)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/recipes?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "http://woolies.test", cfg.Supermarket.WoolworthsBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Supermarket.Timeout)
	assert.Equal(t, RateLimitConfig{RPS: 0.5, Burst: 2, RedisURL: "redis://cache:6379/1", Window: 30 * time.Second}, cfg.RateLimit)
	assert.Equal(t, []string{"https://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, SecurityConfig{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}, cfg.Security)
	assert.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, OTELConfig{Enabled: true, Endpoint: "otel:4317", ServiceName: "shopper", SampleRatio: 0.25}, cfg.OTEL)
}

func TestLoad_MalformedValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"RATE_RPS", "fast"},
		{"RATE_BURST", "many"},
		{"READ_TIMEOUT", "soon"},
		{"OTEL_TRACES_SAMPLER_ARG", "half"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse env")
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"blank port", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"zero timeout", map[string]string{"WRITE_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"blank sqlite path", map[string]string{"DB_PATH": "  "}, "DB_PATH must not be empty"},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"supermarket timeout", map[string]string{"SUPERMARKET_TIMEOUT": "-1s"}, "SUPERMARKET_TIMEOUT"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"redis window", map[string]string{"RATE_REDIS_URL": "redis://cache:6379", "RATE_WINDOW": "0s"}, "RATE_WINDOW"},
		{"hsts age", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE"},
		{"idempotency ttl", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	cleanEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("RATE_BURST", "0")
	t.Setenv("IDEMPOTENCY_TTL", "-1m")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"LOG_LEVEL", "RATE_BURST", "IDEMPOTENCY_TTL"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_RedisWindowIgnoredWithoutRedis(t *testing.T) {
	cleanEnv(t)
	t.Setenv("RATE_WINDOW", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.RateLimit.RedisURL)
}

func TestMustLoad(t *testing.T) {
	cleanEnv(t)
	assert.NotPanics(t, func() { MustLoad() })

	t.Setenv("DB_DRIVER", "oracle")
	assert.Panics(t, func() { MustLoad() })
}

func TestFlag(t *testing.T) {
	for _, v := range []string{"1", "true", " YES ", "y", "On"} {
		assert.True(t, flag(v, false), v)
	}
	for _, v := range []string{"0", "FALSE", " no ", "n", "off"} {
		assert.False(t, flag(v, true), v)
	}
	assert.True(t, flag("", true))
	assert.False(t, flag("maybe", false))
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV(" , ,"))
	assert.Equal(t, []string{"a", "b", "c"}, splitCSV(" a, ,b ,  c  ,"))
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		" / ":      "/",
		"v1":       "/v1",
		"/v1/":     "/v1",
		"api/v1//": "/api/v1",
		"/api/v1":  "/api/v1",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeBasePath(in), "input %q", in)
	}
}
