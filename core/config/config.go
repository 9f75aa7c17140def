// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	DashboardURL string
	Telemetry    TelemetryConfig
	Aggregation  AggregationConfig
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
	Enabled      bool
}

type AggregationConfig struct {
	// ShardTimeout bounds each per-workspace query during My Space fan-out.
	ShardTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment. A .env file is honored in
// development and silently skipped when absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:          getEnv("ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:3000"),
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "fairlx-api"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Enabled:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		},
		Aggregation: AggregationConfig{
			ShardTimeout: getDuration("AGGREGATION_SHARD_TIMEOUT", 2*time.Second),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("unparsable duration in environment, using default",
			"key", key, "value", v, "default", def)
		return def
	}
	return d
}
