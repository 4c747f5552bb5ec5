package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Audit sinks
const (
	AuditNone       = "none"
	AuditClickHouse = "clickhouse"
	AuditPostgres   = "postgres"
	AuditKafka      = "kafka"
)

type Config struct {
	// Server
	Port           int
	Env            string
	RequestTimeout time.Duration

	// CORS
	AllowedOrigins []string

	// Model
	ModelPath    string
	ModelURL     string
	ModelTimeout time.Duration

	// Prediction cache
	RedisURL string
	CacheTTL time.Duration

	// Audit sink
	AuditSink     string
	ClickHouseURL string
	PostgresURL   string
	KafkaBrokers  []string
	KafkaTopic    string

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Auth
	AdminToken string
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvInt("PORT", 8080),
		Env:            getEnv("ENV", "development"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),

		ModelPath:    os.Getenv("MODEL_PATH"),
		ModelURL:     os.Getenv("MODEL_URL"),
		ModelTimeout: getEnvDuration("MODEL_TIMEOUT", 5*time.Second),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getEnvDuration("CACHE_TTL", 10*time.Minute),

		AuditSink:  strings.ToLower(getEnv("AUDIT_SINK", AuditNone)),
		KafkaTopic: getEnv("KAFKA_TOPIC", "cricket.predictions"),

		WorkerCount:   getEnvInt("WORKER_COUNT", 2),
		QueueSize:     getEnvInt("QUEUE_SIZE", 1000),
		BatchSize:     getEnvInt("BATCH_SIZE", 100),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 2*time.Second),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))

	// Exactly one model source
	switch {
	case cfg.ModelPath == "" && cfg.ModelURL == "":
		return nil, fmt.Errorf("missing required environment variable: MODEL_PATH or MODEL_URL")
	case cfg.ModelPath != "" && cfg.ModelURL != "":
		return nil, fmt.Errorf("MODEL_PATH and MODEL_URL are mutually exclusive")
	}

	// Sink connection is critical only for the chosen sink
	var err error
	switch cfg.AuditSink {
	case AuditNone:
	case AuditClickHouse:
		if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
			return nil, err
		}
	case AuditPostgres:
		if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
			return nil, err
		}
	case AuditKafka:
		brokers, err := getEnvRequired("KAFKA_BROKERS")
		if err != nil {
			return nil, err
		}
		cfg.KafkaBrokers = splitList(brokers)
	default:
		return nil, fmt.Errorf("unsupported AUDIT_SINK %q", cfg.AuditSink)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in a local environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
