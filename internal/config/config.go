package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      int
	Database  DatabaseConfig
	Redis     RedisConfig
	Probes    ProbeConfig
	Retention RetentionConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type         string // postgres
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds the cache/broker endpoint used by the redis probe.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ProbeConfig holds the tunable thresholds for the probe set.
type ProbeConfig struct {
	SelfURL           string        // liveness probe target
	HTTPTimeout       time.Duration // liveness probe request timeout
	QueryTimeout      time.Duration // per-probe bound on datastore round-trips
	WebhookWindow     time.Duration // trailing window for delivery success ratio
	WebhookDegraded   float64       // ratio below which the pipeline is degraded
	WebhookOutage     float64       // ratio below which the pipeline is out
	SchedulerGrace    time.Duration // how far past due a dispatch may run late
	SchedulerStuckMax int           // stuck dispatches tolerated before degraded
	BroadcastBound    time.Duration // expected upper bound on a campaign run
}

// RetentionConfig holds the cleanup windows for historical data.
type RetentionConfig struct {
	Checks        time.Duration
	Notifications time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	port := getEnvInt("PORT", 8080)

	cfg := &Config{
		Port: port,
		Database: DatabaseConfig{
			Type:         getEnv("DATABASE_TYPE", "postgres"),
			DSN:          getEnv("DATABASE_DSN", buildPostgresDSN()),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Probes: ProbeConfig{
			SelfURL:           getEnv("SELF_URL", fmt.Sprintf("http://localhost:%d/health", port)),
			HTTPTimeout:       getEnvDuration("PROBE_HTTP_TIMEOUT", 10*time.Second),
			QueryTimeout:      getEnvDuration("PROBE_QUERY_TIMEOUT", 5*time.Second),
			WebhookWindow:     getEnvDuration("WEBHOOK_WINDOW", 5*time.Minute),
			WebhookDegraded:   getEnvFloat("WEBHOOK_DEGRADED_RATIO", 0.9),
			WebhookOutage:     getEnvFloat("WEBHOOK_OUTAGE_RATIO", 0.5),
			SchedulerGrace:    getEnvDuration("SCHEDULER_GRACE", 5*time.Minute),
			SchedulerStuckMax: getEnvInt("SCHEDULER_STUCK_MAX", 10),
			BroadcastBound:    getEnvDuration("BROADCAST_BOUND", time.Hour),
		},
		Retention: RetentionConfig{
			Checks:        getEnvDuration("CHECK_RETENTION", 7*24*time.Hour),
			Notifications: getEnvDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func buildPostgresDSN() string {
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "statusd")
	password := getEnv("POSTGRES_PASSWORD", "secret")
	dbName := getEnv("POSTGRES_DB", "statusd")
	sslMode := getEnv("POSTGRES_SSLMODE", "disable")

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(user, password),
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   dbName,
	}

	query := u.Query()
	query.Set("sslmode", sslMode)
	u.RawQuery = query.Encode()

	return u.String()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Probes.WebhookOutage > c.Probes.WebhookDegraded {
		return fmt.Errorf("WEBHOOK_OUTAGE_RATIO (%.2f) must not exceed WEBHOOK_DEGRADED_RATIO (%.2f)",
			c.Probes.WebhookOutage, c.Probes.WebhookDegraded)
	}

	if c.Probes.SchedulerStuckMax < 0 {
		return fmt.Errorf("SCHEDULER_STUCK_MAX must not be negative")
	}

	if c.Retention.Checks <= 0 || c.Retention.Notifications <= 0 {
		return fmt.Errorf("retention windows must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
