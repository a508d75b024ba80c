package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Store: "memory" keeps everything in process, "sql" uses DB_DRIVER
	StoreBackend string
	DBDriver     string
	DBConnection string
	SeedDemoData bool

	// Dashboards
	DemoFallbackEnabled bool

	// Background sweeps (goal expiry, overdue pledges)
	SweepInterval time.Duration

	// HTTP
	CORSOrigins     []string
	RateLimitWrites int
	RateLimitWindow time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Snapshot exports (optional, S3-compatible: MinIO, AWS S3, R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "CarePledge"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Store
		StoreBackend: envString("STORE_BACKEND", StoreMemory),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/carepledge.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		SeedDemoData: envBool("SEED_DEMO_DATA", true),

		DemoFallbackEnabled: envBool("DEMO_FALLBACK_ENABLED", true),

		SweepInterval: envDuration("SWEEP_INTERVAL", 5*time.Minute),

		// HTTP
		CORSOrigins:     envList("CORS_ORIGINS", []string{"*"}),
		RateLimitWrites: envInt("RATE_LIMIT_WRITES", 60),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 24*time.Hour),
	}

	if cfg.StoreBackend != StoreMemory && cfg.StoreBackend != StoreSQL {
		slog.Error("config invalid STORE_BACKEND", "value", cfg.StoreBackend, "allowed", []string{StoreMemory, StoreSQL})
		os.Exit(1)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows some services (like email) to use fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.StoreBackend == StoreMemory {
		slog.Warn("production deployment uses the memory store, data is lost on restart",
			"hint", "set STORE_BACKEND=sql")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) UsesSQL() bool {
	return c.StoreBackend == StoreSQL
}

// StorageEnabled reports whether snapshot exports have somewhere to go.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
