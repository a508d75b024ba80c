package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.False(t, cfg.UsesSQL())
	assert.True(t, cfg.DemoFallbackEnabled)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_BACKEND", "sql")
	t.Setenv("DEMO_FALLBACK_ENABLED", "false")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_WRITES", "5")
	t.Setenv("S3_BUCKET", "snapshots")

	cfg := Load()

	assert.True(t, cfg.UsesSQL())
	assert.False(t, cfg.DemoFallbackEnabled)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.RateLimitWrites)
	assert.True(t, cfg.StorageEnabled())
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_INT", "-3")
	t.Setenv("X_DURATION", "soon")

	assert.True(t, envBool("X_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, time.Second, envDuration("X_DURATION", time.Second))
}
