package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "sandbox")
	t.Setenv("APP_SERVICE_VERSION", "1.0.0")
	t.Setenv("APP_COMMIT_SHA", "1234xwz")
	t.Setenv("LOGGING_LEVEL", "debug")
	t.Setenv("POSTGRES_PASSWORD", "test.Secret")
	t.Setenv("KEYDB_PASSWORD", "insecure.password")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "sandbox", cfg.AppConfig.Env)
	assert.Equal(t, "svc-health-gate", cfg.AppConfig.ServiceName)
	assert.Equal(t, "1.0.0", cfg.AppConfig.ServiceVersion)
	assert.Equal(t, "1234xwz", cfg.AppConfig.CommitSHA)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "test.Secret", cfg.Storage.Password)
	assert.Equal(t, "insecure.password", cfg.Cache.Password)
	assert.True(t, cfg.Queue.Enabled)
}

func TestInit_ReadinessDefaults(t *testing.T) {
	cfg, err := Init()
	assert.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Readiness.Timeout)
	assert.False(t, cfg.Upstream.Enabled)
	assert.False(t, cfg.Queue.Enabled)
}

func TestInit_ReadinessOverride(t *testing.T) {
	t.Setenv("READINESS_TIMEOUT", "250ms")

	cfg, err := Init()
	assert.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Readiness.Timeout)
}
