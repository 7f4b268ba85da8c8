package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "boss@example.com")
	t.Setenv("LISTING_CACHE_TTL_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "boss@example.com", cfg.Bootstrap.Email)
	assert.Equal(t, 30*time.Second, cfg.ListingCacheTTL)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_DevelopmentSecretFallback(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "123")
	t.Setenv("TEST_BAD_INT_VAR", "abc")
	t.Setenv("TEST_BOOL_VAR", "false")
	t.Setenv("TEST_FLOAT_VAR", "2.5")

	assert.Equal(t, 123, GetEnvInt("TEST_INT_VAR", 0))
	assert.Equal(t, 10, GetEnvInt("TEST_BAD_INT_VAR", 10))
	assert.Equal(t, 10, GetEnvInt("TEST_MISSING_INT_VAR", 10))
	assert.False(t, GetEnvBool("TEST_BOOL_VAR", true))
	assert.Equal(t, 2.5, GetEnvFloat("TEST_FLOAT_VAR", 1))
	assert.Equal(t, "default", GetEnv("TEST_MISSING_VAR", "default"))

	t.Setenv("TEST_LIST_VAR", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetEnvList("TEST_LIST_VAR"))
	assert.Nil(t, GetEnvList("TEST_MISSING_LIST_VAR"))
}
