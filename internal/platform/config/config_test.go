package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PETADOPT_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "")
	t.Setenv("LOGIN_LOCKOUT_WINDOW", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("SEED_ADMIN_EMAIL", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginLockoutWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "admin@petadopt.local", cfg.SeedAdminEmail)
	assert.Empty(t, cfg.SeedAdminPassword)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("BASE_PATH", "/adopciones-api")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "/adopciones-api", cfg.BasePath)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 3, cfg.LoginMaxAttempts)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	t.Run("duration", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("attempts", func(t *testing.T) {
		t.Setenv("LOGIN_MAX_ATTEMPTS", "-1")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
