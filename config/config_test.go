package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, SQLite, cfg.Database.Type)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 3, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 60*time.Second, cfg.Security.LockoutDuration)
	assert.Equal(t, time.Hour, cfg.Security.TokenValidity)
	assert.Equal(t, "admin", cfg.Security.AdminRole)
	assert.Equal(t, 8, cfg.PasswordPolicy.MinLength)
	assert.Equal(t, 12, cfg.PasswordPolicy.MaxLength)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("IBEERE_JWT_SECRET", "from-env")
	t.Setenv("IBEERE_LOCKOUT_DURATION", "90s")
	t.Setenv("IBEERE_PASSWORD_MIN_LENGTH", "10")
	t.Setenv("IBEERE_DB_TYPE", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Security.JWTSecret)
	assert.Equal(t, 90*time.Second, cfg.Security.LockoutDuration)
	assert.Equal(t, 10, cfg.PasswordPolicy.MinLength)
	assert.Equal(t, Memory, cfg.Database.Type)

	// Untouched settings keep their defaults
	assert.Equal(t, 3, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 12, cfg.PasswordPolicy.MaxLength)
}

func TestConfigBuilder(t *testing.T) {
	t.Parallel()

	cfg := NewConfigBuilder().
		WithDatabase(Memory, "").
		WithJWTSecret("s").
		WithBcryptCost(4).
		WithLockout(5, 2*time.Minute).
		Build()

	assert.Equal(t, Memory, cfg.Database.Type)
	assert.Equal(t, "s", cfg.Security.JWTSecret)
	assert.Equal(t, 4, cfg.Security.BcryptCost)
	assert.Equal(t, 5, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Security.LockoutDuration)
}
