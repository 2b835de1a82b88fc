package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type DatabaseType string

const (
	PostgreSQL DatabaseType = "postgres"
	MySQL      DatabaseType = "mysql"
	SQLite     DatabaseType = "sqlite"
	Memory     DatabaseType = "memory"
)

// Config holds all configuration for the quiz backend
type Config struct {
	Database       DatabaseConfig  `envPrefix:"IBEERE_DB_"`
	Security       SecurityConfig  `envPrefix:"IBEERE_"`
	PasswordPolicy PasswordPolicy  `envPrefix:"IBEERE_PASSWORD_"`
	RateLimit      RateLimitConfig `envPrefix:"IBEERE_RATELIMIT_"`
}

// DatabaseConfig holds the database connection settings
type DatabaseConfig struct {
	Type          DatabaseType  `env:"TYPE"`
	ConnectionURL string        `env:"URL"`
	MaxOpenConns  int           `env:"MAX_OPEN_CONNS"`
	MaxIdleConns  int           `env:"MAX_IDLE_CONNS"`
	ConnMaxLife   time.Duration `env:"CONN_MAX_LIFE"`
	AutoMigrate   bool          `env:"AUTO_MIGRATE"` // Automatically run migrations
}

// SecurityConfig holds security related settings
type SecurityConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenValidity    time.Duration `env:"TOKEN_VALIDITY"`
	BcryptCost       int           `env:"BCRYPT_COST"`
	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS"` // Failed attempts before lockout
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION"`   // How long the lockout lasts
	AdminRole        string        `env:"ADMIN_ROLE"`         // Role claim required for privileged routes
}

type RateLimitConfig struct {
	Enabled         bool          `env:"ENABLED"`
	LoginPerMin     int           `env:"LOGIN_PER_MIN"`    // Max login attempts per min per ip
	BurstSize       int           `env:"BURST_SIZE"`       // Burst size for rate limiter
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"` // How often to clean up idle limiters
}

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type:          SQLite,
			ConnectionURL: "ibeere.db",
			MaxOpenConns:  25,
			MaxIdleConns:  5,
			ConnMaxLife:   5 * time.Minute,
			AutoMigrate:   true,
		},
		Security: SecurityConfig{
			JWTSecret:        "",
			TokenValidity:    time.Hour,
			BcryptCost:       10,
			MaxLoginAttempts: 3,
			LockoutDuration:  60 * time.Second,
			AdminRole:        "admin",
		},
		PasswordPolicy: DefaultPasswordPolicy(),
		RateLimit: RateLimitConfig{
			Enabled:         true,
			LoginPerMin:     5,
			BurstSize:       10,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// FromEnv returns the default config with overrides applied from the
// environment. Only variables that are actually set override a default.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// ConfigBuilder provides a interface for building Config
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: DefaultConfig(),
	}
}

// WithDatabase sets the database configuration
func (b *ConfigBuilder) WithDatabase(dbType DatabaseType, connURL string) *ConfigBuilder {
	b.config.Database.Type = dbType
	b.config.Database.ConnectionURL = connURL
	return b
}

// WithJWTSecret sets the token signing secret
func (b *ConfigBuilder) WithJWTSecret(secret string) *ConfigBuilder {
	b.config.Security.JWTSecret = secret
	return b
}

// WithTokenValidity sets how long issued tokens stay valid
func (b *ConfigBuilder) WithTokenValidity(d time.Duration) *ConfigBuilder {
	b.config.Security.TokenValidity = d
	return b
}

// WithPasswordPolicy sets the password policy
func (b *ConfigBuilder) WithPasswordPolicy(policy PasswordPolicy) *ConfigBuilder {
	b.config.PasswordPolicy = policy
	return b
}

// WithBcryptCost sets the bcrypt cost
func (b *ConfigBuilder) WithBcryptCost(cost int) *ConfigBuilder {
	b.config.Security.BcryptCost = cost
	return b
}

// WithLockout configures the failed-login lockout
func (b *ConfigBuilder) WithLockout(maxAttempts int, duration time.Duration) *ConfigBuilder {
	b.config.Security.MaxLoginAttempts = maxAttempts
	b.config.Security.LockoutDuration = duration
	return b
}

// WithRateLimit configures login rate limiting
func (b *ConfigBuilder) WithRateLimit(enabled bool, loginPerMin int) *ConfigBuilder {
	b.config.RateLimit.Enabled = enabled
	b.config.RateLimit.LoginPerMin = loginPerMin
	return b
}

// Build returns the final Config
func (b *ConfigBuilder) Build() *Config {
	return b.config
}
