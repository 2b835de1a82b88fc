package ibeere

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/handlers"
	"github.com/tobibamidele/ibeere/middleware"
	"github.com/tobibamidele/ibeere/store"
	"github.com/tobibamidele/ibeere/store/memory"
	"github.com/tobibamidele/ibeere/store/mysql"
	"github.com/tobibamidele/ibeere/store/postgres"
	"github.com/tobibamidele/ibeere/store/sqlite"
	"github.com/tobibamidele/ibeere/validator"
)

// Ibeere is the quiz backend. It owns the store, the credential lifecycle
// (policy, hashing, lockout, tokens) and the quiz handlers
type Ibeere struct {
	config            *config.Config
	store             store.Store
	passwordValidator *validator.PasswordValidator
	authHandler       *handlers.AuthHandler
	questionsHandler  *handlers.QuestionsHandler
	scoresHandler     *handlers.ScoresHandler
	middleware        *middleware.Middleware
	loginLimiter      *middleware.RateLimiter
	logger            *slog.Logger
}

// New creates a new Ibeere instance with the provided configuration
func New(cfg *config.Config) (*Ibeere, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Tokens are worthless without a signing secret
	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("security: JWT secret must be set")
	}

	// Initialize the appropriate database store
	var st store.Store
	var err error

	switch cfg.Database.Type {
	case config.PostgreSQL:
		st, err = postgres.New(
			cfg.Database.ConnectionURL,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLife,
		)
	case config.MySQL:
		st, err = mysql.New(
			cfg.Database.ConnectionURL,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLife,
		)
	case config.SQLite:
		st, err = sqlite.New(
			cfg.Database.ConnectionURL,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLife,
		)
	case config.Memory:
		st = memory.New()
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// Run migrations if enabled
	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := st.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger := slog.Default().With("component", "ibeere")

	// Initialize password validator
	pwValidator := validator.NewPasswordValidator(cfg.PasswordPolicy)

	i := &Ibeere{
		config:            cfg,
		store:             st,
		passwordValidator: pwValidator,
		logger:            logger,
	}

	// Initialize handlers
	i.authHandler = handlers.NewAuthHandler(st, cfg, pwValidator, logger)
	i.questionsHandler = handlers.NewQuestionsHandler(st, logger)
	i.scoresHandler = handlers.NewScoresHandler(st, logger)

	// Initialize middleware
	i.middleware = middleware.New(*cfg)

	if cfg.RateLimit.Enabled {
		i.loginLimiter = middleware.NewRateLimiter(
			cfg.RateLimit.LoginPerMin,
			cfg.RateLimit.BurstSize,
			cfg.RateLimit.CleanupInterval,
		)
	}

	return i, nil
}

// Close closes the database connection
func (i *Ibeere) Close() error {
	return i.store.Close()
}

// Handler Methods - These return http.HandlerFunc for easy mounting

// RegisterHandler returns the registration handler
func (i *Ibeere) RegisterHandler() http.HandlerFunc {
	return i.authHandler.Register
}

// LoginHandler returns the login handler, rate limited per IP when enabled
func (i *Ibeere) LoginHandler() http.Handler {
	if i.loginLimiter != nil {
		return i.loginLimiter.Limit(http.HandlerFunc(i.authHandler.Login))
	}
	return http.HandlerFunc(i.authHandler.Login)
}

// MeHandler returns the current user handler
func (i *Ibeere) MeHandler() http.HandlerFunc {
	return i.authHandler.Me
}

// ChangePasswordHandler returns the password change handler
func (i *Ibeere) ChangePasswordHandler() http.HandlerFunc {
	return i.authHandler.ChangePassword
}

// ListQuestionsHandler returns the question listing handler
func (i *Ibeere) ListQuestionsHandler() http.HandlerFunc {
	return i.questionsHandler.List
}

// CreateQuestionHandler returns the question creation handler
func (i *Ibeere) CreateQuestionHandler() http.HandlerFunc {
	return i.questionsHandler.Create
}

// UpdateQuestionHandler returns the question update handler
func (i *Ibeere) UpdateQuestionHandler() http.HandlerFunc {
	return i.questionsHandler.Update
}

// DeleteQuestionHandler returns the question deletion handler
func (i *Ibeere) DeleteQuestionHandler() http.HandlerFunc {
	return i.questionsHandler.Delete
}

// SubmitScoreHandler returns the quiz submission handler
func (i *Ibeere) SubmitScoreHandler() http.HandlerFunc {
	return i.scoresHandler.Submit
}

// ListScoresHandler returns the score listing handler
func (i *Ibeere) ListScoresHandler() http.HandlerFunc {
	return i.scoresHandler.List
}

// Middleware Methods - For protecting routes

// Require returns middleware that requires a valid bearer token
func (i *Ibeere) Require() func(http.Handler) http.Handler {
	return i.middleware.Require
}

// RequireAdmin returns middleware that additionally requires the admin role.
// Mount inside Require
func (i *Ibeere) RequireAdmin() func(http.Handler) http.Handler {
	return i.middleware.RequireAdmin
}

// Store returns the underlying store (for advanced use cases)
func (i *Ibeere) Store() store.Store {
	return i.store
}
