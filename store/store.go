package store

import (
	"context"
	"time"

	"github.com/tobibamidele/ibeere/models"
)

// Store defines the interface for data persistence
// All database implementations must implement this interface
type Store interface {
	// Close closes the database connection
	Close() error

	// RunMigrations runs database migrations
	RunMigrations(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error

	// Failed-login bookkeeping. Both verbs mutate the counter and timestamp
	// in a single store-side update so concurrent logins never undercount
	IncrementFailedLogins(ctx context.Context, userID string, at time.Time) error
	ResetFailedLogins(ctx context.Context, userID string) error

	// Password history operations (for password reuse prevention)
	AddPasswordHistory(ctx context.Context, userID, passwordHash string) error
	GetPasswordHistory(ctx context.Context, userID string, limit int) ([]*models.PasswordHistory, error)
	DeleteOldPasswordHistory(ctx context.Context, userID string, keepCount int) error

	// Question operations
	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context) ([]*models.Question, error)
	UpdateQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error

	// Score operations
	CreateScore(ctx context.Context, score *models.Score) error
	GetUserScores(ctx context.Context, userID string) ([]*models.Score, error)
}
