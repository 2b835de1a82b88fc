package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/models"
)

// SQLiteStore implements the Store interface for SQLite
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store
func New(connectionURL string, maxOpenConns, maxIdleConns int, connMaxLife time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	// Enable foreign keys (important for SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Test the connection
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Helper function to check for unique constraint violations in SQLite
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser creates a new user
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, username, password_hash, role, failed_login_attempts,
			last_failed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Role,
		user.FailedLoginAttempts, user.LastFailedAt,
		user.CreatedAt, user.UpdatedAt,
	)

	if err != nil {
		// Check for unique constraint violation
		if isUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

const userColumns = `id, username, password_hash, role, failed_login_attempts, last_failed_at, created_at, updated_at`

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.FailedLoginAttempts, &user.LastFailedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username (case-insensitive)
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?)`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// UpdatePassword rotates the stored password hash
func (s *SQLiteStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows == 0 {
		return errors.ErrUserNotFound
	}

	return nil
}

// DeleteUser deletes a user, history and scores cascade
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows == 0 {
		return errors.ErrUserNotFound
	}

	return nil
}

// IncrementFailedLogins bumps the failure counter in a single UPDATE so
// concurrent failed logins never undercount
func (s *SQLiteStore) IncrementFailedLogins(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, last_failed_at = ?
		WHERE id = ?
	`

	_, err := s.db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return fmt.Errorf("failed to increment failed logins: %w", err)
	}

	return nil
}

// ResetFailedLogins returns the account to its open state
func (s *SQLiteStore) ResetFailedLogins(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET failed_login_attempts = 0, last_failed_at = NULL
		WHERE id = ?
	`

	_, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to reset failed logins: %w", err)
	}

	return nil
}

// AddPasswordHistory appends a hash to the user's password history
func (s *SQLiteStore) AddPasswordHistory(ctx context.Context, userID, passwordHash string) error {
	query := `
		INSERT INTO password_history (id, user_id, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, uuid.New().String(), userID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add password history: %w", err)
	}

	return nil
}

// GetPasswordHistory returns the most recent history entries, newest first
func (s *SQLiteStore) GetPasswordHistory(ctx context.Context, userID string, limit int) ([]*models.PasswordHistory, error) {
	query := `
		SELECT id, user_id, password_hash, created_at
		FROM password_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as no limit
	}

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get password history: %w", err)
	}
	defer rows.Close()

	var entries []*models.PasswordHistory
	for rows.Next() {
		var entry models.PasswordHistory
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.PasswordHash, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan password history: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteOldPasswordHistory trims the history down to the keepCount newest entries
func (s *SQLiteStore) DeleteOldPasswordHistory(ctx context.Context, userID string, keepCount int) error {
	if keepCount <= 0 {
		return nil
	}

	query := `
		DELETE FROM password_history
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM password_history
			WHERE user_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
	`

	_, err := s.db.ExecContext(ctx, query, userID, userID, keepCount)
	if err != nil {
		return fmt.Errorf("failed to delete old password history: %w", err)
	}

	return nil
}

// CreateQuestion creates a new question
func (s *SQLiteStore) CreateQuestion(ctx context.Context, question *models.Question) error {
	choices, err := json.Marshal(question.Choices)
	if err != nil {
		return fmt.Errorf("failed to encode choices: %w", err)
	}

	query := `
		INSERT INTO questions (id, prompt, choices, answer, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		question.ID, question.Prompt, string(choices), question.Answer,
		question.Category, question.CreatedAt, question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

func scanQuestion(scan func(dest ...interface{}) error) (*models.Question, error) {
	var question models.Question
	var choices string

	err := scan(
		&question.ID, &question.Prompt, &choices, &question.Answer,
		&question.Category, &question.CreatedAt, &question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(choices), &question.Choices); err != nil {
		return nil, fmt.Errorf("failed to decode choices: %w", err)
	}

	return &question, nil
}

// GetQuestionByID retrieves a question by ID
func (s *SQLiteStore) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	query := `
		SELECT id, prompt, choices, answer, category, created_at, updated_at
		FROM questions WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	question, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return question, nil
}

// ListQuestions returns all questions ordered by creation time
func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]*models.Question, error) {
	query := `
		SELECT id, prompt, choices, answer, category, created_at, updated_at
		FROM questions ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		question, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

// UpdateQuestion replaces a stored question
func (s *SQLiteStore) UpdateQuestion(ctx context.Context, question *models.Question) error {
	choices, err := json.Marshal(question.Choices)
	if err != nil {
		return fmt.Errorf("failed to encode choices: %w", err)
	}

	query := `
		UPDATE questions
		SET prompt = ?, choices = ?, answer = ?, category = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		question.Prompt, string(choices), question.Answer,
		question.Category, time.Now(), question.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if rows == 0 {
		return errors.ErrQuestionNotFound
	}

	return nil
}

// DeleteQuestion deletes a question
func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if rows == 0 {
		return errors.ErrQuestionNotFound
	}

	return nil
}

// CreateScore records a graded quiz attempt
func (s *SQLiteStore) CreateScore(ctx context.Context, score *models.Score) error {
	query := `
		INSERT INTO scores (id, user_id, points, total, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		score.ID, score.UserID, score.Points, score.Total, score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	return nil
}

// GetUserScores returns all scores for a user, newest first
func (s *SQLiteStore) GetUserScores(ctx context.Context, userID string) ([]*models.Score, error) {
	query := `
		SELECT id, user_id, points, total, created_at
		FROM scores
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.Score
	for rows.Next() {
		var score models.Score
		if err := rows.Scan(&score.ID, &score.UserID, &score.Points, &score.Total, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, &score)
	}

	return scores, rows.Err()
}
