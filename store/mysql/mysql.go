package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/models"
)

// MySQLStore implements the Store interface for MySQL
type MySQLStore struct {
	db *sql.DB
}

// New creates a new MySQL store. The connection URL should include
// parseTime=true so DATETIME columns scan into time.Time
func New(connectionURL string, maxOpenConns, maxIdleConns int, connMaxLife time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	// Test the connection
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// isUniqueViolation checks for MySQL error 1062 (duplicate entry)
func isUniqueViolation(err error) bool {
	var mysqlErr *gomysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// CreateUser creates a new user
func (s *MySQLStore) CreateUser(ctx context.Context, user *models.User) error {
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
		if isUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

const userColumns = `id, username, password_hash, role, failed_login_attempts, last_failed_at, created_at, updated_at`

func (s *MySQLStore) scanUser(row *sql.Row) (*models.User, error) {
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
func (s *MySQLStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username. MySQL's default collation
// already compares case-insensitively
func (s *MySQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// UpdatePassword rotates the stored password hash
func (s *MySQLStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
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
func (s *MySQLStore) DeleteUser(ctx context.Context, id string) error {
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
func (s *MySQLStore) IncrementFailedLogins(ctx context.Context, userID string, at time.Time) error {
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
func (s *MySQLStore) ResetFailedLogins(ctx context.Context, userID string) error {
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
func (s *MySQLStore) AddPasswordHistory(ctx context.Context, userID, passwordHash string) error {
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
func (s *MySQLStore) GetPasswordHistory(ctx context.Context, userID string, limit int) ([]*models.PasswordHistory, error) {
	query := `
		SELECT id, user_id, password_hash, created_at
		FROM password_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = 1<<31 - 1 // MySQL has no LIMIT ALL
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

// DeleteOldPasswordHistory trims the history down to the keepCount newest entries.
// MySQL cannot delete from a table referenced in a subquery, hence the derived table
func (s *MySQLStore) DeleteOldPasswordHistory(ctx context.Context, userID string, keepCount int) error {
	if keepCount <= 0 {
		return nil
	}

	query := `
		DELETE FROM password_history
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM password_history
				WHERE user_id = ?
				ORDER BY created_at DESC
				LIMIT ?
			) AS newest
		)
	`

	_, err := s.db.ExecContext(ctx, query, userID, userID, keepCount)
	if err != nil {
		return fmt.Errorf("failed to delete old password history: %w", err)
	}

	return nil
}

// CreateQuestion creates a new question
func (s *MySQLStore) CreateQuestion(ctx context.Context, question *models.Question) error {
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
func (s *MySQLStore) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
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
func (s *MySQLStore) ListQuestions(ctx context.Context) ([]*models.Question, error) {
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
func (s *MySQLStore) UpdateQuestion(ctx context.Context, question *models.Question) error {
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
func (s *MySQLStore) DeleteQuestion(ctx context.Context, id string) error {
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
func (s *MySQLStore) CreateScore(ctx context.Context, score *models.Score) error {
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
func (s *MySQLStore) GetUserScores(ctx context.Context, userID string) ([]*models.Score, error) {
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
