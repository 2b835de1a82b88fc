package mysql

import (
	"context"
	"fmt"
)

// RunMigrations creates all necessary tables for the quiz backend
func (s *MySQLStore) RunMigrations(ctx context.Context) error {
	migrations := []string{
		createUsersTable,
		createPasswordHistoryTable,
		createQuestionsTable,
		createScoresTable,
	}

	for i, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	username VARCHAR(255) UNIQUE NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(64) NOT NULL DEFAULT '',
	failed_login_attempts INT DEFAULT 0,
	last_failed_at DATETIME(6),
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL
);
`

const createPasswordHistoryTable = `
CREATE TABLE IF NOT EXISTS password_history (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at DATETIME(6) NOT NULL,
	INDEX idx_password_history_user_id (user_id),
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const createQuestionsTable = `
CREATE TABLE IF NOT EXISTS questions (
	id VARCHAR(36) PRIMARY KEY,
	prompt TEXT NOT NULL,
	choices TEXT NOT NULL,
	answer INT NOT NULL,
	category VARCHAR(255),
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL,
	INDEX idx_questions_category (category)
);
`

const createScoresTable = `
CREATE TABLE IF NOT EXISTS scores (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL,
	points INT NOT NULL,
	total INT NOT NULL,
	created_at DATETIME(6) NOT NULL,
	INDEX idx_scores_user_id (user_id),
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`
