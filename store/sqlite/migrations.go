package sqlite

import (
	"context"
	"fmt"
)

// RunMigrations creates all necessary tables for the quiz backend
func (s *SQLiteStore) RunMigrations(ctx context.Context) error {
	migrations := []string{
		createUsersTable,
		createPasswordHistoryTable,
		createQuestionsTable,
		createScoresTable,
		createIndexes,
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
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	failed_login_attempts INTEGER DEFAULT 0,
	last_failed_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createPasswordHistoryTable = `
CREATE TABLE IF NOT EXISTS password_history (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const createQuestionsTable = `
CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	prompt TEXT NOT NULL,
	choices TEXT NOT NULL,
	answer INTEGER NOT NULL,
	category TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createScoresTable = `
CREATE TABLE IF NOT EXISTS scores (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	points INTEGER NOT NULL,
	total INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_password_history_user_id ON password_history(user_id);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category);
CREATE INDEX IF NOT EXISTS idx_scores_user_id ON scores(user_id);
`
