package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tobibamidele/ibeere/errors"
	"github.com/tobibamidele/ibeere/models"
)

// MemoryStore implements the Store interface in process memory.
// Useful for tests and local development, nothing survives a restart
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User            // keyed by user ID
	history   map[string][]*models.PasswordHistory // keyed by user ID, oldest first
	questions map[string]*models.Question
	scores    map[string][]*models.Score // keyed by user ID
}

// New creates a new in-memory store
func New() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		history:   make(map[string][]*models.PasswordHistory),
		questions: make(map[string]*models.Question),
		scores:    make(map[string][]*models.Score),
	}
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}

// RunMigrations is a no-op for the memory store
func (s *MemoryStore) RunMigrations(ctx context.Context) error {
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.LastFailedAt != nil {
		t := *u.LastFailedAt
		c.LastFailedAt = &t
	}
	return &c
}

// CreateUser creates a new user, usernames are unique case-insensitively
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return errors.ErrUserAlreadyExists
		}
	}

	s.users[user.ID] = copyUser(user)
	return nil
}

// GetUserByID retrieves a user by ID
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetUserByUsername retrieves a user by username (case-insensitive)
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return copyUser(user), nil
		}
	}
	return nil, errors.ErrUserNotFound
}

// UpdatePassword rotates the stored password hash
func (s *MemoryStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return errors.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

// DeleteUser deletes a user and everything hanging off it
func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.history, id)
	delete(s.scores, id)
	return nil
}

// IncrementFailedLogins bumps the failure counter and stamps the failure time
// under the store lock, so concurrent failures never undercount
func (s *MemoryStore) IncrementFailedLogins(ctx context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return errors.ErrUserNotFound
	}
	user.FailedLoginAttempts++
	user.LastFailedAt = &at
	return nil
}

// ResetFailedLogins returns the account to its open state
func (s *MemoryStore) ResetFailedLogins(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return errors.ErrUserNotFound
	}
	user.FailedLoginAttempts = 0
	user.LastFailedAt = nil
	return nil
}

// AddPasswordHistory appends a retired or newly active hash to the history
func (s *MemoryStore) AddPasswordHistory(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &models.PasswordHistory{
		ID:           userID + "-" + time.Now().Format("20060102150405.000000000"),
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.history[userID] = append(s.history[userID], entry)
	return nil
}

// GetPasswordHistory returns the most recent history entries, newest first
func (s *MemoryStore) GetPasswordHistory(ctx context.Context, userID string, limit int) ([]*models.PasswordHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[userID]
	result := make([]*models.PasswordHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		e := *entries[i]
		result = append(result, &e)
	}
	return result, nil
}

// DeleteOldPasswordHistory trims the history down to the keepCount newest entries
func (s *MemoryStore) DeleteOldPasswordHistory(ctx context.Context, userID string, keepCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[userID]
	if keepCount <= 0 || len(entries) <= keepCount {
		return nil
	}
	s.history[userID] = entries[len(entries)-keepCount:]
	return nil
}

func copyQuestion(q *models.Question) *models.Question {
	c := *q
	c.Choices = append([]string(nil), q.Choices...)
	if q.Category != nil {
		cat := *q.Category
		c.Category = &cat
	}
	return &c
}

// CreateQuestion creates a new question
func (s *MemoryStore) CreateQuestion(ctx context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions[question.ID] = copyQuestion(question)
	return nil
}

// GetQuestionByID retrieves a question by ID
func (s *MemoryStore) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	question, ok := s.questions[id]
	if !ok {
		return nil, errors.ErrQuestionNotFound
	}
	return copyQuestion(question), nil
}

// ListQuestions returns all questions ordered by creation time
func (s *MemoryStore) ListQuestions(ctx context.Context) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		result = append(result, copyQuestion(q))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateQuestion replaces a stored question
func (s *MemoryStore) UpdateQuestion(ctx context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[question.ID]; !ok {
		return errors.ErrQuestionNotFound
	}
	s.questions[question.ID] = copyQuestion(question)
	return nil
}

// DeleteQuestion deletes a question
func (s *MemoryStore) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return errors.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// CreateScore records a graded quiz attempt
func (s *MemoryStore) CreateScore(ctx context.Context, score *models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *score
	s.scores[score.UserID] = append(s.scores[score.UserID], &c)
	return nil
}

// GetUserScores returns all scores for a user, newest first
func (s *MemoryStore) GetUserScores(ctx context.Context, userID string) ([]*models.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.scores[userID]
	result := make([]*models.Score, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := *entries[i]
		result = append(result, &e)
	}
	return result, nil
}
