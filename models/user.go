package models

import "time"

// User represents a registered account
type User struct {
	ID                  string     `json:"id" db:"id"`
	Username            string     `json:"username" db:"username"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Role                string     `json:"role,omitempty" db:"role"`
	FailedLoginAttempts int        `json:"-" db:"failed_login_attempts"`
	LastFailedAt        *time.Time `json:"-" db:"last_failed_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLocked checks if the account is inside an active lockout window.
// Lockout is derived from the failure counter and the last failure time,
// there is no separate locked flag to get out of sync
func (u *User) IsLocked(maxAttempts int, window time.Duration) bool {
	if u.FailedLoginAttempts < maxAttempts || u.LastFailedAt == nil {
		return false
	}
	return time.Since(*u.LastFailedAt) < window
}

// LockoutExpired checks if the account hit the failure threshold but the
// lockout window has already passed. Callers must reset the counter before
// attempting password verification
func (u *User) LockoutExpired(maxAttempts int, window time.Duration) bool {
	if u.FailedLoginAttempts < maxAttempts || u.LastFailedAt == nil {
		return false
	}
	return time.Since(*u.LastFailedAt) >= window
}

// LockoutRemaining returns how long until a locked account opens up again
func (u *User) LockoutRemaining(window time.Duration) time.Duration {
	if u.LastFailedAt == nil {
		return 0
	}
	remaining := window - time.Since(*u.LastFailedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PasswordHistory represents the previous passwords for reuse prevention
type PasswordHistory struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents the data needed to create an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the login creds
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse describes what gets returned to the client
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to a UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
