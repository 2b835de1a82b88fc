package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	maxAttempts = 3
	window      = 60 * time.Second
)

func failedAt(ago time.Duration) *time.Time {
	t := time.Now().Add(-ago)
	return &t
}

func TestIsLocked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"fresh account", User{}, false},
		{"below threshold", User{FailedLoginAttempts: 2, LastFailedAt: failedAt(time.Second)}, false},
		{"at threshold inside window", User{FailedLoginAttempts: 3, LastFailedAt: failedAt(time.Second)}, true},
		{"above threshold inside window", User{FailedLoginAttempts: 5, LastFailedAt: failedAt(30 * time.Second)}, true},
		{"at threshold after window", User{FailedLoginAttempts: 3, LastFailedAt: failedAt(61 * time.Second)}, false},
		{"counter without timestamp", User{FailedLoginAttempts: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsLocked(maxAttempts, window))
		})
	}
}

func TestLockoutExpired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"fresh account", User{}, false},
		{"below threshold", User{FailedLoginAttempts: 2, LastFailedAt: failedAt(2 * time.Minute)}, false},
		{"locked and inside window", User{FailedLoginAttempts: 3, LastFailedAt: failedAt(time.Second)}, false},
		{"locked and window passed", User{FailedLoginAttempts: 3, LastFailedAt: failedAt(61 * time.Second)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.LockoutExpired(maxAttempts, window))
		})
	}
}

func TestLockoutRemaining(t *testing.T) {
	t.Parallel()

	u := User{FailedLoginAttempts: 3, LastFailedAt: failedAt(20 * time.Second)}
	remaining := u.LockoutRemaining(window)
	assert.Greater(t, remaining, 35*time.Second)
	assert.LessOrEqual(t, remaining, 40*time.Second)

	expired := User{FailedLoginAttempts: 3, LastFailedAt: failedAt(2 * time.Minute)}
	assert.Equal(t, time.Duration(0), expired.LockoutRemaining(window))

	assert.Equal(t, time.Duration(0), (&User{}).LockoutRemaining(window))
}
