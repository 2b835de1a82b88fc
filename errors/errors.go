package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrScoreNotFound      = errors.New("score not found")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
	ErrPasswordReused     = errors.New("password was recently used")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
)

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// PasswordPolicyError reports every policy rule a candidate password broke
type PasswordPolicyError struct {
	Violations []string
}

func (e PasswordPolicyError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// NewPasswordPolicyError creates a new password policy error
func NewPasswordPolicyError(violations ...string) PasswordPolicyError {
	return PasswordPolicyError{
		Violations: violations,
	}
}

// LockoutError is returned when an account rejects login attempts after
// too many consecutive failures. RetryAfter is how long until the lock lifts.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e LockoutError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d seconds", int(e.RetryAfter.Round(time.Second).Seconds()))
}

// NewLockoutError creates a new lockout error
func NewLockoutError(retryAfter time.Duration) LockoutError {
	return LockoutError{RetryAfter: retryAfter}
}
