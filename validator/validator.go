package validator

import (
	"strings"

	"github.com/tobibamidele/ibeere/errors"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, field+" is required")
	}
	return nil
}

// ValidateUsername checks that a username is usable as an account handle
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.NewValidationError("username", "username is required")
	}
	if strings.ContainsAny(username, " \t\n") {
		return errors.NewValidationError("username", "username must not contain whitespace")
	}
	return nil
}
