package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/crypto"
	"github.com/tobibamidele/ibeere/errors"
)

// PasswordValidator validates passwords against a policy
type PasswordValidator struct {
	policy config.PasswordPolicy
}

// NewPasswordValidator creates a new password validator with the given policy
func NewPasswordValidator(policy config.PasswordPolicy) *PasswordValidator {
	return &PasswordValidator{
		policy: policy,
	}
}

// Validate validates a candidate password against the configured policy.
// Every rule is evaluated and every broken one is reported, callers get the
// full list of violations rather than the first failure.
// history holds the hashes of the current and previously used passwords
func (v *PasswordValidator) Validate(password, username string, history []string) error {
	var violations []string

	// Check length
	if len(password) < v.policy.MinLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters long", v.policy.MinLength))
	}
	if v.policy.MaxLength > 0 && len(password) > v.policy.MaxLength {
		violations = append(violations, fmt.Sprintf("password must not exceed %d characters", v.policy.MaxLength))
	}

	// Check for uppercase
	if v.policy.RequireUppercase && !hasUppercase(password) {
		violations = append(violations, "password must contain at least one uppercase letter")
	}

	// Check for lowercase
	if v.policy.RequireLowercase && !hasLowercase(password) {
		violations = append(violations, "password must contain at least one lowercase letter")
	}

	// Check for number
	if v.policy.RequireNumber && !hasNumber(password) {
		violations = append(violations, "password must contain at least one number")
	}

	// Check for special character
	if v.policy.RequireSpecial && !hasSpecialChar(password, v.policy.SpecialChars) {
		violations = append(violations, "password must contain at least one special character")
	}

	// Check that the password does not contain the username (case-insensitive)
	if v.policy.PreventUsername && username != "" &&
		strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		violations = append(violations, "password must not contain the username")
	}

	// Check against previously used passwords
	if v.policy.PreventReuse > 0 && isReusedPassword(password, history) {
		violations = append(violations, "password was recently used, please choose a different one")
	}

	if len(violations) > 0 {
		return errors.NewPasswordPolicyError(violations...)
	}

	return nil
}

// hasUppercase checks if string contains at least one uppercase letter
func hasUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// hasLowercase checks if string contains at least one lowercase letter
func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// hasNumber checks if string contains at least one digit
func hasNumber(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// hasSpecialChar checks if string contains at least one special character from allowed set
func hasSpecialChar(s, allowedChars string) bool {
	if allowedChars == "" {
		// If no specific chars specified, check for any non-alphanumeric
		for _, r := range s {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return true
			}
		}
		return false
	}

	// Check for specific allowed special characters
	for _, r := range s {
		if strings.ContainsRune(allowedChars, r) {
			return true
		}
	}
	return false
}

// isReusedPassword checks the candidate against every hash in the history
func isReusedPassword(password string, history []string) bool {
	for _, hash := range history {
		if crypto.CheckPassword(password, hash) {
			return true
		}
	}
	return false
}
