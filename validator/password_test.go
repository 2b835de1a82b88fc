package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tobibamidele/ibeere/config"
	"github.com/tobibamidele/ibeere/crypto"
	"github.com/tobibamidele/ibeere/errors"
)

func violations(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	policyErr, ok := err.(errors.PasswordPolicyError)
	require.True(t, ok, "expected PasswordPolicyError, got %T", err)
	return policyErr.Violations
}

func TestValidate_AllRulesPass(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())
	err := v.Validate("Abc123!x", "bob", nil)
	assert.NoError(t, err)
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())

	// "abc" breaks length, digit, uppercase and special at once
	got := violations(t, v.Validate("abc", "bob", nil))
	assert.Len(t, got, 4)
}

func TestValidate_Length(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "Ab1!xyz", true},          // 7 chars
		{"lower bound", "Ab1!xyzw", false},      // 8 chars
		{"upper bound", "Ab1!xyzwabcd", false},  // 12 chars
		{"too long", "Ab1!xyzwabcde", true},     // 13 chars
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.password, "", nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_CharacterClasses(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"no digit", "Abcdefg!", "password must contain at least one number"},
		{"no uppercase", "abc123!x", "password must contain at least one uppercase letter"},
		{"no lowercase", "ABC123!X", "password must contain at least one lowercase letter"},
		{"no special", "Abc123xy", "password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := violations(t, v.Validate(tt.password, "", nil))
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestValidate_RejectsUsernameSubstring(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())

	// Case-insensitive match
	got := violations(t, v.Validate("AxBoB12!", "bob", nil))
	assert.Contains(t, got, "password must not contain the username")

	// Unrelated username passes
	assert.NoError(t, v.Validate("AxBoB12!", "carol", nil))
}

func TestValidate_RejectsReusedPassword(t *testing.T) {
	t.Parallel()

	v := NewPasswordValidator(config.DefaultPasswordPolicy())

	oldHash, err := crypto.HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)
	otherHash, err := crypto.HashPassword("Xyz789?q", bcrypt.MinCost)
	require.NoError(t, err)

	// Reuse rejected even though every other rule passes
	got := violations(t, v.Validate("Abc123!x", "bob", []string{otherHash, oldHash}))
	assert.Len(t, got, 1)

	// A fresh password against the same history is fine
	assert.NoError(t, v.Validate("New456$z", "bob", []string{otherHash, oldHash}))
}

func TestValidate_ReuseCheckDisabled(t *testing.T) {
	t.Parallel()

	policy := config.DefaultPasswordPolicy()
	policy.PreventReuse = 0
	v := NewPasswordValidator(policy)

	hash, err := crypto.HashPassword("Abc123!x", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, v.Validate("Abc123!x", "bob", []string{hash}))
}
