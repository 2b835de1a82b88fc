package config

// PasswordPolicy defines the rules for password validation
type PasswordPolicy struct {
	MinLength        int    `env:"MIN_LENGTH"`
	MaxLength        int    `env:"MAX_LENGTH"` // Maximum password length (0 = no limit)
	RequireUppercase bool   `env:"REQUIRE_UPPERCASE"`
	RequireLowercase bool   `env:"REQUIRE_LOWERCASE"`
	RequireNumber    bool   `env:"REQUIRE_NUMBER"`
	RequireSpecial   bool   `env:"REQUIRE_SPECIAL"`
	SpecialChars     string `env:"SPECIAL_CHARS"`     // Allowed special characters
	PreventUsername  bool   `env:"PREVENT_USERNAME"`  // Reject passwords containing the username
	PreventReuse     int    `env:"PREVENT_REUSE"`     // Prevent reusing last N passwords (0 = disabled)
}

// DefaultPasswordPolicy returns the policy enforced at registration and
// password change
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        12,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumber:    true,
		RequireSpecial:   true,
		SpecialChars:     "!@#$%^&*()_+[]{}|;:,.<>?",
		PreventUsername:  true,
		PreventReuse:     5,
	}
}

// WeakPasswordPolicy returns a very lenient password policy (not recommended for production, use mostly for testing)
func WeakPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        6,
		MaxLength:        128,
		RequireUppercase: false,
		RequireLowercase: false,
		RequireNumber:    false,
		RequireSpecial:   false,
		SpecialChars:     "",
		PreventUsername:  false,
		PreventReuse:     0,
	}
}
