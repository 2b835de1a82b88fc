package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt with the specified cost.
// Every call salts independently, so equal passwords never produce equal hashes
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// CheckPassword compares plain text password with a hashed password.
// Returns false for malformed hashes instead of failing
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NeedsCostUpdate checks if a password hash needs to be updated due to cost change
func NeedsCostUpdate(hash string, desiredCost int) (bool, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, err
	}
	return cost != desiredCost, nil
}
