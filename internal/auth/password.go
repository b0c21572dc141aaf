package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// ValidatePassword checks the registration password policy. All violated
// rules are reported together; a nil return means the password is acceptable.
func ValidatePassword(password string) error {
	var violations []string

	if len(password) < minPasswordLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		violations = append(violations, "Must have an Uppercase letter in the password")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		violations = append(violations, "Must have a Lowercase letter in the password")
	}

	if len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}
	return nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword compares a plaintext password with a stored bcrypt hash.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NormalizeEmail validates and canonicalizes an email address.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}
