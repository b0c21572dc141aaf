package auth

import (
	"errors"
	"strings"
)

// Error is a coded authentication failure. Codes use the identity-provider
// vocabulary ("auth/user-not-found") so clients keep their existing mapping;
// Friendly strips the prefix for direct display.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Friendly returns the user-facing message, falling back to the code with
// its "auth/" prefix stripped.
func (e *Error) Friendly() string {
	if e.Message != "" {
		return e.Message
	}
	return strings.TrimPrefix(e.Code, "auth/")
}

var (
	// ErrUserNotFound indicates no account exists for the supplied email.
	ErrUserNotFound = &Error{Code: "auth/user-not-found", Message: "No account found with this email"}
	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = &Error{Code: "auth/invalid-credential", Message: "Incorrect email or password"}
	// ErrTooManyRequests indicates the caller exceeded the attempt budget.
	ErrTooManyRequests = &Error{Code: "auth/too-many-requests", Message: "Too many requests. Please try again later"}
	// ErrEmailInUse indicates a registration against an existing account.
	ErrEmailInUse = &Error{Code: "auth/email-already-in-use", Message: "An account with this email already exists"}
	// ErrInvalidEmail indicates the supplied email address is not usable.
	ErrInvalidEmail = &Error{Code: "auth/invalid-email", Message: "Invalid email address"}
	// ErrInvalidResetToken indicates an unknown, expired, or reused reset token.
	ErrInvalidResetToken = &Error{Code: "auth/invalid-action-code", Message: "This reset link is invalid or has expired"}
)

// ErrWeakPassword anchors password-policy violations for errors.Is checks.
var ErrWeakPassword = errors.New("weak password")

// PasswordPolicyError reports every violated password rule at once, so a
// client can render the full checklist rather than the first failure.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return strings.Join(e.Violations, ". ")
}

func (e *PasswordPolicyError) Unwrap() error {
	return ErrWeakPassword
}

// ErrProfileIncomplete marks a registration whose account was created but
// whose follow-up profile update failed. The account exists; nothing is
// rolled back.
var ErrProfileIncomplete = errors.New("account created but profile update failed")

// AsAuthError unwraps err into a coded *Error, or nil if it is not one.
func AsAuthError(err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return nil
}
