package auth

import "context"

// Mailer dispatches password-reset email. Delivery failures are surfaced to
// the caller; nothing is retried here.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}
