package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"log/slog"
)

// LogMailer writes password-reset mail to the log instead of delivering it.
// Useful for local development and as the fallback when no delivery backend
// is configured; the reset link is recoverable from the log line.
type LogMailer struct {
	logger      *slog.Logger
	frontendURL string
}

// NewLogMailer creates a LogMailer. frontendURL anchors the reset link.
func NewLogMailer(logger *slog.Logger, frontendURL string) *LogMailer {
	return &LogMailer{
		logger:      logger,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// SendPasswordReset logs the reset link for the given recipient.
func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, url.QueryEscape(token))
	m.logger.Info("password reset requested", "email", email, "link", link)
	return nil
}
