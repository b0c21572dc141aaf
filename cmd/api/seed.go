package main

import (
	"context"

	"log/slog"

	"skillswap/internal/auth"
)

// seedDemoAccount creates a known login for local development against the
// in-memory store. The credentials are printed so a fresh checkout can sign
// in without registering first.
func seedDemoAccount(ctx context.Context, authService *auth.Service, logger *slog.Logger) {
	const (
		demoEmail    = "demo@skillswap.local"
		demoPassword = "DemoPass123"
	)

	user, err := authService.Register(ctx, auth.RegisterInput{
		Email:    demoEmail,
		Password: demoPassword,
		Name:     "Demo Learner",
	})
	if err != nil {
		logger.Warn("demo account seeding failed", "error", err)
		return
	}

	logger.Info("demo account ready", "email", demoEmail, "password", demoPassword, "user_id", user.ID)
}
