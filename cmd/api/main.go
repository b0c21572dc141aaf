package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"skillswap/internal/auth"
	"skillswap/internal/bookings"
	"skillswap/internal/config"
	transporthttp "skillswap/internal/http"
	"skillswap/internal/mail"
	"skillswap/internal/platform/database"
	"skillswap/internal/platform/logging"
	"skillswap/internal/platform/migrate"
	"skillswap/internal/platform/redis"
	"skillswap/internal/skills"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	repo, cleanup, err := buildRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	limiter, resetTokens, redisCleanup, err := buildAuthStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize auth stores", "error", err)
		os.Exit(1)
	}
	if redisCleanup != nil {
		defer redisCleanup()
	}

	mailer := mail.NewLogMailer(logger, cfg.FrontendURL)
	authService := auth.NewService(repo, limiter, resetTokens, mailer, cfg.SessionTTL)

	if cfg.UseInMemoryStore() {
		seedDemoAccount(ctx, authService, logger)
	}

	skillService := skills.NewService(buildSkillSource(cfg, logger))
	bookingService := bookings.NewService(skillService, logger)

	var google transporthttp.GoogleAuthenticator
	if cfg.GoogleEnabled() {
		g, err := auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			logger.Error("failed to initialize google sign-in", "error", err)
			os.Exit(1)
		}
		google = g
	} else {
		logger.Warn("google sign-in not configured; federated routes disabled")
	}

	router := transporthttp.NewRouter(cfg, authService, skillService, bookingService, google, logger)

	startSessionJanitor(ctx, authService, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("SkillSwap API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (auth.Repository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repository")
		return auth.NewInMemoryRepository(), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Info("connected to postgres")
	return auth.NewPostgresRepository(db), cleanup, nil
}

func buildAuthStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (auth.LoginLimiter, auth.ResetTokenStore, func(), error) {
	if !cfg.RedisEnabled() {
		logger.Info("using in-memory login limiter and reset token store")
		return auth.NewMemoryLoginLimiter(), auth.NewMemoryResetTokenStore(), nil, nil
	}

	client, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = client.Close()
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return auth.NewRedisLoginLimiter(client), auth.NewRedisResetTokenStore(client), cleanup, nil
}

func buildSkillSource(cfg config.Config, logger *slog.Logger) skills.Source {
	if cfg.SkillsFile != "" {
		logger.Info("loading skill catalog from file", "path", cfg.SkillsFile)
		if strings.EqualFold(filepath.Ext(cfg.SkillsFile), ".csv") {
			return skills.NewCSVSource(cfg.SkillsFile)
		}
		return skills.NewFileSource(cfg.SkillsFile)
	}
	return skills.NewEmbeddedSource()
}

// startSessionJanitor periodically purges expired sessions so revoked and
// stale rows do not accumulate. Runs until the root context is canceled.
func startSessionJanitor(ctx context.Context, authService *auth.Service, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := authService.CleanupExpiredSessions(ctx)
				if err != nil {
					logger.Error("session cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("expired sessions purged", "count", deleted)
				}
			}
		}
	}()
}
