package migrate

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"skillswap/migrations"
)

// Apply runs any pending SQL migrations bundled with the binary.
func Apply(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.Files)
	goose.SetLogger(slogGooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("migrate: goose up: %w", err)
	}

	return nil
}

// slogGooseLogger adapts goose's Printf-style logging onto slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l slogGooseLogger) Printf(format string, v ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l slogGooseLogger) Fatalf(format string, v ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Error(fmt.Sprintf(format, v...))
}
