package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf implements goose.Logger by forwarding messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger by forwarding to slog.Error. Unlike the
// standard Fatalf behavior this does NOT call os.Exit; the error is
// returned to the caller, which decides how to shut down.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// Migrate applies all pending schema migrations to the given database.
// The driver name selects the goose dialect, so the same embedded
// migration set serves both backends.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrationsFS)

	dialect := driver
	if driver == "pgx" {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect %q: %w", dialect, err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
