package sqlstore

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseDialects = map[string]string{
	DriverPostgres: "postgres",
	DriverSQLite:   "sqlite3",
}

type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}

// Fatalf logs at error level without exiting; goose also returns the error to Migrate.
func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, db *sqlx.DB, driver string, log zerolog.Logger) error {
	dialect, ok := gooseDialects[driver]
	if !ok {
		return fmt.Errorf("no migration dialect for driver %q", driver)
	}

	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrations").Logger()})
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
