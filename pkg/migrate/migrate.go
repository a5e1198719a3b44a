package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/cardapiohub/cardapio-backend/pkg/db"
)

const DefaultDir = "pkg/migrate/migrations"

// versionLayout is the timestamp goose stamps on files created by CreateSQLMigration.
const versionLayout = "20060102150405"

// Run executes a goose command against the postgres schema.
func Run(ctx context.Context, conn *sql.DB, dialect, dir, command string, args ...string) error {
	if err := prepare(conn, dialect, dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at target.
func MigrateToVersion(ctx context.Context, conn *sql.DB, dialect, dir string, target int64) error {
	if err := prepare(conn, dialect, dir); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case current < target:
		err = goose.UpToContext(ctx, conn, dir, target)
	case current > target:
		err = goose.DownToContext(ctx, conn, dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

// ParseVersion accepts the YYYYMMDDHHMMSS prefix used in migration file names.
func ParseVersion(raw string) (int64, error) {
	if len(raw) != len(versionLayout) {
		return 0, fmt.Errorf("version %q must be %d digits (YYYYMMDDHHMMSS)", raw, len(versionLayout))
	}
	if _, err := time.Parse(versionLayout, raw); err != nil {
		return 0, fmt.Errorf("version %q is not a timestamp: %w", raw, err)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func prepare(conn *sql.DB, dialect, dir string) error {
	if dialect == "" {
		dialect = db.DialectPostgres
	}
	if dialect != db.DialectPostgres {
		return fmt.Errorf("goose migrations target postgres, got %q; sqlite dev databases use CARDAPIO_AUTO_MIGRATE", dialect)
	}
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
