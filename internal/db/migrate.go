package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/mendel-gtm/gtm-api/internal/db/migrations"
)

// Migrations holds the tenant and context schema: SQL files plus the Go
// migrations registered by the migrations package.
//
//go:embed migrations
var Migrations embed.FS

// Migrate applies every pending migration and returns the resulting schema
// version. driver accepts the same names as New.
func Migrate(db *sqlx.DB, driver string) (int64, error) {
	if err := useDialect(driver); err != nil {
		return 0, err
	}

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("sub migrations fs: %w", err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)

	if err := goose.Up(db.DB, "."); err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// useDialect points goose and the Go migrations at driver's SQL dialect.
// The canonical driver names are also goose's dialect names.
func useDialect(driver string) error {
	dialect, err := Driver(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	migrations.SetDialect(dialect)
	return nil
}
