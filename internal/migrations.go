package internal

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dukerupert/kinderkit/internal/catalog/migrations"
)

// RunCatalogMigrations applies the development catalog schema and seed rows
// to a Postgres database.
func RunCatalogMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run catalog migrations: %w", err)
	}

	return nil
}
