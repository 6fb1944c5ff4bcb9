package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// RunMigrations brings the portal schema (articles, banners, view events) up
// to the newest embedded version. It reports the schema version afterwards and
// whether golang-migrate left it marked dirty by an interrupted run.
func RunMigrations(db *DB) (version uint, dirty bool, err error) {
	target, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return 0, false, fmt.Errorf("failed to wrap database for migrations: %w", err)
	}

	scripts, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("failed to open embedded schema scripts: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", scripts, "sqlite", target)
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare schema migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("failed to apply schema migrations: %w", err)
	}

	version, dirty, err = migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version, dirty, nil
}
