package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations
type Migrator struct {
	db     *DB
	logger zerolog.Logger
}

func NewMigrator(db *DB, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// withMigrate runs fn against a migrate instance bound to a dedicated connection.
// Closing the instance releases that connection but leaves the pool open.
func (m *Migrator) withMigrate(ctx context.Context, fn func(*migrate.Migrate) error) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer mg.Close()

	return fn(mg)
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	return m.withMigrate(ctx, func(mg *migrate.Migrate) error {
		err := mg.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("database schema is up to date")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		m.logger.Info().Msg("migrations applied")
		return nil
	})
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	return m.withMigrate(ctx, func(mg *migrate.Migrate) error {
		if err := mg.Steps(-1); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		m.logger.Info().Msg("rolled back one migration")
		return nil
	})
}

// Version reports the applied schema version and whether the last migration left it dirty
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := m.withMigrate(ctx, func(mg *migrate.Migrate) error {
		var err error
		version, dirty, err = mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}
