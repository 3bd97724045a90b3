package storage

import (
	"context"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/openlift/liftlog/internal/models"
)

// Repository persists completed workout sessions. The workout store runs
// without one (nil repository keeps everything in memory); a repository adds
// durability on top of the in-memory contract without changing it.
type Repository interface {
	// InsertSession appends a saved session. Save order must survive a
	// reload, independent of session dates.
	InsertSession(ctx context.Context, session models.WorkoutSession) error
	// ListSessions returns all saved sessions in save order.
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	Close() error
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending migrations to the database named by the
// URL (sqlite://path or postgres://...).
func RunMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
