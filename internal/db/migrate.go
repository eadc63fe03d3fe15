package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/invoice-api/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank import registers the postgres driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs AutoMigrate for all models.
// Used for sqlite and for development databases when MIGRATIONS is off.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Address{},
		&models.User{},
		&models.Invoice{},
		&models.Item{},
	)
}

// RunSQLMigrations applies the embedded SQL migrations with golang-migrate.
// databaseURL must be a postgres:// URL.
func RunSQLMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
