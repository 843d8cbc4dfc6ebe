// Package pgtest starts a disposable PostgreSQL for integration tests and applies the
// schema migrations to it.
package pgtest

import (
	"context"
	"time"

	"laundry/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated PostgreSQL container with an open GORM connection.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs postgres:15-alpine and applies every migration.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("laundry"),
		postgres.WithUsername("laundry"),
		postgres.WithPassword("laundry"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	migrator, err := migrations.NewMigrator(sqlDB, zap.NewNop())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err = migrator.Up(ctx); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db, DSN: dsn}, nil
}

// Reset empties the dispatch tables and rewinds the order sequence.
func (d *Database) Reset() error {
	if err := d.DB.Exec("TRUNCATE TABLE orders, partners").Error; err != nil {
		return err
	}
	return d.DB.Exec("UPDATE order_sequences SET value = 0").Error
}

// Stop closes the connection and terminates the container.
func (d *Database) Stop(ctx context.Context) error {
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return d.Container.Terminate(ctx)
}
