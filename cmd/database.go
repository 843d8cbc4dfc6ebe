package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // database/sql driver used by migrations
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"laundry/internal/adapters/out/postgres/migrations"
	"laundry/internal/seeder"
)

// NewGormDB opens the pool used by repositories and queries.
func NewGormDB(lc fx.Lifecycle, cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPoolSettings(sqlDB, cfg.Database)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			logger.Info("database connected")
			return nil
		},
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})
	return db, nil
}

// NewMigrator opens a plain database/sql pool for goose.
func NewMigrator(lc fx.Lifecycle, cfg Config, logger *zap.Logger) (*migrations.Migrator, error) {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(context.Context) error {
			return sqlDB.Close()
		},
	})
	return migrations.NewMigrator(sqlDB, logger.Named("migrations"))
}

func applyPoolSettings(db *sql.DB, cfg Database) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
}

// NewSeeder provides the development data seeder.
func NewSeeder(db *gorm.DB, logger *zap.Logger) *seeder.Seeder {
	return seeder.New(db, logger)
}
