package database

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"Remindly/config"
)

// Open connects to PostgreSQL, tunes the pool and runs migrations. The handle
// is returned to the caller and threaded through constructors; there is no
// package level singleton.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to get sql.DB from gorm", zap.Error(err))
		return nil, err
	}

	configureConnectionPool(sqlDB, cfg)

	if err := sqlDB.Ping(); err != nil {
		log.Error("Failed to ping database", zap.Error(err))
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Error("Failed to run database migration", zap.Error(err))
		return nil, err
	}

	log.Info("Database initialized successfully")
	return db, nil
}

func Close(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB, cfg *config.Config) {
	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
