package infra

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tripmate/internal/config"
	"tripmate/internal/models/db_models"
)

// InitPostgresql opens the pool with the configured driver: pgx (gorm's
// default) or lib/pq registered as "postgres".
func InitPostgresql(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	pgCfg := postgres.Config{DSN: cfg.PostgresURL}
	if cfg.PostgresDriver == "postgres" {
		pgCfg.DriverName = "postgres"
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	connectionPool, err := gorm.Open(postgres.New(pgCfg), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.PostgresMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgresMaxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := connectionPool.AutoMigrate(&db_models.Document{}); err != nil {
		return nil, fmt.Errorf("error migrating documents table: %w", err)
	}

	log.Info("PostgreSQL connected", zap.String("driver", cfg.PostgresDriver))
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing database connection", zap.Error(err))
	} else {
		log.Info("PostgreSQL database connection closed successfully")
	}
}
