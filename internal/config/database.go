package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alfredoptarigan/job-matcher/internal/models"
)

// InitDatabase opens postgres and migrates the applications table. Driver
// errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	if err := db.AutoMigrate(&models.Application{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database migration completed")

	return db, nil
}
