package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock-predictor-go/internal/config"
	"stock-predictor-go/internal/models"
)

// NewDatabase opens the workspace store and migrates its schema.
// The default DSN is an in-memory SQLite database, so nothing outlives the process.
func NewDatabase(cfg *config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate drops the workspace tables and recreates them empty.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.ComparisonRecord{}, &models.ScenarioRecord{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := db.AutoMigrate(&models.ComparisonRecord{}, &models.ScenarioRecord{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
