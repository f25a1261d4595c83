package persistence

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/infrastructure/config"
	"github.com/stockyard/backend/internal/infrastructure/logger"
)

// NewDatabase opens the postgres connection with the pool settings and
// zap-backed query logging from the configuration.
func NewDatabase(cfg config.DatabaseConfig, zapLogger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate creates or updates the schema for every aggregate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Item{},
		&catalog.Location{},
		&catalog.Supplier{},
		&catalog.Vehicle{},
		&catalog.Driver{},
		&inventory.StockBatch{},
		&inventory.StockTransaction{},
		&logistics.Trip{},
		&logistics.TripStop{},
		&logistics.PendingDelivery{},
		&logistics.StockRequest{},
	)
}
