package repository

import (
	"fmt"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres when a DSN is configured and falls back to a local
// sqlite file otherwise, which keeps development setup at zero.
func Open(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	}
	db, err := gorm.Open(sqlite.Open("asset-maintenance.db"), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.RefreshSession{},
		&domain.Case{},
		&domain.Asset{},
		&domain.AssetAllocation{},
		&domain.Article{},
		&domain.Announcement{},
		&domain.Document{},
	)
}
