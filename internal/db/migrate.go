package db

import (
	"fmt"

	"github.com/zulandar/quotewire/internal/config"
	"github.com/zulandar/quotewire/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Company{},
		&models.Session{},
		&models.Turn{},
		&models.Quotation{},
		&models.QuotationItem{},
		&models.FailedChannel{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedCompanies upserts Company rows from configuration.
func SeedCompanies(db *gorm.DB, companies []config.CompanyConfig) error {
	for _, cc := range companies {
		co := models.Company{
			ID:       cc.ID,
			Name:     cc.Name,
			Industry: cc.Industry,
			Priority: cc.Priority,
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "industry", "priority"}),
		}).Create(&co)
		if result.Error != nil {
			return fmt.Errorf("db: seed company %q: %w", cc.ID, result.Error)
		}
	}
	return nil
}
