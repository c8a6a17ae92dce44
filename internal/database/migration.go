package database

import (
	"fmt"

	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.FuelCard{},
		&models.Vehicle{},
		&models.FuelOperation{},
		&models.FuelDistribution{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
