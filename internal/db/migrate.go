package db

import (
	"fmt"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Vehicle{},
		&models.ChecklistTemplate{},
		&models.TemplateSection{},
		&models.TemplateItem{},
		&models.Inspection{},
		&models.ChecklistItem{},
		&models.Proof{},
		&models.WorkOrder{},
		&models.WorkOrderItem{},
		&models.Reminder{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates all Fleetyard tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
