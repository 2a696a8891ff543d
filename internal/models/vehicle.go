package models

import "time"

// Vehicle is a fleet unit that inspections and work orders reference.
type Vehicle struct {
	ID         string `gorm:"primaryKey;size:32"`
	CompanyID  string `gorm:"size:32;index"`
	UnitNumber string `gorm:"size:32;index"`
	Name       string `gorm:"size:128;not null"`
	VIN        string `gorm:"size:17;uniqueIndex"`
	Plate      string `gorm:"size:16;index"`
	Class      string `gorm:"size:32;not null;index"`
	Make       string `gorm:"size:64"`
	Model      string `gorm:"size:64"`
	Year       int
	Status     VehicleStatus `gorm:"size:16;default:active;index"`

	// Denormalized from the most recent terminal inspection for fast
	// dashboard reads. Updated by the inspection projection step, not
	// atomically with the inspection row.
	LastInspectionDate   *time.Time
	LastInspectionStatus InspectionStatus `gorm:"size:16"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
