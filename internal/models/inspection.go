package models

import "time"

// Inspection is one checklist run by a technician against a vehicle.
// Its counters and status are derived from its checklist items and are
// recomputed on every item update; they are never written directly.
type Inspection struct {
	ID          string           `gorm:"primaryKey;size:32"`
	VehicleID   string           `gorm:"size:32;not null;index"`
	VehicleName string           `gorm:"size:128"`
	Technician  string           `gorm:"size:64;not null"`
	Type        string           `gorm:"size:16;default:periodic"`
	TemplateID  string           `gorm:"size:32"`
	Status      InspectionStatus `gorm:"size:16;default:draft;index"`
	Odometer    int
	Notes       string `gorm:"type:text"`

	TotalItems       int `gorm:"not null;default:0"`
	CompletedItems   int `gorm:"not null;default:0"`
	OkCount          int `gorm:"not null;default:0"`
	MinorDefectCount int `gorm:"not null;default:0"`
	MajorDefectCount int `gorm:"not null;default:0"`

	StartedAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []ChecklistItem `gorm:"foreignKey:InspectionID"`
}

// ChecklistItem is a single inspected component within an inspection.
// Items are cloned in bulk from a template when the inspection starts and
// mutated one at a time; they are never deleted independently.
type ChecklistItem struct {
	ID            string     `gorm:"primaryKey;size:32"`
	InspectionID  string     `gorm:"size:32;not null;index:idx_inspection_ordinal"`
	SectionID     string     `gorm:"size:64;not null"`
	SectionName   string     `gorm:"size:128"`
	Ordinal       int        `gorm:"not null;index:idx_inspection_ordinal"`
	Title         string     `gorm:"size:256;not null"`
	Description   string     `gorm:"type:text"`
	ComponentCode string     `gorm:"size:64"`
	Status        ItemStatus `gorm:"size:16;default:pending;index"`
	Notes         string     `gorm:"type:text"`
	IsRequired    bool       `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Proofs []Proof `gorm:"foreignKey:ItemID"`
}

// Proof is a photo evidence attachment for one checklist item. Immutable
// once captured; removable by the technician before final submission.
type Proof struct {
	ID         string `gorm:"primaryKey;size:32"`
	ItemID     string `gorm:"size:32;not null;index"`
	Path       string `gorm:"size:512;not null"`
	SHA256     string `gorm:"size:64"`
	CapturedAt time.Time
	CreatedAt  time.Time
}
