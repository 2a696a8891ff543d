package models

import "time"

// WorkOrder is generated from the defects of a terminal inspection, never
// hand-authored. Dispatch and completion are driven by the shop workflow.
type WorkOrder struct {
	ID           string          `gorm:"primaryKey;size:32"`
	OrderNumber  string          `gorm:"size:32;uniqueIndex"`
	InspectionID string          `gorm:"size:32;not null;index"`
	VehicleID    string          `gorm:"size:32;not null;index"`
	VehicleName  string          `gorm:"size:128"`
	Status       WorkOrderStatus `gorm:"size:16;default:pending;index"`
	Priority     int             `gorm:"default:2"`
	AssignedTo   string          `gorm:"size:64"`

	EstimatedHours float64
	ActualHours    float64
	EstimatedCost  int64 // cents
	ActualCost     int64 // cents

	CreatedAt   time.Time
	UpdatedAt   time.Time
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	Items []WorkOrderItem `gorm:"foreignKey:WorkOrderID"`
}

// WorkOrderItem is one repair line, one per classified defect.
type WorkOrderItem struct {
	ID            string     `gorm:"primaryKey;size:32"`
	WorkOrderID   string     `gorm:"size:32;not null;index"`
	Ordinal       int        `gorm:"not null"`
	Description   string     `gorm:"size:512;not null"`
	ComponentCode string     `gorm:"size:64"`
	DefectType    DefectType `gorm:"size:8;not null"`
	Done          bool       `gorm:"default:false"`
}
