package models

import "time"

// Notification is an outbox row for every event handed to the chat
// dispatcher. Delivery is best-effort; undelivered rows can be replayed.
type Notification struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Kind         string `gorm:"size:32;not null;index"` // inspection_completed, major_defect, work_order_created
	VehicleID    string `gorm:"size:32;index"`
	VehicleName  string `gorm:"size:128"`
	InspectionID string `gorm:"size:32;index"`
	WorkOrderID  string `gorm:"size:32"`
	Message      string `gorm:"size:512"`
	Delivered    bool   `gorm:"default:false;index"`
	DeliveredAt  *time.Time
	CreatedAt    time.Time
}
