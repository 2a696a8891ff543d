package models

import "time"

// Reminder schedules recurring maintenance for a vehicle using a 5-field
// cron expression (e.g. "0 8 1 * *" for the 1st of each month at 08:00).
type Reminder struct {
	ID        string `gorm:"primaryKey;size:32"`
	VehicleID string `gorm:"size:32;not null;index"`
	Title     string `gorm:"size:256;not null"`
	CronExpr  string `gorm:"size:64;not null"`
	Active    bool   `gorm:"default:true;index"`
	LastFired *time.Time
	CreatedAt time.Time
}
