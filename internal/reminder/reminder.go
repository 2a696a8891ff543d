// Package reminder provides recurring maintenance reminders driven by
// cron expressions.
package reminder

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/fleetyard/internal/models"
	"github.com/zulandar/fleetyard/internal/vehicle"
	"gorm.io/gorm"
)

// ErrReminderNotFound means the referenced reminder does not exist.
var ErrReminderNotFound = errors.New("reminder: not found")

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CreateOpts holds parameters for creating a reminder.
type CreateOpts struct {
	VehicleID string
	Title     string
	CronExpr  string
}

// Create adds an active maintenance reminder for a vehicle. The cron
// expression is validated up front.
func Create(db *gorm.DB, opts CreateOpts) (*models.Reminder, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("reminder: title is required")
	}
	if _, err := cronParser.Parse(opts.CronExpr); err != nil {
		return nil, fmt.Errorf("reminder: invalid cron expression %q: %w", opts.CronExpr, err)
	}
	if _, err := vehicle.Get(db, opts.VehicleID); err != nil {
		return nil, err
	}

	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reminder: generate ID: %w", err)
	}

	rem := models.Reminder{
		ID:        "rem-" + hex.EncodeToString(b)[:5],
		VehicleID: opts.VehicleID,
		Title:     opts.Title,
		CronExpr:  opts.CronExpr,
		Active:    true,
	}
	if err := db.Create(&rem).Error; err != nil {
		return nil, fmt.Errorf("reminder: create: %w", err)
	}
	return &rem, nil
}

// List returns reminders, optionally filtered by vehicle.
func List(db *gorm.DB, vehicleID string) ([]models.Reminder, error) {
	q := db.Model(&models.Reminder{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var rems []models.Reminder
	if err := q.Order("created_at ASC").Find(&rems).Error; err != nil {
		return nil, fmt.Errorf("reminder: list: %w", err)
	}
	return rems, nil
}

// NextDue returns the reminder's next fire time after its last firing
// (or its creation, if it never fired).
func NextDue(rem *models.Reminder) (time.Time, error) {
	sched, err := cronParser.Parse(rem.CronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder: parse %q: %w", rem.CronExpr, err)
	}
	last := rem.CreatedAt
	if rem.LastFired != nil {
		last = *rem.LastFired
	}
	return sched.Next(last), nil
}

// Due returns all active reminders whose next fire time is at or before
// now.
func Due(db *gorm.DB, now time.Time) ([]models.Reminder, error) {
	var rems []models.Reminder
	if err := db.Where("active = ?", true).Find(&rems).Error; err != nil {
		return nil, fmt.Errorf("reminder: list active: %w", err)
	}

	var due []models.Reminder
	for _, rem := range rems {
		next, err := NextDue(&rem)
		if err != nil {
			return nil, err
		}
		if !next.After(now) {
			due = append(due, rem)
		}
	}
	return due, nil
}

// MarkFired records that a reminder was acted on at the given time.
func MarkFired(db *gorm.DB, id string, at time.Time) error {
	res := db.Model(&models.Reminder{}).Where("id = ?", id).Update("last_fired", at)
	if res.Error != nil {
		return fmt.Errorf("reminder: mark fired %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	return nil
}

// Deactivate turns a reminder off without deleting its history.
func Deactivate(db *gorm.DB, id string) error {
	res := db.Model(&models.Reminder{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("reminder: deactivate %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	return nil
}
