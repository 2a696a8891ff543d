// Package inspection implements the inspection lifecycle: starting a
// checklist run against a vehicle, the single item-update mutation path,
// the counter rollup and status state machine, and the defect-driven
// work-order pipeline that runs when an inspection reaches a terminal
// state.
package inspection

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// ErrInspectionNotFound means the referenced inspection does not exist.
var ErrInspectionNotFound = errors.New("inspection: not found")

// Inspection types.
const (
	TypePeriodic = "periodic"
	TypePreTrip  = "pre_trip"
	TypePostTrip = "post_trip"
	TypeIncident = "incident"
)

// ValidType reports whether t is a recognized inspection type.
func ValidType(t string) bool {
	switch t {
	case TypePeriodic, TypePreTrip, TypePostTrip, TypeIncident:
		return true
	}
	return false
}

// ListFilters holds optional filters for listing inspections.
type ListFilters struct {
	VehicleID  string
	Technician string
	Status     models.InspectionStatus
	Type       string
}

// GenerateID creates a unique inspection ID in insp-xxxxx format.
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("inspection: generate ID: %w", err)
	}
	return "insp-" + hex.EncodeToString(b)[:5], nil
}

// Get retrieves an inspection by ID.
func Get(db *gorm.DB, id string) (*models.Inspection, error) {
	var insp models.Inspection
	if err := db.Where("id = ?", id).First(&insp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInspectionNotFound, id)
		}
		return nil, fmt.Errorf("inspection: get %s: %w", id, err)
	}
	return &insp, nil
}

// List returns inspections matching the filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.Inspection, error) {
	q := db.Model(&models.Inspection{})

	if filters.VehicleID != "" {
		q = q.Where("vehicle_id = ?", filters.VehicleID)
	}
	if filters.Technician != "" {
		q = q.Where("technician = ?", filters.Technician)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		q = q.Where("type = ?", filters.Type)
	}

	var inspections []models.Inspection
	if err := q.Order("started_at DESC").Find(&inspections).Error; err != nil {
		return nil, fmt.Errorf("inspection: list: %w", err)
	}
	return inspections, nil
}
