// Package vehicle provides fleet vehicle operations.
package vehicle

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// ErrVehicleNotFound means the referenced vehicle does not exist.
var ErrVehicleNotFound = errors.New("vehicle: not found")

// CreateOpts holds parameters for registering a new vehicle.
type CreateOpts struct {
	CompanyID  string
	UnitNumber string
	Name       string
	VIN        string
	Plate      string
	Class      string // selects the checklist template
	Make       string
	Model      string
	Year       int
}

// ListFilters holds optional filters for listing vehicles.
type ListFilters struct {
	Class  string
	Status models.VehicleStatus
}

// GenerateID creates a unique vehicle ID in veh-xxxxx format.
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("vehicle: generate ID: %w", err)
	}
	return "veh-" + hex.EncodeToString(b)[:5], nil
}

// Create registers a new vehicle in active status.
func Create(db *gorm.DB, opts CreateOpts) (*models.Vehicle, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("vehicle: name is required")
	}
	if opts.Class == "" {
		return nil, fmt.Errorf("vehicle: class is required")
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	v := models.Vehicle{
		ID:         id,
		CompanyID:  opts.CompanyID,
		UnitNumber: opts.UnitNumber,
		Name:       opts.Name,
		VIN:        opts.VIN,
		Plate:      opts.Plate,
		Class:      opts.Class,
		Make:       opts.Make,
		Model:      opts.Model,
		Year:       opts.Year,
		Status:     models.VehicleActive,
	}
	if err := db.Create(&v).Error; err != nil {
		return nil, fmt.Errorf("vehicle: create: %w", err)
	}
	return &v, nil
}

// Get retrieves a vehicle by ID.
func Get(db *gorm.DB, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, id)
		}
		return nil, fmt.Errorf("vehicle: get %s: %w", id, err)
	}
	return &v, nil
}

// List returns vehicles matching the filters, ordered by unit number.
func List(db *gorm.DB, filters ListFilters) ([]models.Vehicle, error) {
	q := db.Model(&models.Vehicle{})

	if filters.Class != "" {
		q = q.Where("class = ?", filters.Class)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}

	var vehicles []models.Vehicle
	if err := q.Order("unit_number ASC, created_at ASC").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("vehicle: list: %w", err)
	}
	return vehicles, nil
}

// SetStatus moves a vehicle between service states.
func SetStatus(db *gorm.DB, id string, status models.VehicleStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("vehicle: invalid status %q", status)
	}
	res := db.Model(&models.Vehicle{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("vehicle: set status of %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrVehicleNotFound, id)
	}
	return nil
}

// ApplyInspectionProjection denormalizes the outcome of a terminal
// inspection onto the vehicle for fast dashboard reads. The vehicle row
// and the inspection row are eventually, not atomically, consistent.
func ApplyInspectionProjection(db *gorm.DB, vehicleID string, status models.InspectionStatus, completedAt time.Time) error {
	if !status.Terminal() {
		return fmt.Errorf("vehicle: projection requires a terminal inspection status, got %q", status)
	}
	res := db.Model(&models.Vehicle{}).Where("id = ?", vehicleID).Updates(map[string]interface{}{
		"last_inspection_date":   completedAt,
		"last_inspection_status": status,
	})
	if res.Error != nil {
		return fmt.Errorf("vehicle: project inspection onto %s: %w", vehicleID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	return nil
}
