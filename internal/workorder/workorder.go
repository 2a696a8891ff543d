// Package workorder provides work order synthesis and lifecycle operations.
package workorder

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// ErrWorkOrderNotFound means the referenced work order does not exist.
var ErrWorkOrderNotFound = errors.New("workorder: not found")

// ValidTransitions maps each status to its valid next statuses. Cancel is
// allowed from any non-terminal status.
var ValidTransitions = map[models.WorkOrderStatus][]models.WorkOrderStatus{
	models.WorkOrderPending:    {models.WorkOrderAssigned, models.WorkOrderCancelled},
	models.WorkOrderAssigned:   {models.WorkOrderInProgress, models.WorkOrderCancelled},
	models.WorkOrderInProgress: {models.WorkOrderCompleted, models.WorkOrderCancelled},
	models.WorkOrderCompleted:  {},
	models.WorkOrderCancelled:  {},
}

// ListFilters holds optional filters for listing work orders.
type ListFilters struct {
	VehicleID    string
	InspectionID string
	Status       models.WorkOrderStatus
	AssignedTo   string
}

// GenerateID creates a unique work order ID in wo-xxxxx format.
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("workorder: generate ID: %w", err)
	}
	return "wo-" + hex.EncodeToString(b)[:5], nil
}

// Get retrieves a work order by ID with its items preloaded in order.
func Get(db *gorm.DB, id string) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		Where("id = ?", id).First(&wo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWorkOrderNotFound, id)
		}
		return nil, fmt.Errorf("workorder: get %s: %w", id, err)
	}
	return &wo, nil
}

// List returns work orders matching the filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.WorkOrder, error) {
	q := db.Model(&models.WorkOrder{})

	if filters.VehicleID != "" {
		q = q.Where("vehicle_id = ?", filters.VehicleID)
	}
	if filters.InspectionID != "" {
		q = q.Where("inspection_id = ?", filters.InspectionID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filters.AssignedTo)
	}

	var orders []models.WorkOrder
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("workorder: list: %w", err)
	}
	return orders, nil
}

// UpdateStatus applies a dispatch lifecycle transition, maintaining the
// assignment and completion timestamps.
func UpdateStatus(db *gorm.DB, id string, to models.WorkOrderStatus, assignee string) error {
	if !to.IsValid() {
		return fmt.Errorf("workorder: invalid status %q", to)
	}

	wo, err := Get(db, id)
	if err != nil {
		return err
	}
	if !isValidTransition(wo.Status, to) {
		return fmt.Errorf("workorder: invalid status transition from %q to %q; valid transitions: %v",
			wo.Status, to, ValidTransitions[wo.Status])
	}

	updates := map[string]interface{}{"status": to}
	now := time.Now()
	switch to {
	case models.WorkOrderAssigned:
		updates["assigned_at"] = now
		if assignee != "" {
			updates["assigned_to"] = assignee
		}
	case models.WorkOrderInProgress:
		updates["started_at"] = now
	case models.WorkOrderCompleted:
		updates["completed_at"] = now
	case models.WorkOrderPending, models.WorkOrderCancelled:
	}

	if err := db.Model(&models.WorkOrder{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("workorder: update %s: %w", id, err)
	}
	return nil
}

// isValidTransition checks whether a status transition is allowed.
func isValidTransition(from, to models.WorkOrderStatus) bool {
	valid, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == to {
			return true
		}
	}
	return false
}
