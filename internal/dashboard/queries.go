// Package dashboard serves a read-only fleet status view over HTTP.
package dashboard

import (
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// VehicleRow holds vehicle data for display.
type VehicleRow struct {
	ID                   string                  `json:"id"`
	UnitNumber           string                  `json:"unit_number"`
	Name                 string                  `json:"name"`
	Class                string                  `json:"class"`
	Status               models.VehicleStatus    `json:"status"`
	LastInspectionDate   *time.Time              `json:"last_inspection_date"`
	LastInspectionStatus models.InspectionStatus `json:"last_inspection_status"`
}

// FleetSummary returns all vehicles with their denormalized last
// inspection outcome, ordered by unit number.
func FleetSummary(db *gorm.DB) ([]VehicleRow, error) {
	var vehicles []models.Vehicle
	if err := db.Order("unit_number ASC, created_at ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}

	rows := make([]VehicleRow, len(vehicles))
	for i, v := range vehicles {
		rows[i] = VehicleRow{
			ID:                   v.ID,
			UnitNumber:           v.UnitNumber,
			Name:                 v.Name,
			Class:                v.Class,
			Status:               v.Status,
			LastInspectionDate:   v.LastInspectionDate,
			LastInspectionStatus: v.LastInspectionStatus,
		}
	}
	return rows, nil
}

// InspectionRow holds inspection data for display.
type InspectionRow struct {
	ID          string                  `json:"id"`
	VehicleName string                  `json:"vehicle_name"`
	Technician  string                  `json:"technician"`
	Type        string                  `json:"type"`
	Status      models.InspectionStatus `json:"status"`
	Completed   int                     `json:"completed_items"`
	Total       int                     `json:"total_items"`
	Majors      int                     `json:"major_defects"`
	Minors      int                     `json:"minor_defects"`
	StartedAt   time.Time               `json:"started_at"`
}

// RecentInspections returns the most recent inspections, newest first.
func RecentInspections(db *gorm.DB, limit int) ([]InspectionRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var inspections []models.Inspection
	if err := db.Order("started_at DESC").Limit(limit).Find(&inspections).Error; err != nil {
		return nil, err
	}

	rows := make([]InspectionRow, len(inspections))
	for i, insp := range inspections {
		rows[i] = InspectionRow{
			ID:          insp.ID,
			VehicleName: insp.VehicleName,
			Technician:  insp.Technician,
			Type:        insp.Type,
			Status:      insp.Status,
			Completed:   insp.CompletedItems,
			Total:       insp.TotalItems,
			Majors:      insp.MajorDefectCount,
			Minors:      insp.MinorDefectCount,
			StartedAt:   insp.StartedAt,
		}
	}
	return rows, nil
}

// WorkOrderRow holds work order data for display.
type WorkOrderRow struct {
	ID          string                 `json:"id"`
	OrderNumber string                 `json:"order_number"`
	VehicleName string                 `json:"vehicle_name"`
	Status      models.WorkOrderStatus `json:"status"`
	Priority    int                    `json:"priority"`
	ItemCount   int                    `json:"item_count"`
	CreatedAt   time.Time              `json:"created_at"`
}

// OpenWorkOrders returns work orders not yet completed or cancelled,
// highest priority first.
func OpenWorkOrders(db *gorm.DB) ([]WorkOrderRow, error) {
	var orders []models.WorkOrder
	if err := db.Preload("Items").
		Where("status NOT IN ?", []models.WorkOrderStatus{models.WorkOrderCompleted, models.WorkOrderCancelled}).
		Order("priority ASC, created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}

	rows := make([]WorkOrderRow, len(orders))
	for i, wo := range orders {
		rows[i] = WorkOrderRow{
			ID:          wo.ID,
			OrderNumber: wo.OrderNumber,
			VehicleName: wo.VehicleName,
			Status:      wo.Status,
			Priority:    wo.Priority,
			ItemCount:   len(wo.Items),
			CreatedAt:   wo.CreatedAt,
		}
	}
	return rows, nil
}

// StatusCounts summarizes inspections by status for the header bar.
type StatusCounts struct {
	Draft      int64 `json:"draft"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Blocked    int64 `json:"blocked"`
}

// InspectionCounts returns inspection counts grouped by status.
func InspectionCounts(db *gorm.DB) (*StatusCounts, error) {
	type row struct {
		Status models.InspectionStatus
		Count  int64
	}
	var rows []row
	if err := db.Model(&models.Inspection{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := &StatusCounts{}
	for _, r := range rows {
		switch r.Status {
		case models.InspectionDraft:
			counts.Draft = r.Count
		case models.InspectionInProgress:
			counts.InProgress = r.Count
		case models.InspectionCompleted:
			counts.Completed = r.Count
		case models.InspectionBlocked:
			counts.Blocked = r.Count
		}
	}
	return counts, nil
}
