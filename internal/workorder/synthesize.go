package workorder

import (
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/defect"
	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// Naive shop estimates used until a planner quotes the job.
const (
	minorDefectHours = 0.5
	majorDefectHours = 2.0
	shopRateCents    = 9500 // per hour
)

// Work order priorities (0=critical → 4=backlog).
const (
	PriorityMajor = 1
	PriorityMinor = 3
)

// SynthesizeOpts holds parameters for generating a work order from
// classified defects.
type SynthesizeOpts struct {
	InspectionID string
	VehicleID    string
	VehicleName  string
	Defects      []defect.Defect
}

// Synthesize converts classified defects into a persisted work order with
// one item per defect, in classification order. The order number, priority,
// and time/cost estimates are assigned here.
func Synthesize(db *gorm.DB, opts SynthesizeOpts) (*models.WorkOrder, error) {
	if opts.InspectionID == "" {
		return nil, fmt.Errorf("workorder: inspection ID is required")
	}
	if opts.VehicleID == "" {
		return nil, fmt.Errorf("workorder: vehicle ID is required")
	}
	if len(opts.Defects) == 0 {
		return nil, fmt.Errorf("workorder: no defects to synthesize for %s", opts.InspectionID)
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	priority := PriorityMinor
	if defect.HasMajor(opts.Defects) {
		priority = PriorityMajor
	}

	var hours float64
	for _, d := range opts.Defects {
		if d.Type == models.DefectMajor {
			hours += majorDefectHours
		} else {
			hours += minorDefectHours
		}
	}

	wo := models.WorkOrder{
		ID:             id,
		OrderNumber:    orderNumber(id, time.Now()),
		InspectionID:   opts.InspectionID,
		VehicleID:      opts.VehicleID,
		VehicleName:    opts.VehicleName,
		Status:         models.WorkOrderPending,
		Priority:       priority,
		EstimatedHours: hours,
		EstimatedCost:  int64(hours * shopRateCents),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wo).Error; err != nil {
			return err
		}
		for i, d := range opts.Defects {
			itemID, err := GenerateID()
			if err != nil {
				return err
			}
			item := models.WorkOrderItem{
				ID:            itemID,
				WorkOrderID:   wo.ID,
				Ordinal:       i,
				Description:   d.Description,
				ComponentCode: d.ComponentCode,
				DefectType:    d.Type,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workorder: synthesize for %s: %w", opts.InspectionID, err)
	}
	return &wo, nil
}

// orderNumber builds a human-readable order number, e.g. "WO-20260115-4af21".
func orderNumber(id string, now time.Time) string {
	return fmt.Sprintf("WO-%s-%s", now.Format("20060102"), id[len("wo-"):])
}
