package inspection

import (
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// ValidTransitions maps each inspection status to its valid next statuses.
// A one-item inspection may jump straight from draft to a terminal state.
// There is no path out of a terminal state.
var ValidTransitions = map[models.InspectionStatus][]models.InspectionStatus{
	models.InspectionDraft:      {models.InspectionInProgress, models.InspectionCompleted, models.InspectionBlocked},
	models.InspectionInProgress: {models.InspectionCompleted, models.InspectionBlocked},
	models.InspectionCompleted:  {},
	models.InspectionBlocked:    {},
}

// Rollup holds the counters derived from an inspection's items.
type Rollup struct {
	TotalItems       int
	CompletedItems   int
	OkCount          int
	MinorDefectCount int
	MajorDefectCount int
}

// CountItems derives the rollup counters from a set of checklist items.
func CountItems(items []models.ChecklistItem) Rollup {
	r := Rollup{TotalItems: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ItemPending:
		case models.ItemOK:
			r.CompletedItems++
			r.OkCount++
		case models.ItemMinorDefect:
			r.CompletedItems++
			r.MinorDefectCount++
		case models.ItemMajorDefect:
			r.CompletedItems++
			r.MajorDefectCount++
		}
	}
	return r
}

// deriveStatus computes the status a non-terminal inspection should hold
// for the given counters. A single major defect anywhere blocks the whole
// inspection regardless of how many items are otherwise fine.
func deriveStatus(current models.InspectionStatus, r Rollup) models.InspectionStatus {
	if r.TotalItems > 0 && r.CompletedItems == r.TotalItems {
		if r.MajorDefectCount > 0 {
			return models.InspectionBlocked
		}
		return models.InspectionCompleted
	}
	if r.CompletedItems > 0 {
		return models.InspectionInProgress
	}
	return current
}

// isValidTransition checks whether a status transition is allowed.
func isValidTransition(from, to models.InspectionStatus) bool {
	if from == to {
		return true
	}
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

// Recompute recounts the inspection's items and persists the derived
// counters and status. CompletedAt is set exactly once, on the transition
// into a terminal state. A terminal inspection is never modified.
func Recompute(db *gorm.DB, inspectionID string) (*models.Inspection, error) {
	insp, err := Get(db, inspectionID)
	if err != nil {
		return nil, err
	}
	if insp.Status.Terminal() {
		return insp, nil
	}

	var items []models.ChecklistItem
	if err := db.Where("inspection_id = ?", inspectionID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("inspection: load items of %s: %w", inspectionID, err)
	}

	r := CountItems(items)
	next := deriveStatus(insp.Status, r)
	if !isValidTransition(insp.Status, next) {
		return nil, fmt.Errorf("inspection: invalid status transition from %q to %q", insp.Status, next)
	}

	updates := map[string]interface{}{
		"total_items":        r.TotalItems,
		"completed_items":    r.CompletedItems,
		"ok_count":           r.OkCount,
		"minor_defect_count": r.MinorDefectCount,
		"major_defect_count": r.MajorDefectCount,
		"status":             next,
	}
	if next.Terminal() && insp.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = now
		insp.CompletedAt = &now
	}

	if err := db.Model(&models.Inspection{}).Where("id = ?", inspectionID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("inspection: persist rollup of %s: %w", inspectionID, err)
	}

	insp.TotalItems = r.TotalItems
	insp.CompletedItems = r.CompletedItems
	insp.OkCount = r.OkCount
	insp.MinorDefectCount = r.MinorDefectCount
	insp.MajorDefectCount = r.MajorDefectCount
	insp.Status = next
	return insp, nil
}
