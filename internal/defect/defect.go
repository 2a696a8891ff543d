// Package defect classifies the checklist items of a finished inspection
// into defect records for work-order synthesis.
package defect

import (
	"strings"

	"github.com/zulandar/fleetyard/internal/models"
)

// Defect is one classified finding, ready for a work-order line.
type Defect struct {
	Description   string
	ComponentCode string
	Type          models.DefectType
}

// Classify maps checklist items to defect records. Only items resolved as
// minor_defect or major_defect are included, in the order given (callers
// pass items in walkthrough order). The component code falls back to the
// item's section ID when the template carried none.
func Classify(items []models.ChecklistItem) []Defect {
	var defects []Defect
	for _, item := range items {
		if !item.Status.Defect() {
			continue
		}

		code := item.ComponentCode
		if code == "" {
			code = item.SectionID
		}

		desc := item.Title
		if notes := strings.TrimSpace(item.Notes); notes != "" {
			desc = item.Title + ": " + notes
		}

		dt := models.DefectMinor
		if item.Status == models.ItemMajorDefect {
			dt = models.DefectMajor
		}

		defects = append(defects, Defect{
			Description:   desc,
			ComponentCode: code,
			Type:          dt,
		})
	}
	return defects
}

// HasMajor reports whether any classified defect is major.
func HasMajor(defects []Defect) bool {
	for _, d := range defects {
		if d.Type == models.DefectMajor {
			return true
		}
	}
	return false
}
