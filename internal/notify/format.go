package notify

import (
	"fmt"

	"github.com/zulandar/fleetyard/internal/models"
)

// Color constants for event severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// Notification kinds recorded in the outbox.
const (
	KindInspectionCompleted = "inspection_completed"
	KindMajorDefect         = "major_defect"
	KindWorkOrderCreated    = "work_order_created"
)

// FormatInspectionCompleted builds the event for a cleanly completed
// inspection.
func FormatInspectionCompleted(insp *models.Inspection) Event {
	body := fmt.Sprintf("%s passed inspection (%d items", insp.VehicleName, insp.TotalItems)
	if insp.MinorDefectCount > 0 {
		body += fmt.Sprintf(", %d minor defect(s)", insp.MinorDefectCount)
	}
	body += ")"
	return Event{
		Title:    fmt.Sprintf("Inspection %s completed", insp.ID),
		Body:     body,
		Severity: "success",
		Color:    ColorSuccess,
		Fields: []Field{
			{Name: "Vehicle", Value: insp.VehicleName, Short: true},
			{Name: "Technician", Value: insp.Technician, Short: true},
		},
	}
}

// FormatMajorDefect builds the blocking event for an inspection that found
// at least one major defect.
func FormatMajorDefect(insp *models.Inspection, message string) Event {
	return Event{
		Title:    fmt.Sprintf("Major defect on %s", insp.VehicleName),
		Body:     message,
		Severity: "error",
		Color:    ColorError,
		Fields: []Field{
			{Name: "Inspection", Value: insp.ID, Short: true},
			{Name: "Major defects", Value: fmt.Sprintf("%d", insp.MajorDefectCount), Short: true},
		},
	}
}

// FormatWorkOrderCreated builds the event for a synthesized work order.
func FormatWorkOrderCreated(wo *models.WorkOrder, itemCount int) Event {
	severity := "info"
	color := ColorInfo
	if wo.Priority <= 1 {
		severity = "warning"
		color = ColorWarning
	}
	return Event{
		Title:    fmt.Sprintf("Work order %s created", wo.OrderNumber),
		Body:     fmt.Sprintf("%d repair item(s) for %s", itemCount, wo.VehicleName),
		Severity: severity,
		Color:    color,
		Fields: []Field{
			{Name: "Vehicle", Value: wo.VehicleName, Short: true},
			{Name: "Inspection", Value: wo.InspectionID, Short: true},
		},
	}
}
