package workorder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/fleetyard/internal/defect"
	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.WorkOrder{}, &models.WorkOrderItem{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func synthOpts(defects ...defect.Defect) SynthesizeOpts {
	return SynthesizeOpts{
		InspectionID: "insp-aaaaa",
		VehicleID:    "veh-aaaaa",
		VehicleName:  "Truck 101",
		Defects:      defects,
	}
}

func TestGenerateID_Format(t *testing.T) {
	id, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	if !strings.HasPrefix(id, "wo-") {
		t.Errorf("ID %q missing wo- prefix", id)
	}
	if len(id) != 8 {
		t.Errorf("ID length = %d, want 8; id = %q", len(id), id)
	}
}

func TestSynthesize_MinorOnly(t *testing.T) {
	db := openTestDB(t)
	wo, err := Synthesize(db, synthOpts(
		defect.Defect{Description: "Brake pads: worn", ComponentCode: "BRK-PAD", Type: models.DefectMinor},
		defect.Defect{Description: "Headlights: left out", ComponentCode: "lighting", Type: models.DefectMinor},
	))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if wo.Status != models.WorkOrderPending {
		t.Errorf("status = %q, want pending", wo.Status)
	}
	if wo.Priority != PriorityMinor {
		t.Errorf("priority = %d, want %d", wo.Priority, PriorityMinor)
	}
	if wo.EstimatedHours != 1.0 {
		t.Errorf("EstimatedHours = %v, want 1.0 (two minor defects)", wo.EstimatedHours)
	}
	if wo.EstimatedCost != 9500 {
		t.Errorf("EstimatedCost = %d cents, want 9500", wo.EstimatedCost)
	}
}

func TestSynthesize_MajorRaisesPriority(t *testing.T) {
	db := openTestDB(t)
	wo, err := Synthesize(db, synthOpts(
		defect.Defect{Description: "Brake lines: cracked", ComponentCode: "BRK-LINE", Type: models.DefectMajor},
		defect.Defect{Description: "Headlights: left out", ComponentCode: "lighting", Type: models.DefectMinor},
	))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if wo.Priority != PriorityMajor {
		t.Errorf("priority = %d, want %d", wo.Priority, PriorityMajor)
	}
	if wo.EstimatedHours != 2.5 {
		t.Errorf("EstimatedHours = %v, want 2.5", wo.EstimatedHours)
	}
}

func TestSynthesize_ItemsKeepClassificationOrder(t *testing.T) {
	db := openTestDB(t)
	wo, err := Synthesize(db, synthOpts(
		defect.Defect{Description: "First", ComponentCode: "a", Type: models.DefectMajor},
		defect.Defect{Description: "Second", ComponentCode: "b", Type: models.DefectMinor},
		defect.Defect{Description: "Third", ComponentCode: "c", Type: models.DefectMinor},
	))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	got, err := Get(db, wo.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	want := []string{"First", "Second", "Third"}
	for i, item := range got.Items {
		if item.Ordinal != i {
			t.Errorf("item %d ordinal = %d", i, item.Ordinal)
		}
		if item.Description != want[i] {
			t.Errorf("item %d description = %q, want %q", i, item.Description, want[i])
		}
	}
}

func TestSynthesize_Errors(t *testing.T) {
	db := openTestDB(t)

	if _, err := Synthesize(db, SynthesizeOpts{VehicleID: "veh-a", Defects: []defect.Defect{{}}}); err == nil {
		t.Error("expected error for missing inspection ID")
	}
	if _, err := Synthesize(db, SynthesizeOpts{InspectionID: "insp-a", Defects: []defect.Defect{{}}}); err == nil {
		t.Error("expected error for missing vehicle ID")
	}
	if _, err := Synthesize(db, synthOpts()); err == nil {
		t.Error("expected error for zero defects")
	}
}

func TestOrderNumber(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	got := orderNumber("wo-4af21", now)
	if got != "WO-20260115-4af21" {
		t.Errorf("orderNumber = %q, want WO-20260115-4af21", got)
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from models.WorkOrderStatus
		to   models.WorkOrderStatus
		want bool
	}{
		{models.WorkOrderPending, models.WorkOrderAssigned, true},
		{models.WorkOrderAssigned, models.WorkOrderInProgress, true},
		{models.WorkOrderInProgress, models.WorkOrderCompleted, true},
		{models.WorkOrderPending, models.WorkOrderCancelled, true},
		{models.WorkOrderAssigned, models.WorkOrderCancelled, true},
		{models.WorkOrderInProgress, models.WorkOrderCancelled, true},

		{models.WorkOrderPending, models.WorkOrderInProgress, false},
		{models.WorkOrderPending, models.WorkOrderCompleted, false},
		{models.WorkOrderAssigned, models.WorkOrderCompleted, false},
		{models.WorkOrderCompleted, models.WorkOrderPending, false},
		{models.WorkOrderCancelled, models.WorkOrderPending, false},
	}
	for _, tt := range tests {
		if got := isValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("isValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	wo, err := Synthesize(db, synthOpts(
		defect.Defect{Description: "Brake pads: worn", Type: models.DefectMinor},
	))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if err := UpdateStatus(db, wo.ID, models.WorkOrderAssigned, "bob"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, _ := Get(db, wo.ID)
	if got.AssignedTo != "bob" {
		t.Errorf("AssignedTo = %q, want bob", got.AssignedTo)
	}
	if got.AssignedAt == nil {
		t.Error("AssignedAt not set")
	}

	if err := UpdateStatus(db, wo.ID, models.WorkOrderInProgress, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	got, _ = Get(db, wo.ID)
	if got.StartedAt == nil {
		t.Error("StartedAt not set")
	}

	if err := UpdateStatus(db, wo.ID, models.WorkOrderCompleted, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ = Get(db, wo.ID)
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	// Terminal: no further transitions.
	if err := UpdateStatus(db, wo.ID, models.WorkOrderPending, ""); err == nil {
		t.Error("expected error reopening a completed order")
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	db := openTestDB(t)
	wo, err := Synthesize(db, synthOpts(
		defect.Defect{Description: "Brake pads: worn", Type: models.DefectMinor},
	))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	err = UpdateStatus(db, wo.ID, models.WorkOrderCompleted, "")
	if err == nil {
		t.Fatal("expected error for pending -> completed")
	}
	if !strings.Contains(err.Error(), "invalid status transition") {
		t.Errorf("error = %q", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := Get(db, "wo-nope"); !errors.Is(err, ErrWorkOrderNotFound) {
		t.Errorf("error = %v, want ErrWorkOrderNotFound", err)
	}
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	a, _ := Synthesize(db, SynthesizeOpts{
		InspectionID: "insp-a", VehicleID: "veh-a", VehicleName: "Truck A",
		Defects: []defect.Defect{{Description: "x", Type: models.DefectMinor}},
	})
	b, _ := Synthesize(db, SynthesizeOpts{
		InspectionID: "insp-b", VehicleID: "veh-b", VehicleName: "Truck B",
		Defects: []defect.Defect{{Description: "y", Type: models.DefectMajor}},
	})

	all, err := List(db, ListFilters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}

	byVehicle, err := List(db, ListFilters{VehicleID: "veh-a"})
	if err != nil {
		t.Fatalf("List by vehicle: %v", err)
	}
	if len(byVehicle) != 1 || byVehicle[0].ID != a.ID {
		t.Errorf("List by vehicle = %v", byVehicle)
	}

	byInspection, err := List(db, ListFilters{InspectionID: "insp-b"})
	if err != nil {
		t.Fatalf("List by inspection: %v", err)
	}
	if len(byInspection) != 1 || byInspection[0].ID != b.ID {
		t.Errorf("List by inspection = %v", byInspection)
	}
}
