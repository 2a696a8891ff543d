package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
	if err := db.AutoMigrate(
		&models.Vehicle{},
		&models.Inspection{},
		&models.WorkOrder{},
		&models.WorkOrderItem{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedFleet(t *testing.T, db *gorm.DB) {
	t.Helper()
	lastInsp := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	vehicles := []models.Vehicle{
		{ID: "veh-b", UnitNumber: "T-200", Name: "Truck 200", Class: "truck", Status: models.VehicleActive},
		{ID: "veh-a", UnitNumber: "T-100", Name: "Truck 100", Class: "truck", Status: models.VehicleMaintenance,
			LastInspectionDate: &lastInsp, LastInspectionStatus: models.InspectionBlocked},
	}
	for _, v := range vehicles {
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("seed vehicle: %v", err)
		}
	}
}

func TestFleetSummary(t *testing.T) {
	db := openTestDB(t)
	seedFleet(t, db)

	rows, err := FleetSummary(db)
	if err != nil {
		t.Fatalf("FleetSummary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].UnitNumber != "T-100" {
		t.Errorf("first row = %q, want unit number order", rows[0].UnitNumber)
	}
	if rows[0].LastInspectionStatus != models.InspectionBlocked {
		t.Errorf("LastInspectionStatus = %q, want blocked", rows[0].LastInspectionStatus)
	}
	if rows[1].LastInspectionDate != nil {
		t.Error("uninspected vehicle should have nil LastInspectionDate")
	}
}

func TestRecentInspections(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"insp-a", "insp-b", "insp-c"} {
		insp := models.Inspection{
			ID: id, VehicleID: "veh-a", VehicleName: "Truck 100",
			Technician: "alice", Status: models.InspectionCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&insp).Error; err != nil {
			t.Fatalf("seed inspection: %v", err)
		}
	}

	rows, err := RecentInspections(db, 2)
	if err != nil {
		t.Fatalf("RecentInspections: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want limit 2", len(rows))
	}
	if rows[0].ID != "insp-c" || rows[1].ID != "insp-b" {
		t.Errorf("order = %s, %s; want newest first", rows[0].ID, rows[1].ID)
	}

	all, err := RecentInspections(db, 0)
	if err != nil {
		t.Fatalf("RecentInspections(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d rows, want 3", len(all))
	}
}

func TestOpenWorkOrders(t *testing.T) {
	db := openTestDB(t)
	orders := []models.WorkOrder{
		{ID: "wo-a", OrderNumber: "WO-1", VehicleID: "veh-a", InspectionID: "insp-a", Status: models.WorkOrderPending, Priority: 3},
		{ID: "wo-b", OrderNumber: "WO-2", VehicleID: "veh-a", InspectionID: "insp-b", Status: models.WorkOrderInProgress, Priority: 1},
		{ID: "wo-c", OrderNumber: "WO-3", VehicleID: "veh-a", InspectionID: "insp-c", Status: models.WorkOrderCompleted, Priority: 1},
		{ID: "wo-d", OrderNumber: "WO-4", VehicleID: "veh-a", InspectionID: "insp-d", Status: models.WorkOrderCancelled, Priority: 2},
	}
	for _, wo := range orders {
		if err := db.Create(&wo).Error; err != nil {
			t.Fatalf("seed work order: %v", err)
		}
	}
	if err := db.Create(&models.WorkOrderItem{ID: "woi-1", WorkOrderID: "wo-b", Description: "fix", DefectType: models.DefectMajor}).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	rows, err := OpenWorkOrders(db)
	if err != nil {
		t.Fatalf("OpenWorkOrders: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (terminal orders excluded)", len(rows))
	}
	if rows[0].ID != "wo-b" {
		t.Errorf("first row = %s, want highest priority wo-b", rows[0].ID)
	}
	if rows[0].ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", rows[0].ItemCount)
	}
}

func TestInspectionCounts(t *testing.T) {
	db := openTestDB(t)
	statuses := []models.InspectionStatus{
		models.InspectionDraft,
		models.InspectionInProgress, models.InspectionInProgress,
		models.InspectionCompleted, models.InspectionCompleted, models.InspectionCompleted,
		models.InspectionBlocked,
	}
	for i, s := range statuses {
		insp := models.Inspection{
			ID: "insp-" + string(rune('a'+i)), VehicleID: "veh-a",
			Technician: "alice", Status: s, StartedAt: time.Now(),
		}
		if err := db.Create(&insp).Error; err != nil {
			t.Fatalf("seed inspection: %v", err)
		}
	}

	counts, err := InspectionCounts(db)
	if err != nil {
		t.Fatalf("InspectionCounts: %v", err)
	}
	if counts.Draft != 1 || counts.InProgress != 2 || counts.Completed != 3 || counts.Blocked != 1 {
		t.Errorf("counts = %+v, want 1/2/3/1", counts)
	}
}

func TestRoutes(t *testing.T) {
	db := openTestDB(t)
	seedFleet(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, db)

	t.Run("healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("fleet", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/fleet", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body struct {
			Vehicles []VehicleRow `json:"vehicles"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Vehicles) != 2 {
			t.Errorf("vehicles = %d, want 2", len(body.Vehicles))
		}
	})

	t.Run("inspection counts", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/inspections/counts", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var counts StatusCounts
		if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
			t.Fatalf("decode: %v", err)
		}
	})

	t.Run("work orders", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/workorders", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
