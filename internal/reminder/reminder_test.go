package reminder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"github.com/zulandar/fleetyard/internal/vehicle"
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
	if err := db.AutoMigrate(&models.Vehicle{}, &models.Reminder{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedVehicle(t *testing.T, db *gorm.DB) *models.Vehicle {
	t.Helper()
	v, err := vehicle.Create(db, vehicle.CreateOpts{Name: "Truck 101", Class: "truck"})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return v
}

func TestCreate(t *testing.T) {
	db := openTestDB(t)
	v := seedVehicle(t, db)

	rem, err := Create(db, CreateOpts{
		VehicleID: v.ID,
		Title:     "Oil change",
		CronExpr:  "0 8 1 * *",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(rem.ID, "rem-") {
		t.Errorf("ID = %q, want rem- prefix", rem.ID)
	}
	if !rem.Active {
		t.Error("new reminder should be active")
	}
	if rem.LastFired != nil {
		t.Error("new reminder should have no fire history")
	}
}

func TestCreate_Validation(t *testing.T) {
	db := openTestDB(t)
	v := seedVehicle(t, db)

	if _, err := Create(db, CreateOpts{VehicleID: v.ID, CronExpr: "0 8 * * *"}); err == nil {
		t.Error("expected error for missing title")
	}
	_, err := Create(db, CreateOpts{VehicleID: v.ID, Title: "Oil change", CronExpr: "every tuesday"})
	if err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid cron expression") {
		t.Errorf("error = %q", err)
	}
	if _, err := Create(db, CreateOpts{VehicleID: "veh-nope", Title: "Oil change", CronExpr: "0 8 * * *"}); !errors.Is(err, vehicle.ErrVehicleNotFound) {
		t.Errorf("unknown vehicle: error = %v, want ErrVehicleNotFound", err)
	}
}

func TestNextDue_FromCreation(t *testing.T) {
	created := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	rem := &models.Reminder{CronExpr: "0 8 * * *", CreatedAt: created}

	next, err := NextDue(rem)
	if err != nil {
		t.Fatalf("NextDue: %v", err)
	}
	want := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextDue_FromLastFired(t *testing.T) {
	created := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	fired := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	rem := &models.Reminder{CronExpr: "0 8 * * *", CreatedAt: created, LastFired: &fired}

	next, err := NextDue(rem)
	if err != nil {
		t.Fatalf("NextDue: %v", err)
	}
	want := time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestDue(t *testing.T) {
	db := openTestDB(t)
	v := seedVehicle(t, db)

	overdue, err := Create(db, CreateOpts{VehicleID: v.ID, Title: "Oil change", CronExpr: "0 8 * * *"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A daily schedule always fires within a 48 hour window.
	due, err := Due(db, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	found := false
	for _, rem := range due {
		if rem.ID == overdue.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("daily reminder missing from due list: %v", due)
	}
}

func TestDue_SkipsInactive(t *testing.T) {
	db := openTestDB(t)
	v := seedVehicle(t, db)

	rem, err := Create(db, CreateOpts{VehicleID: v.ID, Title: "Oil change", CronExpr: "0 8 * * *"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Deactivate(db, rem.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	due, err := Due(db, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("inactive reminder reported due: %v", due)
	}
}

func TestMarkFired_NotFound(t *testing.T) {
	db := openTestDB(t)
	if err := MarkFired(db, "rem-nope", time.Now()); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("error = %v, want ErrReminderNotFound", err)
	}
}

func TestDeactivate_NotFound(t *testing.T) {
	db := openTestDB(t)
	if err := Deactivate(db, "rem-nope"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("error = %v, want ErrReminderNotFound", err)
	}
}

func TestList_FilterByVehicle(t *testing.T) {
	db := openTestDB(t)
	v1 := seedVehicle(t, db)
	v2, err := vehicle.Create(db, vehicle.CreateOpts{Name: "Van 1", Class: "van"})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	if _, err := Create(db, CreateOpts{VehicleID: v1.ID, Title: "Oil change", CronExpr: "0 8 * * *"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := Create(db, CreateOpts{VehicleID: v2.ID, Title: "Brake check", CronExpr: "0 8 * * 1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := List(db, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	mine, err := List(db, v1.ID)
	if err != nil {
		t.Fatalf("List by vehicle: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Oil change" {
		t.Errorf("filtered = %v", mine)
	}
}
