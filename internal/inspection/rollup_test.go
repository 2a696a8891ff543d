package inspection

import (
	"testing"
	"time"

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
		&models.ChecklistTemplate{},
		&models.TemplateSection{},
		&models.TemplateItem{},
		&models.Inspection{},
		&models.ChecklistItem{},
		&models.Proof{},
		&models.WorkOrder{},
		&models.WorkOrderItem{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedWithItems(t *testing.T, db *gorm.DB, status models.InspectionStatus, itemStatuses []models.ItemStatus) *models.Inspection {
	t.Helper()
	insp := &models.Inspection{
		ID:         "insp-rollup",
		VehicleID:  "veh-aaaaa",
		Technician: "alice",
		Status:     status,
		TotalItems: len(itemStatuses),
		StartedAt:  time.Now(),
	}
	if err := db.Create(insp).Error; err != nil {
		t.Fatalf("seed inspection: %v", err)
	}
	for i, s := range itemStatuses {
		item := &models.ChecklistItem{
			ID:           insp.ID + "-item-" + string(rune('a'+i)),
			InspectionID: insp.ID,
			SectionID:    "brakes",
			Ordinal:      i,
			Title:        "Item",
			Status:       s,
		}
		if s.Defect() {
			item.Notes = "documented"
		}
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("seed item %d: %v", i, err)
		}
	}
	return insp
}

func TestCountItems(t *testing.T) {
	items := []models.ChecklistItem{
		{Status: models.ItemPending},
		{Status: models.ItemOK},
		{Status: models.ItemOK},
		{Status: models.ItemMinorDefect},
		{Status: models.ItemMajorDefect},
	}
	r := CountItems(items)
	if r.TotalItems != 5 {
		t.Errorf("TotalItems = %d, want 5", r.TotalItems)
	}
	if r.CompletedItems != 4 {
		t.Errorf("CompletedItems = %d, want 4", r.CompletedItems)
	}
	if r.OkCount != 2 {
		t.Errorf("OkCount = %d, want 2", r.OkCount)
	}
	if r.MinorDefectCount != 1 {
		t.Errorf("MinorDefectCount = %d, want 1", r.MinorDefectCount)
	}
	if r.MajorDefectCount != 1 {
		t.Errorf("MajorDefectCount = %d, want 1", r.MajorDefectCount)
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from models.InspectionStatus
		to   models.InspectionStatus
		want bool
	}{
		{models.InspectionDraft, models.InspectionInProgress, true},
		{models.InspectionDraft, models.InspectionCompleted, true},
		{models.InspectionDraft, models.InspectionBlocked, true},
		{models.InspectionInProgress, models.InspectionCompleted, true},
		{models.InspectionInProgress, models.InspectionBlocked, true},

		// Self-transitions are no-ops, not violations.
		{models.InspectionDraft, models.InspectionDraft, true},
		{models.InspectionInProgress, models.InspectionInProgress, true},

		// No path out of a terminal state.
		{models.InspectionCompleted, models.InspectionInProgress, false},
		{models.InspectionCompleted, models.InspectionBlocked, false},
		{models.InspectionBlocked, models.InspectionCompleted, false},
		{models.InspectionBlocked, models.InspectionInProgress, false},

		// No regression.
		{models.InspectionInProgress, models.InspectionDraft, false},
	}
	for _, tt := range tests {
		if got := isValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("isValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRecompute_PartialProgress(t *testing.T) {
	db := openTestDB(t)
	seedWithItems(t, db, models.InspectionDraft,
		[]models.ItemStatus{models.ItemOK, models.ItemPending, models.ItemPending})

	insp, err := Recompute(db, "insp-rollup")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if insp.Status != models.InspectionInProgress {
		t.Errorf("status = %q, want in_progress", insp.Status)
	}
	if insp.CompletedItems != 1 || insp.OkCount != 1 {
		t.Errorf("counters = %d completed / %d ok, want 1/1", insp.CompletedItems, insp.OkCount)
	}
	if insp.CompletedAt != nil {
		t.Error("CompletedAt set on a non-terminal inspection")
	}
}

func TestRecompute_AllPendingStaysDraft(t *testing.T) {
	db := openTestDB(t)
	seedWithItems(t, db, models.InspectionDraft,
		[]models.ItemStatus{models.ItemPending, models.ItemPending})

	insp, err := Recompute(db, "insp-rollup")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if insp.Status != models.InspectionDraft {
		t.Errorf("status = %q, want draft", insp.Status)
	}
}

func TestRecompute_AllResolvedCompletes(t *testing.T) {
	db := openTestDB(t)
	seedWithItems(t, db, models.InspectionInProgress,
		[]models.ItemStatus{models.ItemOK, models.ItemMinorDefect})

	insp, err := Recompute(db, "insp-rollup")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if insp.Status != models.InspectionCompleted {
		t.Errorf("status = %q, want completed", insp.Status)
	}
	if insp.CompletedAt == nil {
		t.Fatal("CompletedAt not set on terminal entry")
	}
}

func TestRecompute_MajorDefectBlocks(t *testing.T) {
	db := openTestDB(t)
	seedWithItems(t, db, models.InspectionInProgress,
		[]models.ItemStatus{models.ItemOK, models.ItemOK, models.ItemMajorDefect})

	insp, err := Recompute(db, "insp-rollup")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if insp.Status != models.InspectionBlocked {
		t.Errorf("status = %q, want blocked", insp.Status)
	}
	if insp.MajorDefectCount != 1 {
		t.Errorf("MajorDefectCount = %d, want 1", insp.MajorDefectCount)
	}
}

func TestRecompute_SingleItemDraftToTerminal(t *testing.T) {
	db := openTestDB(t)
	seedWithItems(t, db, models.InspectionDraft,
		[]models.ItemStatus{models.ItemMajorDefect})

	insp, err := Recompute(db, "insp-rollup")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if insp.Status != models.InspectionBlocked {
		t.Errorf("status = %q, want blocked (draft may jump straight to terminal)", insp.Status)
	}
}

func TestRecompute_TerminalIsFrozen(t *testing.T) {
	db := openTestDB(t)
	completedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	insp := seedWithItems(t, db, models.InspectionCompleted,
		[]models.ItemStatus{models.ItemOK})
	if err := db.Model(insp).Updates(map[string]interface{}{
		"completed_at": completedAt, "completed_items": 1, "ok_count": 1,
	}).Error; err != nil {
		t.Fatalf("seed terminal state: %v", err)
	}

	// Even if an item row were altered underneath, a terminal inspection
	// never recomputes.
	if err := db.Model(&models.ChecklistItem{}).
		Where("inspection_id = ?", insp.ID).
		Update("status", models.ItemMajorDefect).Error; err != nil {
		t.Fatalf("mutate item: %v", err)
	}

	got, err := Recompute(db, insp.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got.Status != models.InspectionCompleted {
		t.Errorf("status = %q, want completed unchanged", got.Status)
	}
	if got.MajorDefectCount != 0 {
		t.Errorf("MajorDefectCount = %d, terminal counters must not change", got.MajorDefectCount)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v unchanged", got.CompletedAt, completedAt)
	}
}

func TestRecompute_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := Recompute(db, "insp-nope"); err == nil {
		t.Fatal("expected error for unknown inspection")
	}
}
