package inspection

import (
	"context"
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/checklist"
	"github.com/zulandar/fleetyard/internal/defect"
	"github.com/zulandar/fleetyard/internal/models"
	"github.com/zulandar/fleetyard/internal/vehicle"
	"github.com/zulandar/fleetyard/internal/workorder"
	"gorm.io/gorm"
)

// Notifier abstracts the chat dispatcher so the engine can be tested with
// a recorder and run without any platform configured.
type Notifier interface {
	InspectionCompleted(ctx context.Context, insp *models.Inspection) error
	MajorDefect(ctx context.Context, insp *models.Inspection, message string) error
	WorkOrderCreated(ctx context.Context, wo *models.WorkOrder, itemCount int) error
}

// SynthesizeFunc matches workorder.Synthesize, injectable for tests.
type SynthesizeFunc func(db *gorm.DB, opts workorder.SynthesizeOpts) (*models.WorkOrder, error)

// DownstreamError reports a failure in the paperwork that follows a
// terminal inspection: vehicle projection, work-order synthesis, or
// notification delivery. The inspection's terminal state is authoritative
// and is never rolled back for a downstream failure; the operator retries
// the paperwork manually.
type DownstreamError struct {
	Stage string // "projection", "synthesis", "notify"
	Err   error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("inspection: downstream %s failed: %v", e.Stage, e.Err)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// Engine ties the checklist store, the rollup state machine, and the
// defect pipeline together behind the two operations the technician
// workflow needs: Start and UpdateItem.
type Engine struct {
	db         *gorm.DB
	notifier   Notifier // nil disables notifications
	synthesize SynthesizeFunc
}

// EngineOpts holds parameters for creating an Engine.
type EngineOpts struct {
	DB         *gorm.DB
	Notifier   Notifier       // optional
	Synthesize SynthesizeFunc // optional; defaults to workorder.Synthesize
}

// NewEngine creates an Engine.
func NewEngine(opts EngineOpts) (*Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("inspection: db is required")
	}
	synth := opts.Synthesize
	if synth == nil {
		synth = workorder.Synthesize
	}
	return &Engine{
		db:         opts.DB,
		notifier:   opts.Notifier,
		synthesize: synth,
	}, nil
}

// StartOpts holds parameters for starting an inspection.
type StartOpts struct {
	VehicleID  string
	Technician string
	Type       string // defaults to periodic
	Odometer   int
	Notes      string
}

// Start creates a draft inspection against a vehicle and clones the
// active checklist template for the vehicle's class into pending items.
func (e *Engine) Start(opts StartOpts) (*models.Inspection, error) {
	if opts.VehicleID == "" {
		return nil, fmt.Errorf("inspection: vehicle ID is required")
	}
	if opts.Technician == "" {
		return nil, fmt.Errorf("inspection: technician is required")
	}
	if opts.Type == "" {
		opts.Type = TypePeriodic
	}
	if !ValidType(opts.Type) {
		return nil, fmt.Errorf("inspection: invalid type %q", opts.Type)
	}

	veh, err := vehicle.Get(e.db, opts.VehicleID)
	if err != nil {
		return nil, err
	}

	tmpl, err := checklist.TemplateForClass(e.db, veh.Class)
	if err != nil {
		return nil, err
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	insp := models.Inspection{
		ID:          id,
		VehicleID:   veh.ID,
		VehicleName: veh.Name,
		Technician:  opts.Technician,
		Type:        opts.Type,
		TemplateID:  tmpl.ID,
		Status:      models.InspectionDraft,
		Odometer:    opts.Odometer,
		Notes:       opts.Notes,
		StartedAt:   time.Now(),
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&insp).Error; err != nil {
			return fmt.Errorf("inspection: create: %w", err)
		}

		items, err := checklist.CreateItems(tx, insp.ID, tmpl)
		if err != nil {
			return err
		}

		insp.TotalItems = len(items)
		if err := tx.Model(&models.Inspection{}).Where("id = ?", insp.ID).
			Update("total_items", len(items)).Error; err != nil {
			return fmt.Errorf("inspection: set total items of %s: %w", insp.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &insp, nil
}

// UpdateResult reports the outcome of one item update.
type UpdateResult struct {
	Item       *models.ChecklistItem
	Inspection *models.Inspection
	// WorkOrder is set when the update closed the inspection and a work
	// order was synthesized from its defects.
	WorkOrder *models.WorkOrder
	// Downstream holds a *DownstreamError when the inspection reached a
	// terminal state but the follow-up paperwork failed. The update
	// itself succeeded.
	Downstream error
}

// UpdateItem resolves one checklist item and recomputes the inspection
// rollup. When the update resolves the last pending item, the inspection
// reaches its terminal state and the defect pipeline runs: vehicle
// projection, work-order synthesis, and notifications per the decision
// table. Pipeline failures are reported in the result, never rolled back.
func (e *Engine) UpdateItem(ctx context.Context, itemID string, opts checklist.UpdateOpts) (*UpdateResult, error) {
	item, err := checklist.UpdateItem(e.db, itemID, opts)
	if err != nil {
		return nil, err
	}

	insp, err := Recompute(e.db, item.InspectionID)
	if err != nil {
		return nil, err
	}

	res := &UpdateResult{Item: item, Inspection: insp}
	if !insp.Status.Terminal() {
		return res, nil
	}

	e.finish(ctx, insp, res)
	return res, nil
}

// finish runs the terminal-state pipeline: projection, classification,
// synthesis, and notifications. The first failure stops the pipeline and
// is recorded as the result's downstream error.
func (e *Engine) finish(ctx context.Context, insp *models.Inspection, res *UpdateResult) {
	completedAt := time.Now()
	if insp.CompletedAt != nil {
		completedAt = *insp.CompletedAt
	}
	if err := vehicle.ApplyInspectionProjection(e.db, insp.VehicleID, insp.Status, completedAt); err != nil {
		res.Downstream = &DownstreamError{Stage: "projection", Err: err}
		return
	}

	items, err := checklist.GetItems(e.db, insp.ID)
	if err != nil {
		res.Downstream = &DownstreamError{Stage: "synthesis", Err: err}
		return
	}
	defects := defect.Classify(items)

	// Decision table: a blocked inspection announces the major defect
	// first, then synthesizes a work order from all defects. A completed
	// inspection with minor defects synthesizes first, then announces
	// completion. A clean inspection only announces completion.
	switch insp.Status {
	case models.InspectionBlocked:
		msg := fmt.Sprintf("%d major defect(s) found; vehicle is out of service until repaired", insp.MajorDefectCount)
		if err := e.notifyMajorDefect(ctx, insp, msg); err != nil {
			res.Downstream = &DownstreamError{Stage: "notify", Err: err}
			return
		}
		if !e.synthesizeAndAnnounce(ctx, insp, defects, res) {
			return
		}

	case models.InspectionCompleted:
		if len(defects) > 0 {
			if !e.synthesizeAndAnnounce(ctx, insp, defects, res) {
				return
			}
		}
		if err := e.notifyCompleted(ctx, insp); err != nil {
			res.Downstream = &DownstreamError{Stage: "notify", Err: err}
			return
		}

	case models.InspectionDraft, models.InspectionInProgress:
		// Unreachable: finish only runs for terminal states.
	}
}

// synthesizeAndAnnounce creates the work order and announces it. Returns
// false when the pipeline must stop.
func (e *Engine) synthesizeAndAnnounce(ctx context.Context, insp *models.Inspection, defects []defect.Defect, res *UpdateResult) bool {
	wo, err := e.synthesize(e.db, workorder.SynthesizeOpts{
		InspectionID: insp.ID,
		VehicleID:    insp.VehicleID,
		VehicleName:  insp.VehicleName,
		Defects:      defects,
	})
	if err != nil {
		res.Downstream = &DownstreamError{Stage: "synthesis", Err: err}
		return false
	}
	res.WorkOrder = wo

	if err := e.notifyWorkOrderCreated(ctx, wo, len(defects)); err != nil {
		res.Downstream = &DownstreamError{Stage: "notify", Err: err}
		return false
	}
	return true
}

func (e *Engine) notifyCompleted(ctx context.Context, insp *models.Inspection) error {
	if e.notifier == nil {
		return nil
	}
	return e.notifier.InspectionCompleted(ctx, insp)
}

func (e *Engine) notifyMajorDefect(ctx context.Context, insp *models.Inspection, msg string) error {
	if e.notifier == nil {
		return nil
	}
	return e.notifier.MajorDefect(ctx, insp, msg)
}

func (e *Engine) notifyWorkOrderCreated(ctx context.Context, wo *models.WorkOrder, itemCount int) error {
	if e.notifier == nil {
		return nil
	}
	return e.notifier.WorkOrderCreated(ctx, wo, itemCount)
}
