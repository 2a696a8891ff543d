package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// Dispatcher records every engine event in the notification outbox and
// posts it to the configured chat channel. Delivery is best-effort: a send
// failure leaves the outbox row undelivered for later replay, and is
// reported to the caller as a downstream error only.
type Dispatcher struct {
	db        *gorm.DB
	adapter   Adapter // nil disables chat delivery (outbox only)
	channelID string
}

// DispatcherOpts holds parameters for creating a Dispatcher.
type DispatcherOpts struct {
	DB        *gorm.DB
	Adapter   Adapter // optional
	ChannelID string
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOpts) (*Dispatcher, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("notify: db is required")
	}
	return &Dispatcher{
		db:        opts.DB,
		adapter:   opts.Adapter,
		channelID: opts.ChannelID,
	}, nil
}

// InspectionCompleted announces a cleanly completed inspection.
func (d *Dispatcher) InspectionCompleted(ctx context.Context, insp *models.Inspection) error {
	evt := FormatInspectionCompleted(insp)
	row := models.Notification{
		Kind:         KindInspectionCompleted,
		VehicleID:    insp.VehicleID,
		VehicleName:  insp.VehicleName,
		InspectionID: insp.ID,
		Message:      evt.Body,
	}
	return d.dispatch(ctx, row, evt)
}

// MajorDefect announces a blocking major defect finding.
func (d *Dispatcher) MajorDefect(ctx context.Context, insp *models.Inspection, message string) error {
	evt := FormatMajorDefect(insp, message)
	row := models.Notification{
		Kind:         KindMajorDefect,
		VehicleID:    insp.VehicleID,
		VehicleName:  insp.VehicleName,
		InspectionID: insp.ID,
		Message:      message,
	}
	return d.dispatch(ctx, row, evt)
}

// WorkOrderCreated announces a synthesized work order.
func (d *Dispatcher) WorkOrderCreated(ctx context.Context, wo *models.WorkOrder, itemCount int) error {
	evt := FormatWorkOrderCreated(wo, itemCount)
	row := models.Notification{
		Kind:         KindWorkOrderCreated,
		VehicleID:    wo.VehicleID,
		VehicleName:  wo.VehicleName,
		InspectionID: wo.InspectionID,
		WorkOrderID:  wo.ID,
		Message:      evt.Body,
	}
	return d.dispatch(ctx, row, evt)
}

// dispatch writes the outbox row, then attempts chat delivery. The outbox
// write is authoritative; a failed send leaves the row undelivered.
func (d *Dispatcher) dispatch(ctx context.Context, row models.Notification, evt Event) error {
	if err := d.db.Create(&row).Error; err != nil {
		return fmt.Errorf("notify: record %s: %w", row.Kind, err)
	}

	if d.adapter == nil {
		return nil
	}

	msg := OutboundMessage{
		ChannelID: d.channelID,
		Text:      evt.Title,
		Event:     &evt,
	}
	if err := d.adapter.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send %s: %w", row.Kind, err)
	}

	now := time.Now()
	if err := d.db.Model(&models.Notification{}).Where("id = ?", row.ID).
		Updates(map[string]interface{}{"delivered": true, "delivered_at": now}).Error; err != nil {
		// The message went out; only the bookkeeping failed.
		log.Printf("notify: mark %s delivered: %v", row.Kind, err)
	}
	return nil
}

// Replay re-sends undelivered outbox rows, oldest first. Returns the
// number successfully delivered.
func (d *Dispatcher) Replay(ctx context.Context) (int, error) {
	if d.adapter == nil {
		return 0, fmt.Errorf("notify: no adapter configured")
	}

	var rows []models.Notification
	if err := d.db.Where("delivered = ?", false).
		Order("created_at ASC").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("notify: list undelivered: %w", err)
	}

	sent := 0
	for _, row := range rows {
		evt := Event{
			Title:    row.Message,
			Body:     row.Message,
			Severity: "info",
			Color:    ColorInfo,
		}
		msg := OutboundMessage{ChannelID: d.channelID, Text: row.Message, Event: &evt}
		if err := d.adapter.Send(ctx, msg); err != nil {
			return sent, fmt.Errorf("notify: replay %d (%s): %w", row.ID, row.Kind, err)
		}
		now := time.Now()
		if err := d.db.Model(&models.Notification{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"delivered": true, "delivered_at": now}).Error; err != nil {
			return sent, fmt.Errorf("notify: mark %d delivered: %w", row.ID, err)
		}
		sent++
	}
	return sent, nil
}
