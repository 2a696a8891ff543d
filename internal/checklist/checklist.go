// Package checklist provides checklist item storage operations: cloning
// template items into an inspection, reading them back in walkthrough
// order, and the single mutation path for item resolution.
package checklist

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// Sentinel errors callers branch on.
var (
	// ErrItemNotFound means the referenced checklist item does not exist.
	ErrItemNotFound = errors.New("checklist: item not found")

	// ErrMissingEvidence means a defect transition was attempted without
	// notes or an attached proof. The item is left unchanged.
	ErrMissingEvidence = errors.New("checklist: defect requires notes or a proof photo")

	// ErrInspectionClosed means the parent inspection is terminal and its
	// items can no longer be mutated.
	ErrInspectionClosed = errors.New("checklist: inspection is closed")
)

// UpdateOpts holds the fields a technician may change on an item.
type UpdateOpts struct {
	Status models.ItemStatus
	Notes  string
}

// generateID creates a unique ID with the given prefix (5-char hex).
func generateID(prefix string) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("checklist: generate ID: %w", err)
	}
	return prefix + "-" + hex.EncodeToString(b)[:5], nil
}

// CreateItems clones every section and item of a checklist template into
// new pending items for the inspection. Template ordering becomes the
// item ordinal; the linear walkthrough depends on it.
func CreateItems(db *gorm.DB, inspectionID string, tmpl *models.ChecklistTemplate) ([]models.ChecklistItem, error) {
	if inspectionID == "" {
		return nil, fmt.Errorf("checklist: inspection ID is required")
	}
	if tmpl == nil {
		return nil, fmt.Errorf("checklist: template is required")
	}

	var items []models.ChecklistItem
	ordinal := 0
	for _, sec := range tmpl.Sections {
		for _, ti := range sec.Items {
			id, err := generateID("item")
			if err != nil {
				return nil, err
			}
			items = append(items, models.ChecklistItem{
				ID:            id,
				InspectionID:  inspectionID,
				SectionID:     sec.SectionID,
				SectionName:   sec.Name,
				Ordinal:       ordinal,
				Title:         ti.Title,
				Description:   ti.Description,
				ComponentCode: ti.ComponentCode,
				Status:        models.ItemPending,
				IsRequired:    ti.IsRequired,
			})
			ordinal++
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("checklist: template %s has no items", tmpl.ID)
	}

	if err := db.Create(&items).Error; err != nil {
		return nil, fmt.Errorf("checklist: create items for %s: %w", inspectionID, err)
	}
	return items, nil
}

// GetItems returns the inspection's items in walkthrough (ordinal) order.
func GetItems(db *gorm.DB, inspectionID string) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	if err := db.Where("inspection_id = ?", inspectionID).
		Order("ordinal ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("checklist: list items for %s: %w", inspectionID, err)
	}
	return items, nil
}

// GetItem retrieves one item by ID with its proofs preloaded.
func GetItem(db *gorm.DB, itemID string) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := db.Preload("Proofs").Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("checklist: get item %s: %w", itemID, err)
	}
	return &item, nil
}

// UpdateItem is the only legal mutation path for a checklist item. It
// validates the evidence rule for defect transitions and refuses updates
// once the parent inspection is terminal. It does not touch the parent
// inspection's counters; rollup recomputation is the inspection engine's
// step and runs after every successful item update.
func UpdateItem(db *gorm.DB, itemID string, opts UpdateOpts) (*models.ChecklistItem, error) {
	if !opts.Status.IsValid() {
		return nil, fmt.Errorf("checklist: invalid item status %q", opts.Status)
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}

	var insp models.Inspection
	if err := db.Where("id = ?", item.InspectionID).First(&insp).Error; err != nil {
		return nil, fmt.Errorf("checklist: get inspection %s: %w", item.InspectionID, err)
	}
	if insp.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrInspectionClosed, insp.ID, insp.Status)
	}

	if opts.Status.Defect() && strings.TrimSpace(opts.Notes) == "" && len(item.Proofs) == 0 {
		return nil, fmt.Errorf("%w: item %s", ErrMissingEvidence, itemID)
	}

	item.Status = opts.Status
	item.Notes = opts.Notes
	if err := db.Model(&models.ChecklistItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{"status": opts.Status, "notes": opts.Notes}).Error; err != nil {
		return nil, fmt.Errorf("checklist: update item %s: %w", itemID, err)
	}
	return item, nil
}
