package checklist

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/fleetyard/internal/models"
	"gorm.io/gorm"
)

// ErrProofNotFound means the referenced proof does not exist.
var ErrProofNotFound = errors.New("checklist: proof not found")

// AttachOpts holds parameters for attaching a proof photo to an item.
type AttachOpts struct {
	Path       string
	SHA256     string
	CapturedAt time.Time
}

// AttachProof records a photo as evidence on a checklist item. Proofs are
// immutable once captured; only attach and remove are offered, and both
// are refused once the parent inspection is terminal.
func AttachProof(db *gorm.DB, itemID string, opts AttachOpts) (*models.Proof, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("checklist: proof path is required")
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireOpenInspection(db, item.InspectionID); err != nil {
		return nil, err
	}

	id, err := generateID("prf")
	if err != nil {
		return nil, err
	}

	capturedAt := opts.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	proof := models.Proof{
		ID:         id,
		ItemID:     itemID,
		Path:       opts.Path,
		SHA256:     opts.SHA256,
		CapturedAt: capturedAt,
	}
	if err := db.Create(&proof).Error; err != nil {
		return nil, fmt.Errorf("checklist: attach proof to %s: %w", itemID, err)
	}
	return &proof, nil
}

// RemoveProof deletes a proof before final submission.
func RemoveProof(db *gorm.DB, proofID string) error {
	var proof models.Proof
	if err := db.Where("id = ?", proofID).First(&proof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrProofNotFound, proofID)
		}
		return fmt.Errorf("checklist: get proof %s: %w", proofID, err)
	}

	item, err := GetItem(db, proof.ItemID)
	if err != nil {
		return err
	}
	if err := requireOpenInspection(db, item.InspectionID); err != nil {
		return err
	}

	if err := db.Delete(&models.Proof{}, "id = ?", proofID).Error; err != nil {
		return fmt.Errorf("checklist: remove proof %s: %w", proofID, err)
	}
	return nil
}

// ListProofs returns all proofs for an item, oldest first.
func ListProofs(db *gorm.DB, itemID string) ([]models.Proof, error) {
	var proofs []models.Proof
	if err := db.Where("item_id = ?", itemID).
		Order("created_at ASC").Find(&proofs).Error; err != nil {
		return nil, fmt.Errorf("checklist: list proofs for %s: %w", itemID, err)
	}
	return proofs, nil
}

// requireOpenInspection fails with ErrInspectionClosed if the inspection
// has reached a terminal state.
func requireOpenInspection(db *gorm.DB, inspectionID string) error {
	var insp models.Inspection
	if err := db.Where("id = ?", inspectionID).First(&insp).Error; err != nil {
		return fmt.Errorf("checklist: get inspection %s: %w", inspectionID, err)
	}
	if insp.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrInspectionClosed, insp.ID, insp.Status)
	}
	return nil
}
