package models

// InspectionStatus is the lifecycle state of an inspection (persisted as a
// string). Transitions are owned by the inspection package.
type InspectionStatus string

const (
	// InspectionDraft is the state immediately after creation, before the
	// first item transition.
	InspectionDraft InspectionStatus = "draft"

	// InspectionInProgress holds while at least one item has been resolved
	// and at least one is still pending.
	InspectionInProgress InspectionStatus = "in_progress"

	// InspectionCompleted is terminal: every item resolved, no major defect.
	InspectionCompleted InspectionStatus = "completed"

	// InspectionBlocked is terminal: every item resolved and at least one
	// major defect found. The vehicle must not return to service.
	InspectionBlocked InspectionStatus = "blocked"
)

// IsValid reports whether the status is a recognized value.
func (s InspectionStatus) IsValid() bool {
	switch s {
	case InspectionDraft, InspectionInProgress, InspectionCompleted, InspectionBlocked:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further item updates.
func (s InspectionStatus) Terminal() bool {
	return s == InspectionCompleted || s == InspectionBlocked
}

// ItemStatus is the resolution state of a single checklist item.
type ItemStatus string

const (
	ItemPending     ItemStatus = "pending"
	ItemOK          ItemStatus = "ok"
	ItemMinorDefect ItemStatus = "minor_defect"
	ItemMajorDefect ItemStatus = "major_defect"
)

// IsValid reports whether the status is a recognized value.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemPending, ItemOK, ItemMinorDefect, ItemMajorDefect:
		return true
	}
	return false
}

// Defect reports whether the status documents a defect.
func (s ItemStatus) Defect() bool {
	return s == ItemMinorDefect || s == ItemMajorDefect
}

// Resolved reports whether the item counts toward completed items.
func (s ItemStatus) Resolved() bool {
	return s != ItemPending
}

// DefectType is the severity class carried on work order items.
type DefectType string

const (
	DefectMinor DefectType = "MINOR"
	DefectMajor DefectType = "MAJOR"
)

// WorkOrderStatus is the dispatch lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderAssigned   WorkOrderStatus = "assigned"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

// IsValid reports whether the status is a recognized value.
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderPending, WorkOrderAssigned, WorkOrderInProgress,
		WorkOrderCompleted, WorkOrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether the work order can no longer change status.
func (s WorkOrderStatus) Terminal() bool {
	return s == WorkOrderCompleted || s == WorkOrderCancelled
}

// VehicleStatus is the service state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleInactive    VehicleStatus = "inactive"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// IsValid reports whether the status is a recognized value.
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleActive, VehicleInactive, VehicleMaintenance:
		return true
	}
	return false
}
