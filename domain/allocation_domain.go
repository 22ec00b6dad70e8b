package domain

var (
	MessageSuccessPreviewAllocation = "allocation preview computed successfully"
	MessageSuccessApplyAllocation   = "allocation applied successfully"

	MessageFailedPreviewAllocation = "failed to compute allocation preview"
	MessageFailedApplyAllocation   = "failed to apply allocation"
)

// Preview warnings, reported per compartment.
const (
	WarningInactiveCompartment  = "INACTIVE_COMPARTMENT"
	WarningCompartmentLocked    = "COMPARTMENT_LOCKED"
	WarningInspectionInProgress = "INSPECTION_IN_PROGRESS"
)

type (
	CompartmentAllocationPreview struct {
		CompartmentID    string   `json:"compartment_id"`
		SlotIndex        int      `json:"slot_index"`
		SlotLetter       string   `json:"slot_letter"`
		CompartmentType  string   `json:"compartment_type"`
		IsActive         bool     `json:"is_active"`
		CurrentRooms     []string `json:"current_rooms"`
		RecommendedRooms []string `json:"recommended_rooms"`
		Warnings         []string `json:"warnings,omitempty"`
	}

	AllocationPreviewResponse struct {
		Floor        int                            `json:"floor"`
		TotalRooms   int                            `json:"total_rooms"`
		Compartments []CompartmentAllocationPreview `json:"compartments"`
	}

	CompartmentAllocation struct {
		CompartmentID string   `json:"compartment_id" validate:"required,uuid"`
		RoomIDs       []string `json:"room_ids" validate:"dive,uuid"`
	}

	ApplyAllocationRequest struct {
		Allocations []CompartmentAllocation `json:"allocations" validate:"required,min=1,dive"`
	}

	ApplyAllocationResponse struct {
		CompartmentsTouched int `json:"compartments_touched"`
		RowsReleased        int `json:"rows_released"`
		RowsCreated         int `json:"rows_created"`
	}
)
