package domain

import "time"

var (
	MessageSuccessCreateFridgeUnit  = "fridge unit created successfully"
	MessageSuccessGetFridgeUnits    = "fridge units retrieved successfully"
	MessageSuccessLockCompartment   = "compartment locked successfully"
	MessageSuccessUnlockCompartment = "compartment unlocked successfully"

	MessageSuccessCreateRoom = "room created successfully"
	MessageSuccessGetRooms   = "rooms retrieved successfully"

	MessageFailedCreateFridgeUnit  = "failed to create fridge unit"
	MessageFailedGetFridgeUnits    = "failed to retrieve fridge units"
	MessageFailedLockCompartment   = "failed to lock compartment"
	MessageFailedUnlockCompartment = "failed to unlock compartment"
	MessageFailedCreateRoom        = "failed to create room"
	MessageFailedGetRooms          = "failed to retrieve rooms"
)

type (
	CreateCompartmentRequest struct {
		SlotIndex       int    `json:"slot_index" validate:"min=0"`
		CompartmentType string `json:"compartment_type" validate:"required,oneof=EXCLUSIVE SHARED"`
		MaxBundleCount  int    `json:"max_bundle_count" validate:"required,min=1"`
	}

	CreateFridgeUnitRequest struct {
		Floor        int                        `json:"floor" validate:"required,min=1"`
		Name         string                     `json:"name" validate:"required"`
		Compartments []CreateCompartmentRequest `json:"compartments" validate:"required,min=1,dive"`
	}

	LockCompartmentRequest struct {
		// RFC 3339; empty means an administrative lock without expiry.
		LockedUntil string `json:"locked_until" validate:"omitempty"`
	}

	CompartmentResponse struct {
		ID                string     `json:"id"`
		FridgeUnitID      string     `json:"fridge_unit_id"`
		SlotIndex         int        `json:"slot_index"`
		SlotLetter        string     `json:"slot_letter"`
		CompartmentType   string     `json:"compartment_type"`
		MaxBundleCount    int        `json:"max_bundle_count"`
		ActiveBundleCount int        `json:"active_bundle_count"`
		IsActive          bool       `json:"is_active"`
		IsLocked          bool       `json:"is_locked"`
		LockedUntil       *time.Time `json:"locked_until,omitempty"`
		UnderInspection   bool       `json:"under_inspection"`
	}

	FridgeUnitResponse struct {
		ID           string                `json:"id"`
		Floor        int                   `json:"floor"`
		Name         string                `json:"name"`
		IsActive     bool                  `json:"is_active"`
		Compartments []CompartmentResponse `json:"compartments"`
	}

	CreateRoomRequest struct {
		Floor    int    `json:"floor" validate:"required,min=1"`
		Number   string `json:"number" validate:"required"`
		Capacity int    `json:"capacity" validate:"required,min=1"`
		RoomType string `json:"room_type" validate:"required"`
	}

	RoomResponse struct {
		ID       string `json:"id"`
		Floor    int    `json:"floor"`
		Number   string `json:"number"`
		Capacity int    `json:"capacity"`
		RoomType string `json:"room_type"`
	}
)
