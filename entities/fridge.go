package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	CompartmentTypeExclusive = "EXCLUSIVE"
	CompartmentTypeShared    = "SHARED"
)

type FridgeUnit struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Floor    int       `gorm:"index" json:"floor"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`

	Compartments []*FridgeCompartment `gorm:"foreignKey:FridgeUnitID" json:"compartments,omitempty"`
	Timestamp
}

type FridgeCompartment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FridgeUnitID    uuid.UUID  `gorm:"uniqueIndex:idx_unit_slot" json:"fridge_unit_id"`
	SlotIndex       int        `gorm:"uniqueIndex:idx_unit_slot" json:"slot_index"`
	CompartmentType string     `json:"compartment_type"` // EXCLUSIVE, SHARED
	MaxBundleCount  int        `json:"max_bundle_count"`
	IsActive        bool       `json:"is_active"`
	IsLocked        bool       `json:"is_locked"`
	LockedUntil     *time.Time `json:"locked_until,omitempty"`

	FridgeUnit *FridgeUnit `gorm:"foreignKey:FridgeUnitID" json:"-"`
	Timestamp
}

func (c *FridgeCompartment) IsExclusive() bool {
	return c.CompartmentType == CompartmentTypeExclusive
}

// LockActive reports whether the lock is in force at now. A time-bound lock
// past its horizon counts as released even before anything clears the row.
func (c *FridgeCompartment) LockActive(now time.Time) bool {
	if c.LockedUntil != nil {
		return c.LockedUntil.After(now)
	}
	return c.IsLocked
}

// CompartmentRoomAccess rows are released, never hard-deleted, so the
// assignment history stays auditable. A row is active while ReleasedAt is nil.
type CompartmentRoomAccess struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CompartmentID uuid.UUID  `gorm:"index" json:"compartment_id"`
	RoomID        uuid.UUID  `gorm:"index" json:"room_id"`
	AssignedAt    time.Time  `json:"assigned_at"`
	ReleasedAt    *time.Time `json:"released_at,omitempty"`

	Compartment *FridgeCompartment `gorm:"foreignKey:CompartmentID" json:"-"`
	Room        *Room              `gorm:"foreignKey:RoomID" json:"-"`
	Timestamp
}

// BundleLabelSequence holds one compartment's label counter. RecycledPool is a
// JSON-encoded ascending int array of freed label numbers.
type BundleLabelSequence struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CompartmentID uuid.UUID `gorm:"uniqueIndex" json:"compartment_id"`
	NextLabel     int       `json:"next_label"`
	RecycledPool  string    `gorm:"type:text" json:"recycled_pool"`

	Compartment *FridgeCompartment `gorm:"foreignKey:CompartmentID" json:"-"`
	Timestamp
}
