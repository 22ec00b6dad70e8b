package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	BundleStatusActive  = "ACTIVE"
	BundleStatusDeleted = "DELETED"

	ItemStatusActive  = "ACTIVE"
	ItemStatusDeleted = "DELETED"

	FreshnessOK       = "ok"
	FreshnessExpiring = "expiring"
	FreshnessExpired  = "expired"
)

// FridgeBundle label numbers are unique among the ACTIVE bundles of one
// compartment; the partial unique index backing that lives in the migration.
type FridgeBundle struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID       uuid.UUID  `gorm:"index" json:"owner_id"`
	CompartmentID uuid.UUID  `gorm:"index" json:"compartment_id"`
	LabelNumber   int        `json:"label_number"`
	Status        string     `json:"status"` // ACTIVE, DELETED
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`

	Owner       *User              `gorm:"foreignKey:OwnerID" json:"-"`
	Compartment *FridgeCompartment `gorm:"foreignKey:CompartmentID" json:"-"`
	Items       []*FridgeItem      `gorm:"foreignKey:BundleID" json:"items,omitempty"`
	Timestamp
}

func (b *FridgeBundle) IsActive() bool {
	return b.Status == BundleStatusActive
}

type FridgeItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BundleID    uuid.UUID  `gorm:"index" json:"bundle_id"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	UnitMeasure string     `json:"unit_measure"`
	ExpiryDate  time.Time  `json:"expiry_date"`
	Status      string     `json:"status"` // ACTIVE, DELETED
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	Bundle *FridgeBundle `gorm:"foreignKey:BundleID" json:"-"`
	Timestamp
}

func (i *FridgeItem) IsActive() bool {
	return i.Status == ItemStatusActive
}
