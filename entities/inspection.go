package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusSubmitted  = "SUBMITTED"
	SessionStatusCancelled  = "CANCELLED"

	ActionPass                = "PASS"
	ActionWarnInfoMismatch    = "WARN_INFO_MISMATCH"
	ActionWarnStoragePoor     = "WARN_STORAGE_POOR"
	ActionDisposeExpired      = "DISPOSE_EXPIRED"
	ActionUnregisteredDispose = "UNREGISTERED_DISPOSE"
)

type InspectionSession struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CompartmentID    uuid.UUID  `gorm:"index" json:"compartment_id"`
	StartedBy        uuid.UUID  `json:"started_by"`
	Status           string     `json:"status"` // IN_PROGRESS, SUBMITTED, CANCELLED
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	SubmittedBy      *uuid.UUID `json:"submitted_by,omitempty"`
	TotalBundleCount int        `json:"total_bundle_count"` // snapshot taken at submission

	Compartment *FridgeCompartment  `gorm:"foreignKey:CompartmentID" json:"-"`
	Actions     []*InspectionAction `gorm:"foreignKey:SessionID" json:"actions,omitempty"`
	Timestamp
}

func (s *InspectionSession) IsInProgress() bool {
	return s.Status == SessionStatusInProgress
}

type InspectionAction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID  uuid.UUID  `gorm:"index" json:"session_id"`
	BundleID   *uuid.UUID `json:"bundle_id,omitempty"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	ActionType string     `json:"action_type"` // PASS, WARN_INFO_MISMATCH, WARN_STORAGE_POOR, DISPOSE_EXPIRED, UNREGISTERED_DISPOSE
	Note       string     `json:"note,omitempty"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	RecordedBy uuid.UUID  `json:"recorded_by"`
	RecordedAt time.Time  `json:"recorded_at"`

	Session *InspectionSession `gorm:"foreignKey:SessionID" json:"-"`
	Bundle  *FridgeBundle      `gorm:"foreignKey:BundleID" json:"-"`
	Item    *FridgeItem        `gorm:"foreignKey:ItemID" json:"-"`
	Timestamp
}

// IsWarning reports whether the action type flags the owner without removing
// anything.
func IsWarning(actionType string) bool {
	return actionType == ActionWarnInfoMismatch || actionType == ActionWarnStoragePoor
}

// IsDisposal reports whether the action type records a physical removal.
func IsDisposal(actionType string) bool {
	return actionType == ActionDisposeExpired || actionType == ActionUnregisteredDispose
}

func IsValidActionType(actionType string) bool {
	switch actionType {
	case ActionPass, ActionWarnInfoMismatch, ActionWarnStoragePoor,
		ActionDisposeExpired, ActionUnregisteredDispose:
		return true
	}
	return false
}
