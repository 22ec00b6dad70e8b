package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationKindInspectionResult = "INSPECTION_RESULT"
	NotificationKindDispatchFailed   = "DISPATCH_FAILED"
)

// Notification DedupeKey is unique so a retried trigger can never create a
// second row for the same logical event.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `gorm:"index" json:"user_id"`
	KindCode  string     `json:"kind_code"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	DedupeKey string     `gorm:"uniqueIndex" json:"dedupe_key"`
	Metadata  string     `gorm:"type:text" json:"metadata,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsRead    bool       `json:"is_read"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// NotificationPreference absent means the kind is enabled for the user.
type NotificationPreference struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"uniqueIndex:idx_user_kind" json:"user_id"`
	KindCode string    `gorm:"uniqueIndex:idx_user_kind" json:"kind_code"`
	Enabled  bool      `json:"enabled"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
