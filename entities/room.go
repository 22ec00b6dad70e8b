package entities

import (
	"github.com/google/uuid"
)

// Room is immutable once created; allocation and access rows only reference it.
type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Floor    int       `gorm:"index" json:"floor"`
	Number   string    `json:"number"`
	Capacity int       `json:"capacity"`
	RoomType string    `json:"room_type"` // "Single", "Double", "Quad"

	Timestamp
}
