package models

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityWindow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProfileID uuid.UUID `gorm:"not null;index:idx_windows_profile" json:"profile_id"`
	Role      string    `gorm:"size:10;not null;index:idx_windows_profile" json:"role"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	CreatedAt time.Time `json:"-"`
}
