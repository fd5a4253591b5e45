package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting rows mirror the scheduling ledger; the ID is assigned by the ledger,
// not by the database.
type Meeting struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Location  string    `gorm:"size:255" json:"location"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:20;not null;default:'requested'" json:"status"`

	Participants []MeetingParticipant `gorm:"foreignkey:MeetingID" json:"participants"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MeetingParticipant struct {
	MeetingID uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	ProfileID uuid.UUID `gorm:"type:uuid;primary_key" json:"profile_id"`
	Role      string    `gorm:"size:10;primary_key" json:"role"`
}
