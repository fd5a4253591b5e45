package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	UserID       uuid.UUID `gorm:"primary_key" json:"user_id"`
	Phone        *string   `gorm:"size:30" json:"phone"`
	AboutSection *string   `gorm:"type:text" json:"about_section"`
	Subjects     string    `gorm:"type:text" json:"subjects_interested_in_learning"`
	Rating       float32   `gorm:"default:0" json:"rating"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
