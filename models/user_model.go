package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Username string    `gorm:"size:50;not null;unique" json:"username"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	TimeZone *string `gorm:"size:100" json:"time_zone"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
