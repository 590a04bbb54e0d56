package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleLecturer  Role = "lecturer"
	RoleHOD       Role = "hod"
	RoleSecretary Role = "secretary"
)

// Profile is the person record behind every account. Contact fields are only
// filled in for lecturers; role is fixed at sign-up.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	FullName       string    `gorm:"size:100;not null" json:"full_name"`
	Role           Role      `gorm:"size:20;not null;index" json:"role"`
	PhoneNumber    *string   `gorm:"size:30" json:"phone_number,omitempty"`
	OfficeLocation *string   `gorm:"size:100" json:"office_location,omitempty"`
	Department     *string   `gorm:"size:100" json:"department,omitempty"`
	AvatarURL      *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
