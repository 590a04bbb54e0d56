package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityState string

const (
	StateAvailable AvailabilityState = "available"
	StateBusy      AvailabilityState = "busy"
	StateInMeeting AvailabilityState = "in_meeting"
	StateOffline   AvailabilityState = "offline"
)

// LecturerStatus is a lecturer's self-reported availability. At most one row
// per lecturer, kept that way by the lookup-then-write in the service layer
// rather than a uniqueness constraint.
type LecturerStatus struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	Status        AvailabilityState `gorm:"size:20;not null" json:"status"`
	StatusMessage *string           `gorm:"type:text" json:"status_message,omitempty"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LecturerStatus) TableName() string { return "lecturer_status" }

func (s *LecturerStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AvailabilitySlot is a recurring weekly office-hours window. Bookings do not
// consult these; they exist so lecturers can publish their usual hours.
type AvailabilitySlot struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID uuid.UUID `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	DayOfWeek  int       `gorm:"not null" json:"day_of_week"`
	StartTime  string    `gorm:"size:5;not null" json:"start_time"`
	EndTime    string    `gorm:"size:5;not null" json:"end_time"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AvailabilitySlot) TableName() string { return "availability_slots" }

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
