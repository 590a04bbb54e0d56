package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusDeclined  AppointmentStatus = "declined"
	// StatusRescheduled and StatusCompleted are part of the stored enum but no
	// flow assigns them: a lecturer reschedule stays confirmed and a student
	// reschedule resets to pending.
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
)

// Appointment is a booked meeting request between a student and a lecturer.
// Date and time are stored as zero-padded strings ("2006-01-02", "15:04") so
// the (date, time) sort order matches the calendar order of the fixed hourly
// slot set.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"student_id"`
	LecturerID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	AppointmentDate string            `gorm:"size:10;not null" json:"appointment_date"`
	AppointmentTime string            `gorm:"size:5;not null" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Purpose         *string           `gorm:"type:text" json:"purpose,omitempty"`
	Notes           *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Student  *Profile `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Lecturer *Profile `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsParty reports whether the given profile id is the student or the lecturer
// on this appointment.
func (a *Appointment) IsParty(id uuid.UUID) bool {
	return a.StudentID == id || a.LecturerID == id
}

// Counterpart returns the other party's profile id.
func (a *Appointment) Counterpart(id uuid.UUID) uuid.UUID {
	if a.StudentID == id {
		return a.LecturerID
	}
	return a.StudentID
}
