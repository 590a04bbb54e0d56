package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifAppointment NotificationType = "appointment"
	NotifMessage     NotificationType = "message"
	NotifSystem      NotificationType = "system"
)

// Notification is a fire-and-forget record written as a side effect of
// bookings, status changes and messages. RelatedID optionally points at the
// appointment or message that produced it.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"size:20;not null" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Content   string           `gorm:"type:text" json:"content"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	RelatedID *uuid.UUID       `gorm:"type:uuid" json:"related_id,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
