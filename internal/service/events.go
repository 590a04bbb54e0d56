package service

import (
	"fmt"

	"github.com/google/uuid"
)

// Redis pub/sub channel names. Each user has one channel per table; the
// WebSocket handlers subscribe to the caller's channels and forward whatever
// arrives. Payloads are thin "something changed" records; clients re-fetch
// rather than apply events incrementally.

func NotificationChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

func AppointmentChannel(userID uuid.UUID) string {
	return fmt.Sprintf("appointment_events:%s", userID.String())
}

func MessageChannel(userID uuid.UUID) string {
	return fmt.Sprintf("message_events:%s", userID.String())
}

type AppointmentEvent struct {
	Table      string    `json:"table"`
	Event      string    `json:"event"`
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	LecturerID uuid.UUID `json:"lecturer_id"`
}

type MessageEvent struct {
	Table      string    `json:"table"`
	Event      string    `json:"event"`
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}
