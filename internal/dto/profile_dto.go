package dto

import (
	"io"

	"wsuconnect/internal/entity"
)

// AvatarFile carries an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type UpdateProfileInput struct {
	PhoneNumber    *string `form:"phone_number" binding:"omitempty,max=30"`
	OfficeLocation *string `form:"office_location" binding:"omitempty,max=100"`
	Department     *string `form:"department" binding:"omitempty,max=100"`
	Status         *string `form:"status" binding:"omitempty,oneof=available busy in_meeting offline"`
	StatusMessage  *string `form:"status_message" binding:"omitempty,max=255"`
}

type ProfileResponse struct {
	Profile *entity.Profile          `json:"profile"`
	Status  entity.AvailabilityState `json:"status"`
}
