package dto

import "wsuconnect/internal/entity"

type DirectoryFilter struct {
	Search string `form:"search"`
}

// LecturerEntry is one directory row: a lecturer profile joined with their
// availability status (offline when no status row exists).
type LecturerEntry struct {
	Profile       *entity.Profile          `json:"profile"`
	Status        entity.AvailabilityState `json:"status"`
	StatusMessage *string                  `json:"status_message,omitempty"`
}
