package service

import (
	"context"
	"strings"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"

	"github.com/google/uuid"
)

type DirectoryService interface {
	ListLecturers(ctx context.Context, search string) ([]dto.LecturerEntry, error)
}

type directoryService struct {
	profileRepo repository.ProfileRepository
	statusRepo  repository.LecturerStatusRepository
}

func NewDirectoryService(profileRepo repository.ProfileRepository, statusRepo repository.LecturerStatusRepository) DirectoryService {
	return &directoryService{
		profileRepo: profileRepo,
		statusRepo:  statusRepo,
	}
}

// ListLecturers returns every lecturer profile ordered by name, joined with
// the full status table; a lecturer without a status row shows as offline.
// The search term filters in memory after the fetch.
func (s *directoryService) ListLecturers(ctx context.Context, search string) ([]dto.LecturerEntry, error) {
	lecturers, err := s.profileRepo.FindLecturers(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	statusByLecturer := make(map[uuid.UUID]*entity.LecturerStatus, len(statuses))
	for _, status := range statuses {
		statusByLecturer[status.LecturerID] = status
	}

	entries := make([]dto.LecturerEntry, 0, len(lecturers))
	for _, lecturer := range lecturers {
		if !matchesSearch(lecturer, search) {
			continue
		}

		entry := dto.LecturerEntry{
			Profile: lecturer,
			Status:  entity.StateOffline,
		}
		if status, ok := statusByLecturer[lecturer.ID]; ok {
			entry.Status = status.Status
			entry.StatusMessage = status.StatusMessage
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// matchesSearch is a case-insensitive substring match against name, email or
// department. A missing department never matches a non-empty term.
func matchesSearch(profile *entity.Profile, term string) bool {
	if term == "" {
		return true
	}

	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(profile.FullName), term) {
		return true
	}
	if strings.Contains(strings.ToLower(profile.Email), term) {
		return true
	}
	if profile.Department != nil && strings.Contains(strings.ToLower(*profile.Department), term) {
		return true
	}

	return false
}
