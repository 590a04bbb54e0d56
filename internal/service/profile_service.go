package service

import (
	"context"
	"errors"
	"fmt"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"
	"wsuconnect/pkg/apperror"
	"wsuconnect/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo         repository.ProfileRepository
	statusRepo   repository.LecturerStatusRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(repo repository.ProfileRepository, statusRepo repository.LecturerStatusRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		repo:         repo,
		statusRepo:   statusRepo,
		imageStorage: imageStorage,
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	profile.PasswordHash = ""

	return &dto.ProfileResponse{
		Profile: profile,
		Status:  s.currentStatus(ctx, userID),
	}, nil
}

// Update writes the contact fields first and only then upserts the status
// row: a failed profile update aborts before any status write. The two
// writes are sequential and not transactional.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *dto.AvatarFile) (*dto.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if profile.Role != entity.RoleLecturer {
		return nil, apperror.ErrForbidden
	}

	if input.PhoneNumber != nil {
		profile.PhoneNumber = normalizeOptional(input.PhoneNumber)
	}
	if input.OfficeLocation != nil {
		profile.OfficeLocation = normalizeOptional(input.OfficeLocation)
	}
	if input.Department != nil {
		profile.Department = normalizeOptional(input.Department)
	}

	if avatar != nil && avatar.Reader != nil {
		if s.imageStorage == nil {
			return nil, fmt.Errorf("%w: avatar storage is not configured", apperror.ErrInvalidInput)
		}
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		profile.AvatarURL = &url
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if err := s.upsertStatus(ctx, userID, entity.AvailabilityState(*input.Status), input.StatusMessage); err != nil {
			return nil, err
		}
	}

	profile.PasswordHash = ""

	return &dto.ProfileResponse{
		Profile: profile,
		Status:  s.currentStatus(ctx, userID),
	}, nil
}

// upsertStatus is a lookup-then-write: update the lecturer's row when one
// exists, insert otherwise. Uniqueness rests on this path, not on a
// constraint.
func (s *profileService) upsertStatus(ctx context.Context, lecturerID uuid.UUID, state entity.AvailabilityState, message *string) error {
	existing, err := s.statusRepo.FindByLecturer(ctx, lecturerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.statusRepo.Create(ctx, &entity.LecturerStatus{
			LecturerID:    lecturerID,
			Status:        state,
			StatusMessage: normalizeOptional(message),
		})
	}

	existing.Status = state
	if message != nil {
		existing.StatusMessage = normalizeOptional(message)
	}
	return s.statusRepo.Update(ctx, existing)
}

// currentStatus reads the status row, defaulting to offline when absent. The
// default is not persisted.
func (s *profileService) currentStatus(ctx context.Context, lecturerID uuid.UUID) entity.AvailabilityState {
	status, err := s.statusRepo.FindByLecturer(ctx, lecturerID)
	if err != nil {
		return entity.StateOffline
	}
	return status.Status
}

func normalizeOptional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
