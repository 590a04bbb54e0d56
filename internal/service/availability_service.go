package service

import (
	"context"
	"errors"
	"fmt"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"
	"wsuconnect/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityService interface {
	List(ctx context.Context, lecturerID uuid.UUID) ([]*entity.AvailabilitySlot, error)
	Create(ctx context.Context, lecturerID uuid.UUID, input dto.AvailabilitySlotInput) (*entity.AvailabilitySlot, error)
	Update(ctx context.Context, lecturerID, slotID uuid.UUID, input dto.AvailabilitySlotInput) (*entity.AvailabilitySlot, error)
	Delete(ctx context.Context, lecturerID, slotID uuid.UUID) error
}

type availabilityService struct {
	repo repository.AvailabilityRepository
}

func NewAvailabilityService(repo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{repo: repo}
}

func (s *availabilityService) List(ctx context.Context, lecturerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	return s.repo.FindByLecturer(ctx, lecturerID)
}

func (s *availabilityService) Create(ctx context.Context, lecturerID uuid.UUID, input dto.AvailabilitySlotInput) (*entity.AvailabilitySlot, error) {
	if input.StartTime >= input.EndTime {
		return nil, fmt.Errorf("%w: start time must be before end time", apperror.ErrInvalidInput)
	}

	slot := &entity.AvailabilitySlot{
		LecturerID: lecturerID,
		DayOfWeek:  input.DayOfWeek,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		IsActive:   true,
	}
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (s *availabilityService) Update(ctx context.Context, lecturerID, slotID uuid.UUID, input dto.AvailabilitySlotInput) (*entity.AvailabilitySlot, error) {
	if input.StartTime >= input.EndTime {
		return nil, fmt.Errorf("%w: start time must be before end time", apperror.ErrInvalidInput)
	}

	slot, err := s.load(ctx, lecturerID, slotID)
	if err != nil {
		return nil, err
	}

	slot.DayOfWeek = input.DayOfWeek
	slot.StartTime = input.StartTime
	slot.EndTime = input.EndTime
	if input.IsActive != nil {
		slot.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (s *availabilityService) Delete(ctx context.Context, lecturerID, slotID uuid.UUID) error {
	if _, err := s.load(ctx, lecturerID, slotID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, slotID)
}

func (s *availabilityService) load(ctx context.Context, lecturerID, slotID uuid.UUID) (*entity.AvailabilitySlot, error) {
	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if slot.LecturerID != lecturerID {
		return nil, apperror.ErrForbidden
	}

	return slot, nil
}
