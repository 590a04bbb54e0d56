package repository

import (
	"context"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error)
	FindByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*entity.AvailabilitySlot, error)
	Update(ctx context.Context, slot *entity.AvailabilitySlot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	var slot entity.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&slot).Error; err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *availabilityRepository) FindByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	var slots []*entity.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", lecturerID).
		Order("day_of_week asc").
		Order("start_time asc").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *availabilityRepository) Update(ctx context.Context, slot *entity.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.AvailabilitySlot{}, "id = ?", id).Error
}
