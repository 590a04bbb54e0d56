package repository

import (
	"context"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LecturerStatusRepository interface {
	FindByLecturer(ctx context.Context, lecturerID uuid.UUID) (*entity.LecturerStatus, error)
	FindAll(ctx context.Context) ([]*entity.LecturerStatus, error)
	Create(ctx context.Context, status *entity.LecturerStatus) error
	Update(ctx context.Context, status *entity.LecturerStatus) error
}

type lecturerStatusRepository struct {
	db *gorm.DB
}

func NewLecturerStatusRepository(db *gorm.DB) LecturerStatusRepository {
	return &lecturerStatusRepository{db: db}
}

func (r *lecturerStatusRepository) FindByLecturer(ctx context.Context, lecturerID uuid.UUID) (*entity.LecturerStatus, error) {
	var status entity.LecturerStatus
	if err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", lecturerID).
		First(&status).Error; err != nil {
		return nil, err
	}

	return &status, nil
}

func (r *lecturerStatusRepository) FindAll(ctx context.Context) ([]*entity.LecturerStatus, error) {
	var statuses []*entity.LecturerStatus
	if err := r.db.WithContext(ctx).Find(&statuses).Error; err != nil {
		return nil, err
	}

	return statuses, nil
}

func (r *lecturerStatusRepository) Create(ctx context.Context, status *entity.LecturerStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *lecturerStatusRepository) Update(ctx context.Context, status *entity.LecturerStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}
