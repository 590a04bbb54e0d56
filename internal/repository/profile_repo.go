package repository

import (
	"context"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error)
	FindLecturers(ctx context.Context) ([]*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) FindLecturers(ctx context.Context) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	if err := r.db.WithContext(ctx).
		Where("role = ?", entity.RoleLecturer).
		Order("full_name asc").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
