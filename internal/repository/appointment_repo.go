package repository

import (
	"context"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error)
	FindByLecturer(ctx context.Context, lecturerID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, date, timeSlot string, status entity.AppointmentStatus) error
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Lecturer").
		Where("id = ?", id).
		First(&appointment).Error; err != nil {
		return nil, err
	}

	return &appointment, nil
}

// FindByStudent returns the student's appointments with the lecturer side
// preloaded, ordered by (date, time) ascending. The time column holds
// zero-padded slot strings, so the string order is the calendar order.
func (r *appointmentRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error) {
	return r.find(ctx, "student_id = ?", studentID, status, "Lecturer")
}

func (r *appointmentRepository) FindByLecturer(ctx context.Context, lecturerID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error) {
	return r.find(ctx, "lecturer_id = ?", lecturerID, status, "Student")
}

func (r *appointmentRepository) find(ctx context.Context, cond string, id uuid.UUID, status entity.AppointmentStatus, preload string) ([]*entity.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload(preload).
		Where(cond, id).
		Order("appointment_date asc").
		Order("appointment_time asc")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []*entity.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date, timeSlot string, status entity.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"appointment_date": date,
			"appointment_time": timeSlot,
			"status":           status,
		}).Error
}
