package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"
	"wsuconnect/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BookableSlots is the fixed hourly slot set offered by the booking form.
var BookableSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00",
}

type AppointmentService interface {
	Book(ctx context.Context, studentID uuid.UUID, input dto.BookAppointmentInput) (*entity.Appointment, error)
	List(ctx context.Context, userID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error)
	Confirm(ctx context.Context, lecturerID, appointmentID uuid.UUID) (*entity.Appointment, error)
	Decline(ctx context.Context, lecturerID, appointmentID uuid.UUID) (*entity.Appointment, error)
	Cancel(ctx context.Context, studentID, appointmentID uuid.UUID) (*entity.Appointment, error)
	Reschedule(ctx context.Context, userID, appointmentID uuid.UUID, input dto.RescheduleInput) (*entity.Appointment, error)
}

type appointmentService struct {
	repo             repository.AppointmentRepository
	profileRepo      repository.ProfileRepository
	notifier         NotificationService
	redisClient      *redis.Client
	bookingRateLimit time.Duration
}

func NewAppointmentService(repo repository.AppointmentRepository, profileRepo repository.ProfileRepository, notifier NotificationService, redisClient *redis.Client, bookingRateLimit time.Duration) AppointmentService {
	return &appointmentService{
		repo:             repo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		redisClient:      redisClient,
		bookingRateLimit: bookingRateLimit,
	}
}

// Book inserts the appointment and then writes the lecturer's notification.
// The two writes are independent: if the appointment insert fails nothing is
// written, and a failed notification never rolls the appointment back.
// Concurrent bookings of the same lecturer and slot both succeed.
func (s *appointmentService) Book(ctx context.Context, studentID uuid.UUID, input dto.BookAppointmentInput) (*entity.Appointment, error) {
	lecturerID, err := uuid.Parse(input.LecturerID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	if !isBookableSlot(input.AppointmentTime) {
		return nil, fmt.Errorf("%w: time must be one of the offered slots", apperror.ErrInvalidInput)
	}
	if err := checkDateFloor(input.AppointmentDate); err != nil {
		return nil, err
	}

	lecturer, err := s.profileRepo.FindByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if lecturer.Role != entity.RoleLecturer {
		return nil, fmt.Errorf("%w: appointments can only be booked with lecturers", apperror.ErrInvalidInput)
	}

	ok, err := CheckAndSetRateLimit(ctx, s.redisClient, studentID, "book_appointment", s.bookingRateLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrRateLimitExceeded
	}

	appointment := &entity.Appointment{
		StudentID:       studentID,
		LecturerID:      lecturerID,
		AppointmentDate: input.AppointmentDate,
		AppointmentTime: input.AppointmentTime,
		Status:          entity.StatusPending,
		Purpose:         input.Purpose,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.notify(ctx, lecturerID, "New Appointment Request",
		fmt.Sprintf("You have a new appointment request for %s at %s", input.AppointmentDate, input.AppointmentTime),
		appointment.ID)
	s.publish(ctx, appointment, "INSERT")

	return appointment, nil
}

func (s *appointmentService) List(ctx context.Context, userID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch profile.Role {
	case entity.RoleStudent:
		return s.repo.FindByStudent(ctx, userID, status)
	case entity.RoleLecturer:
		return s.repo.FindByLecturer(ctx, userID, status)
	default:
		return nil, apperror.ErrForbidden
	}
}

// Confirm sets the status unconditionally: prior state is not checked, only
// that the caller is the appointment's lecturer.
func (s *appointmentService) Confirm(ctx context.Context, lecturerID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	return s.decide(ctx, lecturerID, appointmentID, entity.StatusConfirmed)
}

func (s *appointmentService) Decline(ctx context.Context, lecturerID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	return s.decide(ctx, lecturerID, appointmentID, entity.StatusDeclined)
}

func (s *appointmentService) decide(ctx context.Context, lecturerID, appointmentID uuid.UUID, status entity.AppointmentStatus) (*entity.Appointment, error) {
	appointment, err := s.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.LecturerID != lecturerID {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, status); err != nil {
		return nil, err
	}
	appointment.Status = status

	s.notify(ctx, appointment.StudentID, fmt.Sprintf("Appointment %s", status),
		fmt.Sprintf("Your appointment has been %s", status),
		appointment.ID)
	s.publish(ctx, appointment, "UPDATE")

	return appointment, nil
}

// Cancel is the student's pending-appointment action. It writes the status
// unconditionally and emits no notification.
func (s *appointmentService) Cancel(ctx context.Context, studentID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.StudentID != studentID {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, entity.StatusCancelled); err != nil {
		return nil, err
	}
	appointment.Status = entity.StatusCancelled

	s.publish(ctx, appointment, "UPDATE")

	return appointment, nil
}

// Reschedule moves an appointment to a new date and slot. A lecturer
// reschedule keeps the appointment confirmed; a student reschedule always
// resets it to pending for the lecturer to re-approve. Both notify the
// counterpart.
func (s *appointmentService) Reschedule(ctx context.Context, userID, appointmentID uuid.UUID, input dto.RescheduleInput) (*entity.Appointment, error) {
	if !isBookableSlot(input.AppointmentTime) {
		return nil, fmt.Errorf("%w: time must be one of the offered slots", apperror.ErrInvalidInput)
	}
	if err := checkDateFloor(input.AppointmentDate); err != nil {
		return nil, err
	}

	actor, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	appointment, err := s.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParty(userID) {
		return nil, apperror.ErrForbidden
	}

	var status entity.AppointmentStatus
	switch actor.Role {
	case entity.RoleLecturer:
		status = entity.StatusConfirmed
	case entity.RoleStudent:
		status = entity.StatusPending
	default:
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.UpdateSchedule(ctx, appointmentID, input.AppointmentDate, input.AppointmentTime, status); err != nil {
		return nil, err
	}
	appointment.AppointmentDate = input.AppointmentDate
	appointment.AppointmentTime = input.AppointmentTime
	appointment.Status = status

	s.notify(ctx, appointment.Counterpart(userID), "Appointment Rescheduled",
		fmt.Sprintf("Your appointment has been moved to %s at %s", input.AppointmentDate, input.AppointmentTime),
		appointment.ID)
	s.publish(ctx, appointment, "UPDATE")

	return appointment, nil
}

func (s *appointmentService) load(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return appointment, nil
}

// notify writes the counterpart's notification. Best effort: a failure is
// logged and never propagated, the primary write has already committed.
func (s *appointmentService) notify(ctx context.Context, userID uuid.UUID, title, content string, relatedID uuid.UUID) {
	notification := &entity.Notification{
		UserID:    userID,
		Type:      entity.NotifAppointment,
		Title:     title,
		Content:   content,
		RelatedID: &relatedID,
	}

	if err := s.notifier.Create(ctx, notification); err != nil {
		log.Printf("failed to create appointment notification for %s: %v", userID, err)
	}
}

// publish emits a change event to both parties so their open views re-fetch.
func (s *appointmentService) publish(ctx context.Context, appointment *entity.Appointment, event string) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(AppointmentEvent{
		Table:      "appointments",
		Event:      event,
		ID:         appointment.ID,
		StudentID:  appointment.StudentID,
		LecturerID: appointment.LecturerID,
	})
	if err != nil {
		return
	}

	s.redisClient.Publish(ctx, AppointmentChannel(appointment.StudentID), payload)
	s.redisClient.Publish(ctx, AppointmentChannel(appointment.LecturerID), payload)
}

func isBookableSlot(timeSlot string) bool {
	for _, slot := range BookableSlots {
		if slot == timeSlot {
			return true
		}
	}
	return false
}

// checkDateFloor rejects dates before today. There is no upper bound.
func checkDateFloor(date string) error {
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fmt.Errorf("%w: date must use the format 2006-01-02", apperror.ErrInvalidInput)
	}

	today := time.Now().In(time.Local)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today) {
		return fmt.Errorf("%w: date cannot be in the past", apperror.ErrInvalidInput)
	}

	return nil
}
