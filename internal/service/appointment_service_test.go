package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newAppointmentFixture(profiles ...*entity.Profile) (AppointmentService, *fakeAppointmentRepo, *fakeNotificationRepo) {
	appointmentRepo := newFakeAppointmentRepo()
	notificationRepo := &fakeNotificationRepo{}
	profileRepo := newFakeProfileRepo(profiles...)
	notifier := NewNotificationService(notificationRepo, nil)
	svc := NewAppointmentService(appointmentRepo, profileRepo, notifier, nil, 0)
	return svc, appointmentRepo, notificationRepo
}

func TestBookCreatesPendingAndNotifiesLecturer(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, appointment.Status)
	assert.Equal(t, student.ID, appointment.StudentID)
	assert.Equal(t, lecturer.ID, appointment.LecturerID)

	stored, err := appointmentRepo.FindByID(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)

	notifications := notificationRepo.forUser(lecturer.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotifAppointment, notifications[0].Type)
	assert.Equal(t, "New Appointment Request", notifications[0].Title)
	require.NotNil(t, notifications[0].RelatedID)
	assert.Equal(t, appointment.ID, *notifications[0].RelatedID)
}

func TestBookRejectsOffSlotTime(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, _, _ := newAppointmentFixture(student, lecturer)

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "09:30",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestBookRejectsPastDate(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, _, _ := newAppointmentFixture(student, lecturer)

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: "2020-01-01",
		AppointmentTime: "09:00",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestBookAcceptsToday(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, _, _ := newAppointmentFixture(student, lecturer)

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: time.Now().Format("2006-01-02"),
		AppointmentTime: "16:00",
	})
	assert.NoError(t, err)
}

func TestBookRejectsNonLecturerTarget(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	other := studentProfile("Lerato Mokoena")
	svc, _, _ := newAppointmentFixture(student, other)

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      other.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestBookUnknownLecturer(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	svc, _, _ := newAppointmentFixture(student)

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      "b49af9d2-5df7-4c29-8a4e-0f1a2b3c4d5e",
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBookSurvivesNotificationFailure(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)
	notificationRepo.createErr = errors.New("notifications table unavailable")

	appointment, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "11:00",
	})
	require.NoError(t, err)

	stored, err := appointmentRepo.FindByID(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Empty(t, notificationRepo.notifications)
}

func TestBookInsertFailureWritesNoNotification(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)
	appointmentRepo.createErr = errors.New("appointments table unavailable")

	_, err := svc.Book(context.Background(), student.ID, dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
	})
	require.Error(t, err)
	assert.Empty(t, appointmentRepo.appointments)
	assert.Empty(t, notificationRepo.notifications, "a failed insert must leave nothing behind")
}

func TestBookAllowsDoubleBookingOfSlot(t *testing.T) {
	studentA := studentProfile("Thabo Ndlovu")
	studentB := studentProfile("Lerato Mokoena")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, _ := newAppointmentFixture(studentA, studentB, lecturer)

	input := dto.BookAppointmentInput{
		LecturerID:      lecturer.ID.String(),
		AppointmentDate: futureDate(),
		AppointmentTime: "13:00",
	}

	_, err := svc.Book(context.Background(), studentA.ID, input)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), studentB.ID, input)
	require.NoError(t, err)

	appointments, err := appointmentRepo.FindByLecturer(context.Background(), lecturer.ID, "")
	require.NoError(t, err)
	assert.Len(t, appointments, 2)
}

func TestConfirmRequiresOwningLecturer(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	intruder := lecturerProfile("Dr Smith")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer, intruder)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	_, err := svc.Confirm(context.Background(), intruder.ID, appointment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	confirmed, err := svc.Confirm(context.Background(), lecturer.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, confirmed.Status)

	notifications := notificationRepo.forUser(student.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Appointment confirmed", notifications[0].Title)
}

func TestDeclineNotifiesStudent(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	declined, err := svc.Decline(context.Background(), lecturer.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeclined, declined.Status)

	notifications := notificationRepo.forUser(student.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Your appointment has been declined", notifications[0].Content)
}

func TestDeclineAlreadyDeclinedSucceeds(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusDeclined,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	// The write is unguarded: prior state is never checked.
	declined, err := svc.Decline(context.Background(), lecturer.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeclined, declined.Status)
	assert.Len(t, notificationRepo.forUser(student.ID), 1)
}

func TestCancelEmitsNoNotification(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	cancelled, err := svc.Cancel(context.Background(), student.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Empty(t, notificationRepo.notifications)
}

func TestCancelConfirmedAppointmentSucceeds(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, _ := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusConfirmed,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	cancelled, err := svc.Cancel(context.Background(), student.ID, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
}

func TestCancelRequiresOwningStudent(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	other := studentProfile("Lerato Mokoena")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, _ := newAppointmentFixture(student, other, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	_, err := svc.Cancel(context.Background(), other.ID, appointment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestRescheduleByLecturerConfirms(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	newDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	moved, err := svc.Reschedule(context.Background(), lecturer.ID, appointment.ID, dto.RescheduleInput{
		AppointmentDate: newDate,
		AppointmentTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, moved.Status)
	assert.Equal(t, newDate, moved.AppointmentDate)
	assert.Equal(t, "14:00", moved.AppointmentTime)

	notifications := notificationRepo.forUser(student.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Appointment Rescheduled", notifications[0].Title)
}

func TestRescheduleByStudentResetsToPending(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	svc, appointmentRepo, notificationRepo := newAppointmentFixture(student, lecturer)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusConfirmed,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	moved, err := svc.Reschedule(context.Background(), student.ID, appointment.ID, dto.RescheduleInput{
		AppointmentDate: futureDate(),
		AppointmentTime: "15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, moved.Status)

	notifications := notificationRepo.forUser(lecturer.ID)
	require.Len(t, notifications, 1)
}

func TestRescheduleRejectsNonParty(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	outsider := studentProfile("Lerato Mokoena")
	svc, appointmentRepo, _ := newAppointmentFixture(student, lecturer, outsider)

	appointment := &entity.Appointment{
		StudentID:       student.ID,
		LecturerID:      lecturer.ID,
		AppointmentDate: futureDate(),
		AppointmentTime: "09:00",
		Status:          entity.StatusPending,
	}
	require.NoError(t, appointmentRepo.Create(context.Background(), appointment))

	_, err := svc.Reschedule(context.Background(), outsider.ID, appointment.ID, dto.RescheduleInput{
		AppointmentDate: futureDate(),
		AppointmentTime: "10:00",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestListScopesByRole(t *testing.T) {
	student := studentProfile("Thabo Ndlovu")
	lecturer := lecturerProfile("Dr Naidoo")
	hod := &entity.Profile{Email: "hod@example.edu", FullName: "Prof Dlamini", Role: entity.RoleHOD}
	svc, appointmentRepo, _ := newAppointmentFixture(student, lecturer, hod)

	date := futureDate()
	require.NoError(t, appointmentRepo.Create(context.Background(), &entity.Appointment{
		StudentID: student.ID, LecturerID: lecturer.ID,
		AppointmentDate: date, AppointmentTime: "09:00", Status: entity.StatusPending,
	}))
	require.NoError(t, appointmentRepo.Create(context.Background(), &entity.Appointment{
		StudentID: student.ID, LecturerID: lecturer.ID,
		AppointmentDate: date, AppointmentTime: "10:00", Status: entity.StatusConfirmed,
	}))

	fromStudent, err := svc.List(context.Background(), student.ID, "")
	require.NoError(t, err)
	assert.Len(t, fromStudent, 2)

	pendingOnly, err := svc.List(context.Background(), lecturer.ID, entity.StatusPending)
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	assert.Equal(t, entity.StatusPending, pendingOnly[0].Status)

	_, err = svc.List(context.Background(), hod.ID, "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
