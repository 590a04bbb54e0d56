package service

import (
	"context"
	"sort"
	"time"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Reads return copies so the stored rows are not
// mutated through returned pointers, matching how a real query behaves.

type fakeProfileRepo struct {
	profiles  map[uuid.UUID]*entity.Profile
	updateErr error
}

func newFakeProfileRepo(profiles ...*entity.Profile) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: make(map[uuid.UUID]*entity.Profile)}
	for _, p := range profiles {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Email == email {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	var result []*entity.Profile
	for _, id := range ids {
		if profile, ok := r.profiles[id]; ok {
			copied := *profile
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeProfileRepo) FindLecturers(ctx context.Context) ([]*entity.Profile, error) {
	var result []*entity.Profile
	for _, profile := range r.profiles {
		if profile.Role == entity.RoleLecturer {
			copied := *profile
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, profile *entity.Profile) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo(appointments ...*entity.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
	for _, a := range appointments {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		repo.appointments[a.ID] = a
	}
	return repo
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	stored := *appointment
	r.appointments[appointment.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindByStudent(ctx context.Context, studentID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error) {
	return r.find(func(a *entity.Appointment) bool { return a.StudentID == studentID }, status), nil
}

func (r *fakeAppointmentRepo) FindByLecturer(ctx context.Context, lecturerID uuid.UUID, status entity.AppointmentStatus) ([]*entity.Appointment, error) {
	return r.find(func(a *entity.Appointment) bool { return a.LecturerID == lecturerID }, status), nil
}

func (r *fakeAppointmentRepo) find(match func(*entity.Appointment) bool, status entity.AppointmentStatus) []*entity.Appointment {
	var result []*entity.Appointment
	for _, appointment := range r.appointments {
		if !match(appointment) {
			continue
		}
		if status != "" && appointment.Status != status {
			continue
		}
		copied := *appointment
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AppointmentDate != result[j].AppointmentDate {
			return result[i].AppointmentDate < result[j].AppointmentDate
		}
		return result[i].AppointmentTime < result[j].AppointmentTime
	})
	return result
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	appointment, ok := r.appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	appointment.Status = status
	return nil
}

func (r *fakeAppointmentRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, date, timeSlot string, status entity.AppointmentStatus) error {
	appointment, ok := r.appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	appointment.AppointmentDate = date
	appointment.AppointmentTime = timeSlot
	appointment.Status = status
	return nil
}

type fakeMessageRepo struct {
	messages []*entity.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) FindThread(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.Message, error) {
	var result []*entity.Message
	for _, message := range r.messages {
		between := (message.SenderID == userID && message.ReceiverID == otherID) ||
			(message.SenderID == otherID && message.ReceiverID == userID)
		if between {
			copied := *message
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeMessageRepo) MarkThreadRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	for _, message := range r.messages {
		if message.ReceiverID == receiverID && message.SenderID == senderID && !message.IsRead {
			message.IsRead = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, message := range r.messages {
		var other uuid.UUID
		switch userID {
		case message.SenderID:
			other = message.ReceiverID
		case message.ReceiverID:
			other = message.SenderID
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	var result []*entity.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			copied := *notification
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	for _, notification := range r.notifications {
		if notification.ID == id {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []*entity.Notification {
	var result []*entity.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result
}

type fakeStatusRepo struct {
	statuses map[uuid.UUID]*entity.LecturerStatus
}

func newFakeStatusRepo(statuses ...*entity.LecturerStatus) *fakeStatusRepo {
	repo := &fakeStatusRepo{statuses: make(map[uuid.UUID]*entity.LecturerStatus)}
	for _, s := range statuses {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		repo.statuses[s.LecturerID] = s
	}
	return repo
}

func (r *fakeStatusRepo) FindByLecturer(ctx context.Context, lecturerID uuid.UUID) (*entity.LecturerStatus, error) {
	status, ok := r.statuses[lecturerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *status
	return &copied, nil
}

func (r *fakeStatusRepo) FindAll(ctx context.Context) ([]*entity.LecturerStatus, error) {
	var result []*entity.LecturerStatus
	for _, status := range r.statuses {
		copied := *status
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeStatusRepo) Create(ctx context.Context, status *entity.LecturerStatus) error {
	if status.ID == uuid.Nil {
		status.ID = uuid.New()
	}
	stored := *status
	r.statuses[status.LecturerID] = &stored
	return nil
}

func (r *fakeStatusRepo) Update(ctx context.Context, status *entity.LecturerStatus) error {
	stored := *status
	r.statuses[status.LecturerID] = &stored
	return nil
}

type fakeAvailabilityRepo struct {
	slots map[uuid.UUID]*entity.AvailabilitySlot
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{slots: make(map[uuid.UUID]*entity.AvailabilitySlot)}
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	stored := *slot
	r.slots[slot.ID] = &stored
	return nil
}

func (r *fakeAvailabilityRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeAvailabilityRepo) FindByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	var result []*entity.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.LecturerID == lecturerID {
			copied := *slot
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (r *fakeAvailabilityRepo) Update(ctx context.Context, slot *entity.AvailabilitySlot) error {
	stored := *slot
	r.slots[slot.ID] = &stored
	return nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.slots, id)
	return nil
}

func studentProfile(name string) *entity.Profile {
	return &entity.Profile{
		ID:       uuid.New(),
		Email:    name + "@student.example.edu",
		FullName: name,
		Role:     entity.RoleStudent,
	}
}

func lecturerProfile(name string) *entity.Profile {
	return &entity.Profile{
		ID:       uuid.New(),
		Email:    name + "@example.edu",
		FullName: name,
		Role:     entity.RoleLecturer,
	}
}
