package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
)

//go:generate mockgen -source=booking_service.go -destination=mocks/booking_mocks.go -package=mocks

// BookingStore is the persistence surface the booking coordinator needs.
type BookingStore interface {
	CreateOverlapChecked(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, studentID, professorID *int64) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
}

// NotificationSink receives post-commit booking notifications. Delivery is
// best effort; a failing sink never fails the booking operation.
type NotificationSink interface {
	Notify(ctx context.Context, userID int64, typ, message, link string) error
}

// ChatProvisioner creates (or finds) the chat room for a student/professor
// pair once their booking is accepted.
type ChatProvisioner interface {
	EnsureRoom(ctx context.Context, studentID, professorID int64) (*model.ChatRoom, error)
}

// UserGetter resolves users for role checks and notification text.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// BookingService coordinates the booking lifecycle: overlap-checked
// creation, status transitions, and the notification/chat side effects
// that follow them.
type BookingService struct {
	bookings      BookingStore
	users         UserGetter
	notifications NotificationSink
	chat          ChatProvisioner
	autoConfirm   bool
	logger        *zap.Logger
}

// NewBookingService wires the coordinator. With autoConfirm set, new
// bookings are accepted immediately instead of waiting for the professor.
func NewBookingService(
	bookings BookingStore,
	users UserGetter,
	notifications NotificationSink,
	chat ChatProvisioner,
	autoConfirm bool,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		users:         users,
		notifications: notifications,
		chat:          chat,
		autoConfirm:   autoConfirm,
		logger:        logger,
	}
}

// Create books a slot for a student. The interval is validated here; the
// store serializes concurrent creations and rejects overlaps, surfacing a
// conflict when the slot was taken in the meantime. The professor is
// notified after the booking is committed.
func (s *BookingService) Create(ctx context.Context, studentID, professorID int64, start, end, now time.Time) (*model.Booking, error) {
	if !start.Before(end) {
		return nil, apperr.Validation("start_time must be before end_time")
	}
	if !start.After(now) {
		return nil, apperr.Validation("cannot book a slot in the past")
	}
	if studentID == professorID {
		return nil, apperr.Validation("cannot book yourself")
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil || !student.IsStudent() {
		return nil, apperr.Forbidden("only students can book lessons")
	}

	professor, err := s.users.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil || !professor.IsProfessor() {
		return nil, apperr.NotFound("professor not found")
	}

	status := model.BookingStatusPending
	if s.autoConfirm {
		status = model.BookingStatusAccepted
	}

	booking := &model.Booking{
		StudentID:   studentID,
		ProfessorID: professorID,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}

	if err := s.bookings.CreateOverlapChecked(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("professor_id", professorID),
		zap.Time("start", start),
		zap.String("status", string(status)),
	)

	when := start.Format("Mon Jan 2 15:04")
	s.notify(ctx, professorID, model.NotificationBookingCreated,
		fmt.Sprintf("%s booked a lesson on %s", student.Name, when),
		"/bookings",
	)
	if status == model.BookingStatusAccepted {
		s.notify(ctx, studentID, model.NotificationBookingConfirmed,
			fmt.Sprintf("Your lesson with %s on %s is confirmed", professor.Name, when),
			"/bookings",
		)
		if _, err := s.chat.EnsureRoom(ctx, studentID, professorID); err != nil {
			s.logger.Error("Failed to provision chat room",
				zap.Int64("booking_id", booking.ID),
				zap.Error(err),
			)
		}
	}

	return booking, nil
}

// List returns bookings matching the given filters; any authenticated
// caller may query any combination.
func (s *BookingService) List(ctx context.Context, studentID, professorID *int64) ([]*model.Booking, error) {
	bookings, err := s.bookings.List(ctx, studentID, professorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListForUser returns the caller's bookings: a student sees the ones they
// booked, a professor the ones booked with them.
func (s *BookingService) ListForUser(ctx context.Context, userID int64, role model.Role) ([]*model.Booking, error) {
	if role == model.RoleProfessor {
		return s.List(ctx, nil, &userID)
	}
	return s.List(ctx, &userID, nil)
}

// Get returns one booking, visible only to its two participants.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if !booking.IsParticipant(callerID) {
		return nil, apperr.Forbidden("not your booking")
	}
	return booking, nil
}

// SetStatus transitions a booking. Only participants may do it and
// cancelled is terminal. Notifications go out after the update commits;
// accepting a booking also provisions the pair's chat room.
func (s *BookingService) SetStatus(ctx context.Context, callerID, bookingID int64, status string) (*model.Booking, error) {
	if !model.ValidBookingStatus(status) {
		return nil, apperr.Validation("unknown status %q", status)
	}
	newStatus := model.BookingStatus(status)

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if !booking.IsParticipant(callerID) {
		return nil, apperr.Forbidden("not your booking")
	}
	if booking.IsCancelled() {
		return nil, apperr.Conflict("booking is cancelled")
	}
	if booking.Status == newStatus {
		return booking, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, newStatus)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("booking not found")
	}

	s.logger.Info("Booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("caller_id", callerID),
		zap.String("status", status),
	)

	switch newStatus {
	case model.BookingStatusAccepted:
		s.notify(ctx, updated.StudentID, model.NotificationBookingAccepted,
			fmt.Sprintf("Your lesson on %s was accepted", updated.StartTime.Format("Mon Jan 2 15:04")),
			"/bookings",
		)
		if _, err := s.chat.EnsureRoom(ctx, updated.StudentID, updated.ProfessorID); err != nil {
			s.logger.Error("Failed to provision chat room",
				zap.Int64("booking_id", bookingID),
				zap.Error(err),
			)
		}
	case model.BookingStatusCancelled:
		message := fmt.Sprintf("The lesson on %s was cancelled", updated.StartTime.Format("Mon Jan 2 15:04"))
		s.notify(ctx, updated.StudentID, model.NotificationBookingCancelled, message, "/bookings")
		s.notify(ctx, updated.ProfessorID, model.NotificationBookingCancelled, message, "/bookings")
	}

	return updated, nil
}

// notify delivers best effort; failures are logged, never propagated.
func (s *BookingService) notify(ctx context.Context, userID int64, typ, message, link string) {
	if err := s.notifications.Notify(ctx, userID, typ, message, link); err != nil {
		s.logger.Error("Failed to send notification",
			zap.Int64("user_id", userID),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}
