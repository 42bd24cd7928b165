package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
	"github.com/linguameet/linguameet/internal/service/mocks"
)

type bookingFixture struct {
	bookings      *mocks.MockBookingStore
	users         *mocks.MockUserGetter
	notifications *mocks.MockNotificationSink
	chat          *mocks.MockChatProvisioner
	svc           *service.BookingService
}

func newBookingFixture(t *testing.T, autoConfirm bool) *bookingFixture {
	ctrl := gomock.NewController(t)
	f := &bookingFixture{
		bookings:      mocks.NewMockBookingStore(ctrl),
		users:         mocks.NewMockUserGetter(ctrl),
		notifications: mocks.NewMockNotificationSink(ctrl),
		chat:          mocks.NewMockChatProvisioner(ctrl),
	}
	f.svc = service.NewBookingService(f.bookings, f.users, f.notifications, f.chat, autoConfirm, zap.NewNop())
	return f
}

func student(id int64) *model.User {
	return &model.User{ID: id, Name: "Ana", Role: model.RoleStudent}
}

func professor(id int64) *model.User {
	return &model.User{ID: id, Name: "Pierre", Role: model.RoleProfessor}
}

var now = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)
	end := start.Add(time.Hour)

	f.users.EXPECT().GetByID(ctx, int64(1)).Return(student(1), nil)
	f.users.EXPECT().GetByID(ctx, int64(2)).Return(professor(2), nil)
	f.bookings.EXPECT().CreateOverlapChecked(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, b *model.Booking) error {
			b.ID = 10
			return nil
		})
	f.notifications.EXPECT().
		Notify(ctx, int64(2), model.NotificationBookingCreated, gomock.Any(), "/bookings").
		Return(nil)

	booking, err := f.svc.Create(ctx, 1, 2, start, end, now)
	require.NoError(t, err)
	assert.Equal(t, int64(10), booking.ID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
}

func TestCreateBookingConflictPropagates(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)

	f.users.EXPECT().GetByID(ctx, int64(1)).Return(student(1), nil)
	f.users.EXPECT().GetByID(ctx, int64(2)).Return(professor(2), nil)
	f.bookings.EXPECT().CreateOverlapChecked(ctx, gomock.Any()).
		Return(apperr.Conflict("slot no longer available"))

	_, err := f.svc.Create(ctx, 1, 2, start, start.Add(time.Hour), now)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateBookingNotificationFailureIgnored(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)

	f.users.EXPECT().GetByID(ctx, int64(1)).Return(student(1), nil)
	f.users.EXPECT().GetByID(ctx, int64(2)).Return(professor(2), nil)
	f.bookings.EXPECT().CreateOverlapChecked(ctx, gomock.Any()).Return(nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(2), model.NotificationBookingCreated, gomock.Any(), "/bookings").
		Return(errors.New("sink down"))

	_, err := f.svc.Create(ctx, 1, 2, start, start.Add(time.Hour), now)
	require.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)

	t.Run("past start", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 1, 2, now.Add(-time.Hour), now, now)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("inverted interval", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 1, 2, start, start.Add(-time.Minute), now)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("booking yourself", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 1, 1, start, start.Add(time.Hour), now)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("professor booking", func(t *testing.T) {
		f.users.EXPECT().GetByID(ctx, int64(2)).Return(professor(2), nil)
		_, err := f.svc.Create(ctx, 2, 1, start, start.Add(time.Hour), now)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestSetStatusAcceptProvisionsChatRoomOnce(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	pending := &model.Booking{ID: 10, StudentID: 1, ProfessorID: 2, StartTime: now.Add(time.Hour), Status: model.BookingStatusPending}
	accepted := *pending
	accepted.Status = model.BookingStatusAccepted

	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(pending, nil)
	f.bookings.EXPECT().UpdateStatus(ctx, int64(10), model.BookingStatusAccepted).Return(&accepted, nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(1), model.NotificationBookingAccepted, gomock.Any(), "/bookings").
		Return(nil)
	f.chat.EXPECT().EnsureRoom(ctx, int64(1), int64(2)).
		Return(&model.ChatRoom{ID: 5, StudentID: 1, ProfessorID: 2}, nil).
		Times(1)

	updated, err := f.svc.SetStatus(ctx, 2, 10, "accepted")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusAccepted, updated.Status)
}

func TestSetStatusCancelNotifiesBothParties(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	accepted := &model.Booking{ID: 10, StudentID: 1, ProfessorID: 2, StartTime: now.Add(time.Hour), Status: model.BookingStatusAccepted}
	cancelled := *accepted
	cancelled.Status = model.BookingStatusCancelled

	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(accepted, nil)
	f.bookings.EXPECT().UpdateStatus(ctx, int64(10), model.BookingStatusCancelled).Return(&cancelled, nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(1), model.NotificationBookingCancelled, gomock.Any(), "/bookings").
		Return(nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(2), model.NotificationBookingCancelled, gomock.Any(), "/bookings").
		Return(nil)

	_, err := f.svc.SetStatus(ctx, 1, 10, "cancelled")
	require.NoError(t, err)
}

func TestCreateBookingAutoConfirm(t *testing.T) {
	f := newBookingFixture(t, true)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)

	f.users.EXPECT().GetByID(ctx, int64(1)).Return(student(1), nil)
	f.users.EXPECT().GetByID(ctx, int64(2)).Return(professor(2), nil)
	f.bookings.EXPECT().CreateOverlapChecked(ctx, gomock.Any()).Return(nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(2), model.NotificationBookingCreated, gomock.Any(), "/bookings").
		Return(nil)
	f.notifications.EXPECT().
		Notify(ctx, int64(1), model.NotificationBookingConfirmed, gomock.Any(), "/bookings").
		Return(nil)
	f.chat.EXPECT().EnsureRoom(ctx, int64(1), int64(2)).
		Return(&model.ChatRoom{ID: 5, StudentID: 1, ProfessorID: 2}, nil).
		Times(1)

	booking, err := f.svc.Create(ctx, 1, 2, start, start.Add(time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusAccepted, booking.Status)
}

func TestSetStatusCancelledIsTerminal(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	cancelled := &model.Booking{ID: 10, StudentID: 1, ProfessorID: 2, Status: model.BookingStatusCancelled}
	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(cancelled, nil)

	_, err := f.svc.SetStatus(ctx, 1, 10, "accepted")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	f := newBookingFixture(t, false)

	_, err := f.svc.SetStatus(context.Background(), 1, 10, "postponed")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSetStatusNonParticipantForbidden(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	booking := &model.Booking{ID: 10, StudentID: 1, ProfessorID: 2, Status: model.BookingStatusPending}
	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(booking, nil)

	_, err := f.svc.SetStatus(ctx, 99, 10, "cancelled")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestSetStatusSameStatusIsNoop(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	booking := &model.Booking{ID: 10, StudentID: 1, ProfessorID: 2, Status: model.BookingStatusPending}
	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(booking, nil)

	updated, err := f.svc.SetStatus(ctx, 1, 10, "pending")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, updated.Status)
}

func TestSetStatusMissingBooking(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	f.bookings.EXPECT().GetByID(ctx, int64(10)).Return(nil, nil)

	_, err := f.svc.SetStatus(ctx, 1, 10, "cancelled")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListForUser(t *testing.T) {
	f := newBookingFixture(t, false)
	ctx := context.Background()

	f.bookings.EXPECT().List(ctx, gomock.Nil(), gomock.Not(gomock.Nil())).
		Return([]*model.Booking{{ID: 1, ProfessorID: 2}}, nil)

	bookings, err := f.svc.ListForUser(ctx, 2, model.RoleProfessor)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}
