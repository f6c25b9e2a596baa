package service

import (
	"errors"
	"testing"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentFixture(t *testing.T) (*fixture, *fakeProvider, *PaymentService) {
	t.Helper()

	f := newFixture(t)
	provider := &fakeProvider{status: model.PaymentStatusPending}
	return f, provider, NewPaymentService(f.bookings, f.db, provider, zap.NewNop())
}

func (f *fixture) checkout(start string, duration int) CheckoutInput {
	f.t.Helper()

	c, err := model.ParseClock(start)
	require.NoError(f.t, err)

	return CheckoutInput{
		TutorID:         f.tutorID,
		StudentID:       f.studentID,
		Date:            nextMonday,
		StartTime:       c,
		DurationMinutes: duration,
		LessonType:      model.LessonTypeRegular,
	}
}

func TestStartCheckout(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	res, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 90))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, res.Booking.Status)
	assert.Equal(t, 60.0, res.Booking.Price)
	assert.Equal(t, 60.0, res.Order.Amount)
	assert.Equal(t, "fake", res.Booking.PaymentProvider)
	assert.Equal(t, res.Order.OrderID, res.Booking.PaymentOrderID)
	assert.Equal(t, 1, provider.orders)

	found, err := f.bookings.FindByPaymentOrder(f.ctx, res.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, res.Booking.ID, found.ID)
}

func TestStartCheckout_ProviderFailureReleasesSlot(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)
	provider.createErr = errors.New("gateway timeout")

	_, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.Error(t, err)

	active, err := f.db.ListActiveBookings(f.ctx, f.tutorID, nextMonday)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStartCheckout_Conflict(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	f.book(nextMonday, "10:00", 60, FlowFree)

	_, err := svc.StartCheckout(f.ctx, f.checkout("10:30", 30))
	require.ErrorIs(t, err, model.ErrSlotConflict)
	assert.Zero(t, provider.orders)
}

func TestStartCheckout_UnknownTutor(t *testing.T) {
	f, _, svc := newPaymentFixture(t)

	in := f.checkout("10:00", 60)
	in.TutorID = uuid.New()

	_, err := svc.StartCheckout(f.ctx, in)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCapture(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	res, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.NoError(t, err)

	// оплата ещё не завершена: бронирование не меняется
	_, err = svc.Capture(f.ctx, res.Booking.ID, f.studentID)
	require.ErrorIs(t, err, model.ErrPaymentFailed)

	stored, err := f.db.GetBooking(f.ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, stored.Status)
	assert.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)

	_, err = svc.Capture(f.ctx, res.Booking.ID, f.tutorID)
	require.ErrorIs(t, err, model.ErrForbidden)

	provider.status = model.PaymentStatusCompleted
	confirmed, err := svc.Capture(f.ctx, res.Booking.ID, f.studentID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, model.PaymentStatusCompleted, confirmed.PaymentStatus)
	assert.NotEmpty(t, confirmed.RoomURL)
}

func TestCapture_Failed(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	res, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.NoError(t, err)

	provider.status = model.PaymentStatusFailed
	_, err = svc.Capture(f.ctx, res.Booking.ID, f.studentID)
	require.ErrorIs(t, err, model.ErrPaymentFailed)

	stored, err := f.db.GetBooking(f.ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, stored.Status)
	assert.Equal(t, model.PaymentStatusFailed, stored.PaymentStatus)
}

func TestHandleNotification(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	res, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.NoError(t, err)

	err = svc.HandleNotification(f.ctx, []byte(`{}`), "forged")
	require.ErrorIs(t, err, payment.ErrInvalidSignature)

	provider.notify = &payment.Notification{OrderID: "unknown", Status: model.PaymentStatusCompleted}
	require.NoError(t, svc.HandleNotification(f.ctx, []byte(`{}`), "valid"))

	provider.notify = &payment.Notification{OrderID: res.Order.OrderID, Status: model.PaymentStatusCompleted}
	require.NoError(t, svc.HandleNotification(f.ctx, []byte(`{}`), "valid"))

	stored, err := f.db.GetBooking(f.ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, stored.Status)

	// повтор вебхука
	require.NoError(t, svc.HandleNotification(f.ctx, []byte(`{}`), "valid"))
}

func TestHandleNotification_FailedPaymentAcknowledged(t *testing.T) {
	f, provider, svc := newPaymentFixture(t)

	res, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.NoError(t, err)

	provider.notify = &payment.Notification{OrderID: res.Order.OrderID, Status: model.PaymentStatusFailed}
	require.NoError(t, svc.HandleNotification(f.ctx, []byte(`{}`), "valid"))

	stored, err := f.db.GetBooking(f.ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, stored.PaymentStatus)
}

func TestPaymentService_Disabled(t *testing.T) {
	f := newFixture(t)
	svc := NewPaymentService(f.bookings, f.db, nil, zap.NewNop())

	assert.False(t, svc.Enabled())

	_, err := svc.StartCheckout(f.ctx, f.checkout("10:00", 60))
	require.ErrorIs(t, err, ErrPaymentsDisabled)

	require.ErrorIs(t, svc.HandleNotification(f.ctx, nil, ""), ErrPaymentsDisabled)
}

func TestRequiresCheckout(t *testing.T) {
	f := newFixture(t)

	enabled := NewPaymentService(f.bookings, f.db, &fakeProvider{}, zap.NewNop())
	assert.True(t, enabled.RequiresCheckout(40))
	assert.False(t, enabled.RequiresCheckout(0), "free lesson needs no order")

	disabled := NewPaymentService(f.bookings, f.db, nil, zap.NewNop())
	assert.False(t, disabled.RequiresCheckout(40))
}
