package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lessonDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newBooking(tutorID uuid.UUID, start, end model.Clock, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		TutorID:         tutorID,
		StudentID:       uuid.New(),
		LessonDate:      lessonDate,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: int(end - start),
		LessonType:      model.LessonTypeRegular,
		Status:          status,
		PaymentStatus:   model.PaymentStatusPending,
	}
}

func TestInsertBooking_RejectsOverlap(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()

	first := newBooking(tutorID, model.NewClock(14, 0), model.NewClock(15, 0), model.BookingStatusConfirmed)
	require.NoError(t, db.InsertBooking(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := newBooking(tutorID, model.NewClock(14, 30), model.NewClock(15, 30), model.BookingStatusPending)
	err := db.InsertBooking(ctx, second)
	assert.ErrorIs(t, err, model.ErrSlotConflict)

	// другой репетитор в то же время
	other := newBooking(uuid.New(), model.NewClock(14, 30), model.NewClock(15, 30), model.BookingStatusPending)
	assert.NoError(t, db.InsertBooking(ctx, other))

	// соседний интервал не пересекается
	adjacent := newBooking(tutorID, model.NewClock(15, 0), model.NewClock(16, 0), model.BookingStatusPending)
	assert.NoError(t, db.InsertBooking(ctx, adjacent))
}

func TestInsertBooking_CancelledDoesNotBlock(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()

	first := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusConfirmed)
	require.NoError(t, db.InsertBooking(ctx, first))
	require.NoError(t, db.UpdateBookingStatus(ctx, first.ID, model.BookingStatusCancelled))

	second := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusPending)
	assert.NoError(t, db.InsertBooking(ctx, second))

	// вернуть отменённое в активное состояние уже нельзя, интервал занят
	err := db.UpdateBookingStatus(ctx, first.ID, model.BookingStatusConfirmed)
	assert.ErrorIs(t, err, model.ErrSlotConflict)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()
	boom := errors.New("boom")

	err := db.InTx(ctx, nil, func(ctx context.Context) error {
		b := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusPending)
		require.NoError(t, db.InsertBooking(ctx, b))
		return boom
	})
	require.ErrorIs(t, err, boom)

	bookings, err := db.ListTutorBookings(ctx, tutorID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestInTx_RollbackKeepsWritesOutsideTransaction(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()
	boom := errors.New("boom")

	existing := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusConfirmed)
	other := newBooking(tutorID, model.NewClock(15, 0), model.NewClock(16, 0), model.BookingStatusConfirmed)
	require.NoError(t, db.InsertBooking(ctx, existing))
	require.NoError(t, db.InsertBooking(ctx, other))

	err := db.InTx(ctx, nil, func(txCtx context.Context) error {
		inTx := newBooking(tutorID, model.NewClock(12, 0), model.NewClock(13, 0), model.BookingStatusPending)
		require.NoError(t, db.InsertBooking(txCtx, inTx))
		require.NoError(t, db.UpdateBookingStatus(txCtx, existing.ID, model.BookingStatusCancelled))

		// комната для другого занятия создаётся параллельно, вне транзакции
		require.NoError(t, db.UpdateBookingRoom(ctx, other.ID, "https://rooms.test/b", "https://rooms.test/b?host"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	bookings, err := db.ListTutorBookings(ctx, tutorID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	got, err := db.GetBooking(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, got.Status)

	got, err = db.GetBooking(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://rooms.test/b", got.RoomURL)
}

func TestInTx_Nested(t *testing.T) {
	db := New()
	ctx := context.Background()
	calls := 0

	err := db.InTx(ctx, nil, func(ctx context.Context) error {
		return db.InTx(ctx, nil, func(ctx context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetBooking_ReturnsCopy(t *testing.T) {
	db := New()
	ctx := context.Background()

	b := newBooking(uuid.New(), model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusPending)
	require.NoError(t, db.InsertBooking(ctx, b))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	got.Status = model.BookingStatusCancelled

	again, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, again.Status)

	_, err = db.GetBooking(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListActiveBookings(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()

	late := newBooking(tutorID, model.NewClock(16, 0), model.NewClock(17, 0), model.BookingStatusConfirmed)
	early := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusPending)
	cancelled := newBooking(tutorID, model.NewClock(12, 0), model.NewClock(13, 0), model.BookingStatusCancelled)
	nextDay := newBooking(tutorID, model.NewClock(9, 0), model.NewClock(10, 0), model.BookingStatusConfirmed)
	nextDay.LessonDate = lessonDate.AddDate(0, 0, 1)

	for _, b := range []*model.Booking{late, early, cancelled, nextDay} {
		require.NoError(t, db.InsertBooking(ctx, b))
	}

	active, err := db.ListActiveBookings(ctx, tutorID, lessonDate)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, early.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)
}

func TestAvailabilityWindows(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()

	tuesday := &model.AvailabilityWindow{TutorID: tutorID, DayOfWeek: 2, StartTime: model.NewClock(9, 0), EndTime: model.NewClock(12, 0)}
	monday := &model.AvailabilityWindow{TutorID: tutorID, DayOfWeek: 1, StartTime: model.NewClock(14, 0), EndTime: model.NewClock(18, 0)}
	require.NoError(t, db.CreateAvailabilityWindow(ctx, tuesday))
	require.NoError(t, db.CreateAvailabilityWindow(ctx, monday))

	windows, err := db.ListAvailabilityWindows(ctx, tutorID)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, monday.ID, windows[0].ID)

	require.NoError(t, db.DeleteAvailabilityWindow(ctx, monday.ID))
	assert.ErrorIs(t, db.DeleteAvailabilityWindow(ctx, monday.ID), model.ErrNotFound)

	empty, err := db.ListAvailabilityWindows(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestReviews(t *testing.T) {
	db := New()
	ctx := context.Background()
	tutorID := uuid.New()
	bookingID := uuid.New()

	require.NoError(t, db.InsertReview(ctx, &model.Review{BookingID: bookingID, TutorID: tutorID, Rating: 5}))
	err := db.InsertReview(ctx, &model.Review{BookingID: bookingID, TutorID: tutorID, Rating: 1})
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)

	require.NoError(t, db.InsertReview(ctx, &model.Review{BookingID: uuid.New(), TutorID: tutorID, Rating: 4}))

	avg, err := db.AverageTutorRating(ctx, tutorID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
}
