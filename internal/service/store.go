package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/video"
	"github.com/google/uuid"
)

// Transactor атомарный блок записи. days - пары (репетитор, дата), которые меняет блок.
type Transactor interface {
	InTx(ctx context.Context, days []model.TutorDay, fn func(ctx context.Context) error) error
}

type WindowReader interface {
	ListAvailabilityWindows(ctx context.Context, tutorID uuid.UUID) ([]model.AvailabilityWindow, error)
}

type AvailabilityStore interface {
	WindowReader
	GetAvailabilityWindow(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error)
	CreateAvailabilityWindow(ctx context.Context, w *model.AvailabilityWindow) error
	DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID) error
	ListActiveBookings(ctx context.Context, tutorID uuid.UUID, date time.Time) ([]*model.Booking, error)
	GetTutor(ctx context.Context, id uuid.UUID) (*model.Tutor, error)
}

type BookingStore interface {
	Transactor
	WindowReader
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetBookingByPaymentOrder(ctx context.Context, orderID string) (*model.Booking, error)
	ListActiveBookings(ctx context.Context, tutorID uuid.UUID, date time.Time) ([]*model.Booking, error)
	ListStudentBookings(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error)
	ListTutorBookings(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error)
	ListBookingsWithoutRoom(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error
	UpdateBookingSchedule(ctx context.Context, id uuid.UUID, date time.Time, start, end model.Clock) error
	UpdateBookingRoom(ctx context.Context, id uuid.UUID, roomURL, hostRoomURL string) error
	UpdateBookingPaymentOrder(ctx context.Context, id uuid.UUID, provider, orderID string) error
}

type TutorStore interface {
	GetTutor(ctx context.Context, id uuid.UUID) (*model.Tutor, error)
	UpsertTutor(ctx context.Context, t *model.Tutor) error
}

type ReviewStore interface {
	Transactor
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (*model.Review, error)
	InsertReview(ctx context.Context, r *model.Review) error
	ListTutorReviews(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error)
	AverageTutorRating(ctx context.Context, tutorID uuid.UUID) (float64, error)
	UpdateTutorRating(ctx context.Context, id uuid.UUID, rating float64) error
}

// RoomCreator внешний сервис видеокомнат
type RoomCreator interface {
	CreateRoom(ctx context.Context, req video.RoomRequest) (*video.Room, error)
}

// EventPublisher получатель событий после коммита. Не должен блокировать.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event model.BookingEvent)
}
