package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/repository/memory"
	"github.com/Freeeeeet/tutorhub/internal/video"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	// понедельник
	today = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	// следующий понедельник, далеко за пределами правила 12 часов
	nextMonday  = today.AddDate(0, 0, 7)
	nextTuesday = today.AddDate(0, 0, 8)
)

type fakeRooms struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeRooms) CreateRoom(_ context.Context, req video.RoomRequest) (*video.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	id := req.BookingID.String()[:8]
	return &video.Room{
		RoomURL:     "https://rooms.test/lesson-" + id,
		HostRoomURL: "https://rooms.test/lesson-" + id + "?host",
	}, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []model.BookingEvent
}

func (r *eventRecorder) PublishBookingEvent(_ context.Context, e model.BookingEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []model.BookingEventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.BookingEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *memory.DB
	bookings  *BookingService
	slots     *AvailabilityService
	rooms     *fakeRooms
	events    *eventRecorder
	tutorID   uuid.UUID
	studentID uuid.UUID
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        memory.New(),
		rooms:     &fakeRooms{},
		events:    &eventRecorder{},
		tutorID:   uuid.New(),
		studentID: uuid.New(),
		now:       today.Add(8 * time.Hour),
	}

	require.NoError(t, f.db.UpsertTutor(f.ctx, &model.Tutor{ID: f.tutorID, Name: "Ana", HourlyRate: 40}))
	for _, day := range []time.Weekday{time.Monday, time.Tuesday} {
		require.NoError(t, f.db.CreateAvailabilityWindow(f.ctx, &model.AvailabilityWindow{
			TutorID:   f.tutorID,
			DayOfWeek: int(day),
			StartTime: model.NewClock(6, 0),
			EndTime:   model.NewClock(23, 0),
		}))
	}

	f.bookings = NewBookingService(f.db, zap.NewNop(),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return f.now }),
		WithRoomCreator(f.rooms),
		WithPublisher(f.events),
	)
	f.slots = NewAvailabilityService(f.db, zap.NewNop())

	return f
}

func (f *fixture) input(date time.Time, start string, duration int, flow Flow) CreateBookingInput {
	f.t.Helper()

	c, err := model.ParseClock(start)
	require.NoError(f.t, err)

	return CreateBookingInput{
		TutorID:         f.tutorID,
		StudentID:       f.studentID,
		Date:            date,
		StartTime:       c,
		DurationMinutes: duration,
		LessonType:      model.LessonTypeRegular,
		Price:           40,
		Flow:            flow,
	}
}

func (f *fixture) book(date time.Time, start string, duration int, flow Flow) *model.Booking {
	f.t.Helper()

	b, err := f.bookings.CreateBooking(f.ctx, f.input(date, start, duration, flow))
	require.NoError(f.t, err)
	return b
}

type fakeProvider struct {
	createErr error
	status    model.PaymentStatus
	notify    *payment.Notification
	orders    int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.orders++
	return &payment.Order{Provider: "fake", OrderID: "order-" + req.BookingID.String()[:8], Amount: req.Amount}, nil
}

func (p *fakeProvider) OrderStatus(_ context.Context, _ string) (model.PaymentStatus, error) {
	return p.status, nil
}

func (p *fakeProvider) ParseNotification(body []byte, signature string) (*payment.Notification, error) {
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	if p.notify == nil {
		return nil, errors.New("no notification configured")
	}
	return p.notify, nil
}
