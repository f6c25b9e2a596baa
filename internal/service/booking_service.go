package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/schedule"
	"github.com/Freeeeeet/tutorhub/internal/video"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flow определяет начальные статусы нового бронирования
type Flow int

const (
	// FlowFree без оплаты: сразу confirmed/completed
	FlowFree Flow = iota
	// FlowPaid ждёт подтверждения оплаты: pending/pending
	FlowPaid
)

type CreateBookingInput struct {
	TutorID         uuid.UUID
	StudentID       uuid.UUID
	Date            time.Time
	StartTime       model.Clock
	DurationMinutes int
	LessonType      model.LessonType
	Price           float64
	Flow            Flow
}

type BookingService struct {
	store      BookingStore
	rooms      RoomCreator
	publishers []EventPublisher
	loc        *time.Location
	clock      func() time.Time
	logger     *zap.Logger
}

type BookingOption func(*BookingService)

// WithRoomCreator включает создание видеокомнат для подтверждённых занятий
func WithRoomCreator(rooms RoomCreator) BookingOption {
	return func(s *BookingService) { s.rooms = rooms }
}

func WithPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) { s.publishers = append(s.publishers, p) }
}

// WithLocation пояс, в котором интерпретируются даты и время занятий
func WithLocation(loc *time.Location) BookingOption {
	return func(s *BookingService) { s.loc = loc }
}

func WithClock(clock func() time.Time) BookingOption {
	return func(s *BookingService) { s.clock = clock }
}

func NewBookingService(store BookingStore, logger *zap.Logger, opts ...BookingOption) *BookingService {
	s := &BookingService{
		store:  store,
		loc:    time.Local,
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now текущее время в поясе занятий
func (s *BookingService) Now() time.Time {
	return s.clock().In(s.loc)
}

// CreateBooking создаёт бронирование после повторной проверки окна и пересечений.
// Проверка и запись выполняются атомарно под блокировкой (репетитор, дата).
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	date := model.DateOf(in.Date)
	start := in.StartTime
	end := start.Add(in.DurationMinutes)
	if !end.Valid() {
		return nil, fmt.Errorf("%w: lesson must end within the day", model.ErrInvalidWindow)
	}

	now := s.Now()
	if !model.LessonStart(date, start, s.loc).After(now) {
		return nil, fmt.Errorf("%w: lesson start is in the past", model.ErrInvalidWindow)
	}

	booking := &model.Booking{
		TutorID:         in.TutorID,
		StudentID:       in.StudentID,
		LessonDate:      date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: in.DurationMinutes,
		LessonType:      in.LessonType,
		Price:           in.Price,
		Status:          model.BookingStatusConfirmed,
		PaymentStatus:   model.PaymentStatusCompleted,
	}
	if in.Flow == FlowPaid {
		booking.Status = model.BookingStatusPending
		booking.PaymentStatus = model.PaymentStatusPending
	}

	days := []model.TutorDay{{TutorID: in.TutorID, Date: date}}
	err := s.store.InTx(ctx, days, func(ctx context.Context) error {
		windows, err := s.store.ListAvailabilityWindows(ctx, in.TutorID)
		if err != nil {
			return fmt.Errorf("list availability windows: %w", err)
		}

		if !schedule.WithinWindows(windows, date.Weekday(), start, end) {
			return fmt.Errorf("%w: %s %s-%s", model.ErrInvalidWindow, date.Weekday(), start, end)
		}

		active, err := s.store.ListActiveBookings(ctx, in.TutorID, date)
		if err != nil {
			return fmt.Errorf("list active bookings: %w", err)
		}

		if schedule.OverlapsAny(start, end, active, uuid.Nil) {
			return fmt.Errorf("%w: %s %s-%s", model.ErrSlotConflict, model.FormatDate(date), start, end)
		}

		return s.store.InsertBooking(ctx, booking)
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("tutor_id", booking.TutorID.String()),
		zap.String("student_id", booking.StudentID.String()),
		zap.String("date", model.FormatDate(date)),
		zap.String("start", start.String()),
		zap.String("status", string(booking.Status)),
	)

	if booking.Status == model.BookingStatusConfirmed {
		s.provisionRoom(ctx, booking)
	}
	s.publish(ctx, model.BookingEventCreated, booking, nil, nil)

	return booking, nil
}

func validateCreateInput(in CreateBookingInput) error {
	if in.TutorID == uuid.Nil || in.StudentID == uuid.Nil {
		return fmt.Errorf("%w: tutor and student are required", model.ErrInvalidInput)
	}
	if in.TutorID == in.StudentID {
		return fmt.Errorf("%w: tutor cannot book own lesson", model.ErrInvalidInput)
	}
	if in.LessonType != model.LessonTypeTrial && in.LessonType != model.LessonTypeRegular {
		return fmt.Errorf("%w: unknown lesson type %q", model.ErrInvalidInput, in.LessonType)
	}
	if !model.IsSupportedDuration(in.LessonType, in.DurationMinutes) {
		return fmt.Errorf("%w: unsupported duration %d for %s lesson", model.ErrInvalidInput, in.DurationMinutes, in.LessonType)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", model.ErrInvalidInput)
	}
	if !in.StartTime.Valid() {
		return fmt.Errorf("%w: start time out of range", model.ErrInvalidInput)
	}
	return nil
}

// ConfirmBooking подтверждение репетитором оплаченного pending бронирования
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	var booking *model.Booking
	err = s.store.InTx(ctx, bookingDays(current), func(ctx context.Context) error {
		b, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if b.TutorID != actorID {
			return fmt.Errorf("%w: only the tutor may confirm", model.ErrForbidden)
		}

		if b.Status != model.BookingStatusPending || b.PaymentStatus != model.PaymentStatusCompleted {
			return fmt.Errorf("%w: %s/%s cannot be confirmed", model.ErrInvalidTransition, b.Status, b.PaymentStatus)
		}

		if err := s.store.UpdateBookingStatus(ctx, b.ID, model.BookingStatusConfirmed); err != nil {
			return err
		}

		b.Status = model.BookingStatusConfirmed
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	s.logger.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("tutor_id", actorID.String()),
	)

	s.provisionRoom(ctx, booking)
	s.publish(ctx, model.BookingEventConfirmed, booking, nil, nil)

	return booking, nil
}

// CancelBooking отмена любой из сторон. Для confirmed действует правило 12 часов.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, now time.Time) (*model.Booking, error) {
	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	var booking *model.Booking
	err = s.store.InTx(ctx, bookingDays(current), func(ctx context.Context) error {
		b, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if !b.IsParty(actorID) {
			return model.ErrForbidden
		}

		if !b.IsActive() {
			return fmt.Errorf("%w: booking is %s", model.ErrInvalidTransition, b.Status)
		}

		if !schedule.CanModify(b, now.In(s.loc)) {
			return fmt.Errorf("%w: %d hours before the lesson", model.ErrCutoffExceeded, schedule.HoursRemaining(b, now.In(s.loc)))
		}

		if err := s.store.UpdateBookingStatus(ctx, b.ID, model.BookingStatusCancelled); err != nil {
			return err
		}

		b.Status = model.BookingStatusCancelled
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("actor_id", actorID.String()),
	)

	s.publish(ctx, model.BookingEventCancelled, booking, nil, nil)

	return booking, nil
}

// RescheduleBooking переносит подтверждённое занятие, длительность сохраняется.
// Блокируются обе даты: исходная и новая.
func (s *BookingService) RescheduleBooking(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	newDate time.Time,
	newStart model.Clock,
	now time.Time,
) (*model.Booking, error) {
	newDate = model.DateOf(newDate)
	now = now.In(s.loc)

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("reschedule booking: %w", err)
	}

	days := append(bookingDays(current), model.TutorDay{TutorID: current.TutorID, Date: newDate})

	var (
		booking   *model.Booking
		prevDate  time.Time
		prevStart model.Clock
	)
	err = s.store.InTx(ctx, days, func(ctx context.Context) error {
		b, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if !b.IsParty(actorID) {
			return model.ErrForbidden
		}

		// занятие успели перенести на дату, которую мы не блокировали
		if !b.LessonDate.Equal(current.LessonDate) {
			return fmt.Errorf("%w: booking was moved concurrently", model.ErrSlotConflict)
		}

		if b.Status != model.BookingStatusConfirmed {
			return fmt.Errorf("%w: only confirmed bookings can be rescheduled, got %s", model.ErrInvalidTransition, b.Status)
		}

		if !schedule.CanModify(b, now) {
			return fmt.Errorf("%w: %d hours before the lesson", model.ErrCutoffExceeded, schedule.HoursRemaining(b, now))
		}

		newEnd := newStart.Add(b.DurationMinutes)
		if !newStart.Valid() || !newEnd.Valid() {
			return fmt.Errorf("%w: lesson must fit within the day", model.ErrInvalidWindow)
		}

		if !model.LessonStart(newDate, newStart, s.loc).After(now) {
			return fmt.Errorf("%w: new start is in the past", model.ErrInvalidWindow)
		}

		windows, err := s.store.ListAvailabilityWindows(ctx, b.TutorID)
		if err != nil {
			return fmt.Errorf("list availability windows: %w", err)
		}

		if !schedule.WithinWindows(windows, newDate.Weekday(), newStart, newEnd) {
			return fmt.Errorf("%w: %s %s-%s", model.ErrInvalidWindow, newDate.Weekday(), newStart, newEnd)
		}

		active, err := s.store.ListActiveBookings(ctx, b.TutorID, newDate)
		if err != nil {
			return fmt.Errorf("list active bookings: %w", err)
		}

		if schedule.OverlapsAny(newStart, newEnd, active, b.ID) {
			return fmt.Errorf("%w: %s %s-%s", model.ErrSlotConflict, model.FormatDate(newDate), newStart, newEnd)
		}

		if err := s.store.UpdateBookingSchedule(ctx, b.ID, newDate, newStart, newEnd); err != nil {
			return err
		}

		// старая комната привязана к старому времени
		if b.RoomURL != "" {
			if err := s.store.UpdateBookingRoom(ctx, b.ID, "", ""); err != nil {
				return err
			}
		}

		prevDate, prevStart = b.LessonDate, b.StartTime
		b.LessonDate, b.StartTime, b.EndTime = newDate, newStart, newEnd
		b.RoomURL, b.HostRoomURL = "", ""
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reschedule booking: %w", err)
	}

	s.logger.Info("Booking rescheduled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("from", model.FormatDate(prevDate)+" "+prevStart.String()),
		zap.String("to", model.FormatDate(newDate)+" "+newStart.String()),
	)

	s.provisionRoom(ctx, booking)
	s.publish(ctx, model.BookingEventRescheduled, booking, &prevDate, &prevStart)

	return booking, nil
}

// ApplyPaymentResult переход "оплата получена".
// completed: оплата completed и статус confirmed. failed: оплата failed, статус остаётся pending,
// вызывающий получает ErrPaymentFailed.
func (s *BookingService) ApplyPaymentResult(ctx context.Context, bookingID uuid.UUID, result model.PaymentStatus) (*model.Booking, error) {
	if result != model.PaymentStatusCompleted && result != model.PaymentStatusFailed {
		return nil, fmt.Errorf("apply payment result: %w: unexpected result %q", model.ErrInvalidInput, result)
	}

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("apply payment result: %w", err)
	}

	var (
		booking   *model.Booking
		duplicate bool
	)
	err = s.store.InTx(ctx, bookingDays(current), func(ctx context.Context) error {
		b, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		booking = b

		// вебхук и capture могут прийти оба
		if b.PaymentStatus == model.PaymentStatusCompleted && result == model.PaymentStatusCompleted {
			duplicate = true
			return nil
		}

		if b.Status != model.BookingStatusPending {
			return fmt.Errorf("%w: payment for %s booking", model.ErrInvalidTransition, b.Status)
		}

		if err := s.store.UpdatePaymentStatus(ctx, b.ID, result); err != nil {
			return err
		}
		b.PaymentStatus = result

		if result == model.PaymentStatusCompleted {
			if err := s.store.UpdateBookingStatus(ctx, b.ID, model.BookingStatusConfirmed); err != nil {
				return err
			}
			b.Status = model.BookingStatusConfirmed
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply payment result: %w", err)
	}

	if duplicate {
		return booking, nil
	}

	if result == model.PaymentStatusFailed {
		s.logger.Warn("Payment failed",
			zap.String("booking_id", booking.ID.String()),
			zap.String("order_id", booking.PaymentOrderID),
		)
		s.publish(ctx, model.BookingEventPaymentFailed, booking, nil, nil)
		return booking, fmt.Errorf("apply payment result: %w", model.ErrPaymentFailed)
	}

	s.logger.Info("Payment captured",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.PaymentOrderID),
	)

	s.provisionRoom(ctx, booking)
	s.publish(ctx, model.BookingEventConfirmed, booking, nil, nil)

	return booking, nil
}

// AttachPaymentOrder сохраняет заказ провайдера на pending бронировании
func (s *BookingService) AttachPaymentOrder(ctx context.Context, bookingID uuid.UUID, provider, orderID string) error {
	if err := s.store.UpdateBookingPaymentOrder(ctx, bookingID, provider, orderID); err != nil {
		return fmt.Errorf("attach payment order: %w", err)
	}
	return nil
}

// FindByPaymentOrder бронирование по номеру заказа провайдера
func (s *BookingService) FindByPaymentOrder(ctx context.Context, orderID string) (*model.Booking, error) {
	if orderID == "" {
		return nil, fmt.Errorf("find by payment order: %w", model.ErrNotFound)
	}

	b, err := s.store.GetBookingByPaymentOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find by payment order: %w", err)
	}
	return b, nil
}

// GetBooking бронирование для одной из сторон, статус с учётом прошедшего времени
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if !b.IsParty(actorID) {
		return nil, fmt.Errorf("get booking: %w", model.ErrForbidden)
	}

	b.Status = b.EffectiveStatus(s.Now())
	return b, nil
}

func (s *BookingService) ListStudentBookings(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.store.ListStudentBookings(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}
	return s.withEffectiveStatus(bookings), nil
}

func (s *BookingService) ListTutorBookings(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.store.ListTutorBookings(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list tutor bookings: %w", err)
	}
	return s.withEffectiveStatus(bookings), nil
}

func (s *BookingService) withEffectiveStatus(bookings []*model.Booking) []*model.Booking {
	now := s.Now()
	for _, b := range bookings {
		b.Status = b.EffectiveStatus(now)
	}
	if bookings == nil {
		return []*model.Booking{}
	}
	return bookings
}

// ModificationWindow подсказка для клиента: можно ли ещё отменить или перенести.
// Окончательно правило проверяется при самой операции.
func (s *BookingService) ModificationWindow(b *model.Booking, now time.Time) (bool, int) {
	now = now.In(s.loc)
	if !b.IsActive() || b.EffectiveStatus(now) == model.BookingStatusCompleted {
		return false, 0
	}
	return schedule.CanModify(b, now), schedule.HoursRemaining(b, now)
}

// ProvisionMissingRooms создаёт комнаты для подтверждённых занятий в ближайшие horizon,
// которые не получили комнату при подтверждении
func (s *BookingService) ProvisionMissingRooms(ctx context.Context, horizon time.Duration) (int, error) {
	if s.rooms == nil {
		return 0, nil
	}

	now := s.Now()
	bookings, err := s.store.ListBookingsWithoutRoom(ctx, model.DateOf(now), model.DateOf(now.Add(horizon)))
	if err != nil {
		return 0, fmt.Errorf("list bookings without room: %w", err)
	}

	created := 0
	for _, b := range bookings {
		if !b.EndsAt(s.loc).After(now) {
			continue
		}
		if s.provisionRoom(ctx, b) {
			created++
		}
	}

	return created, nil
}

// provisionRoom создание комнаты не влияет на результат операции
func (s *BookingService) provisionRoom(ctx context.Context, b *model.Booking) bool {
	if s.rooms == nil {
		return false
	}

	room, err := s.rooms.CreateRoom(ctx, video.RoomRequest{
		BookingID: b.ID,
		StartsAt:  b.StartsAt(s.loc),
		EndsAt:    b.EndsAt(s.loc),
	})
	if err != nil {
		s.logger.Warn("Failed to create video room",
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
		return false
	}

	if err := s.store.UpdateBookingRoom(ctx, b.ID, room.RoomURL, room.HostRoomURL); err != nil {
		s.logger.Error("Failed to save video room",
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
		return false
	}

	b.RoomURL, b.HostRoomURL = room.RoomURL, room.HostRoomURL
	s.publish(ctx, model.BookingEventRoomReady, b, nil, nil)
	return true
}

func (s *BookingService) publish(ctx context.Context, typ model.BookingEventType, b *model.Booking, prevDate *time.Time, prevStart *model.Clock) {
	if len(s.publishers) == 0 {
		return
	}

	event := model.BookingEvent{
		Type:          typ,
		Booking:       *b,
		PreviousDate:  prevDate,
		PreviousStart: prevStart,
		OccurredAt:    s.Now(),
	}
	for _, p := range s.publishers {
		p.PublishBookingEvent(ctx, event)
	}
}

func bookingDays(b *model.Booking) []model.TutorDay {
	return []model.TutorDay{{TutorID: b.TutorID, Date: b.LessonDate}}
}
