package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService struct {
	store  AvailabilityStore
	logger *zap.Logger
}

func NewAvailabilityService(store AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		logger: logger,
	}
}

// ComputeSlots слоты репетитора на дату. Результат справочный: при бронировании всё проверяется заново.
// Отсутствие окон даёт пустой список, ошибка возвращается только при сбое хранилища.
func (s *AvailabilityService) ComputeSlots(ctx context.Context, tutorID uuid.UUID, date time.Time, durationMinutes int, now time.Time) ([]model.TimeSlot, error) {
	date = model.DateOf(date)

	windows, err := s.store.ListAvailabilityWindows(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	bookings, err := s.store.ListActiveBookings(ctx, tutorID, date)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	return schedule.ComputeSlots(date, windows, bookings, durationMinutes, now), nil
}

// ListWindows еженедельные окна репетитора
func (s *AvailabilityService) ListWindows(ctx context.Context, tutorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	windows, err := s.store.ListAvailabilityWindows(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}
	return windows, nil
}

// AddWindow добавляет окно. Окна можно только создавать и удалять, изменения нет.
func (s *AvailabilityService) AddWindow(ctx context.Context, tutorID uuid.UUID, dayOfWeek int, start, end model.Clock) (*model.AvailabilityWindow, error) {
	w := &model.AvailabilityWindow{
		TutorID:   tutorID,
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	// окна есть только у зарегистрированных репетиторов
	if _, err := s.store.GetTutor(ctx, tutorID); err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	if err := s.store.CreateAvailabilityWindow(ctx, w); err != nil {
		return nil, fmt.Errorf("create availability window: %w", err)
	}

	s.logger.Info("Availability window added",
		zap.String("tutor_id", tutorID.String()),
		zap.String("window_id", w.ID.String()),
		zap.Int("day_of_week", dayOfWeek),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
	)

	return w, nil
}

// DeleteWindow удаляет окно своего расписания. Существующие бронирования остаются.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, tutorID, windowID uuid.UUID) error {
	w, err := s.store.GetAvailabilityWindow(ctx, windowID)
	if err != nil {
		return fmt.Errorf("get availability window: %w", err)
	}

	if w.TutorID != tutorID {
		return fmt.Errorf("delete availability window: %w", model.ErrForbidden)
	}

	if err := s.store.DeleteAvailabilityWindow(ctx, windowID); err != nil {
		return fmt.Errorf("delete availability window: %w", err)
	}

	s.logger.Info("Availability window deleted",
		zap.String("tutor_id", tutorID.String()),
		zap.String("window_id", windowID.String()),
	)

	return nil
}
