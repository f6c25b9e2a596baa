package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow еженедельное окно доступности репетитора
type AvailabilityWindow struct {
	ID        uuid.UUID `json:"id"`
	TutorID   uuid.UUID `json:"tutor_id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime Clock     `json:"start_time"`
	EndTime   Clock     `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate проверяет инварианты окна
func (w *AvailabilityWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be within 0..6", ErrInvalidInput)
	}
	if !w.StartTime.Valid() || !w.EndTime.Valid() {
		return fmt.Errorf("%w: time must be within 00:00..24:00", ErrInvalidInput)
	}
	if w.StartTime >= w.EndTime {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	return nil
}

// Contains проверяет что интервал [start, end) целиком внутри окна
func (w *AvailabilityWindow) Contains(start, end Clock) bool {
	return start >= w.StartTime && end <= w.EndTime
}
