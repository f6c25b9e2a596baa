package realtime

import (
	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
)

// SlotChange изменение занятости репетитора для чужих подписчиков.
// Данные студента, оплаты и ссылки на комнату сюда не попадают.
type SlotChange struct {
	BookingID     uuid.UUID           `json:"booking_id"`
	TutorID       uuid.UUID           `json:"tutor_id"`
	Date          string              `json:"date"`
	StartTime     model.Clock         `json:"start_time"`
	EndTime       model.Clock         `json:"end_time"`
	Status        model.BookingStatus `json:"status"`
	PreviousDate  string              `json:"previous_date,omitempty"`
	PreviousStart *model.Clock        `json:"previous_start,omitempty"`
}

// newSlotChange nil, если событие не меняет занятость слотов
func newSlotChange(e model.BookingEvent) *SlotChange {
	switch e.Type {
	case model.BookingEventRoomReady, model.BookingEventPaymentFailed:
		return nil
	}

	b := e.Booking
	change := &SlotChange{
		BookingID:     b.ID,
		TutorID:       b.TutorID,
		Date:          model.FormatDate(b.LessonDate),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status,
		PreviousStart: e.PreviousStart,
	}
	if e.PreviousDate != nil {
		change.PreviousDate = model.FormatDate(*e.PreviousDate)
	}

	return change
}
