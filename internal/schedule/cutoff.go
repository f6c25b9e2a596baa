package schedule

import (
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
)

// ModificationCutoff минимальное время до начала подтверждённого занятия,
// когда его ещё можно отменить или перенести
const ModificationCutoff = 12 * time.Hour

// CanModify проверяет правило 12 часов. Для pending бронирований ограничения нет.
func CanModify(b *model.Booking, now time.Time) bool {
	if b.Status != model.BookingStatusConfirmed {
		return true
	}
	return !now.After(b.StartsAt(now.Location()).Add(-ModificationCutoff))
}

// HoursRemaining сколько целых часов осталось до начала занятия
func HoursRemaining(b *model.Booking, now time.Time) int {
	return int(b.StartsAt(now.Location()).Sub(now) / time.Hour)
}
