package schedule

import (
	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
)

// Overlaps пересекаются ли полуинтервалы [aStart, aEnd) и [bStart, bEnd)
func Overlaps(aStart, aEnd, bStart, bEnd model.Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// OverlapsAny пересекается ли интервал с каким-либо активным бронированием.
// Бронирование exclude не учитывается (используется при переносе).
func OverlapsAny(start, end model.Clock, bookings []*model.Booking, exclude uuid.UUID) bool {
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		if exclude != uuid.Nil && b.ID == exclude {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
