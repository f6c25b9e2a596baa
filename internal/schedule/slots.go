package schedule

import (
	"sort"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
)

// SlotStepMinutes шаг сетки кандидатов, не зависит от длительности занятия
const SlotStepMinutes = 30

// WindowsForDay окна репетитора на день недели даты
func WindowsForDay(windows []model.AvailabilityWindow, weekday time.Weekday) []model.AvailabilityWindow {
	var result []model.AvailabilityWindow
	for _, w := range windows {
		if w.DayOfWeek == int(weekday) {
			result = append(result, w)
		}
	}
	return result
}

// ComputeSlots строит упорядоченный список слотов на дату.
// Функция чистая: одинаковые входные данные дают одинаковый результат.
// bookings должны относиться к этому репетитору и этой дате, неактивные игнорируются.
func ComputeSlots(
	date time.Time,
	windows []model.AvailabilityWindow,
	bookings []*model.Booking,
	durationMinutes int,
	now time.Time,
) []model.TimeSlot {
	if durationMinutes <= 0 {
		return []model.TimeSlot{}
	}

	dayWindows := WindowsForDay(windows, date.Weekday())
	if len(dayWindows) == 0 {
		return []model.TimeSlot{}
	}

	isToday := model.SameDate(date, now)
	isPastDay := model.DateOf(date).Before(model.DateOf(now))
	nowClock := model.ClockOf(now)

	// Одинаковое время из соседних окон схлопываем, недоступность побеждает
	merged := make(map[model.Clock]bool)
	for _, w := range dayWindows {
		for start := w.StartTime; start.Add(durationMinutes) <= w.EndTime; start = start.Add(SlotStepMinutes) {
			end := start.Add(durationMinutes)

			available := !OverlapsAny(start, end, bookings, uuid.Nil)
			if isPastDay || (isToday && start <= nowClock) {
				available = false
			}

			if prev, seen := merged[start]; seen {
				merged[start] = prev && available
				continue
			}
			merged[start] = available
		}
	}

	slots := make([]model.TimeSlot, 0, len(merged))
	for t, available := range merged {
		slots = append(slots, model.TimeSlot{Time: t, Available: available})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Time < slots[j].Time
	})

	return slots
}

// WithinWindows лежит ли [start, end) внутри хотя бы одного окна дня недели
// и попадает ли start на сетку этого окна
func WithinWindows(windows []model.AvailabilityWindow, weekday time.Weekday, start, end model.Clock) bool {
	for _, w := range WindowsForDay(windows, weekday) {
		if !w.Contains(start, end) {
			continue
		}
		if int(start-w.StartTime)%SlotStepMinutes == 0 {
			return true
		}
	}
	return false
}
