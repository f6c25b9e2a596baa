package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tutorID = uuid.MustParse("6f1c2a4e-5d3b-4b7a-9c1e-2f8d7a6b5c4d")
	monday  = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	// "now" задолго до тестовой даты, чтобы правило прошедших слотов не срабатывало
	weekBefore = time.Date(2025, 12, 29, 8, 0, 0, 0, time.UTC)
)

func window(day time.Weekday, start, end string) model.AvailabilityWindow {
	return model.AvailabilityWindow{
		ID:        uuid.New(),
		TutorID:   tutorID,
		DayOfWeek: int(day),
		StartTime: mustClock(start),
		EndTime:   mustClock(end),
	}
}

func booking(start, end string, status model.BookingStatus) *model.Booking {
	s, e := mustClock(start), mustClock(end)
	return &model.Booking{
		ID:              uuid.New(),
		TutorID:         tutorID,
		LessonDate:      monday,
		StartTime:       s,
		EndTime:         e,
		DurationMinutes: int(e - s),
		Status:          status,
	}
}

func mustClock(s string) model.Clock {
	c, err := model.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func times(slots []model.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time.String())
	}
	return out
}

func TestComputeSlots_BasicGeneration(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "11:00")}

	slots := ComputeSlots(monday, windows, nil, 60, weekBefore)

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, times(slots))
	for _, s := range slots {
		assert.True(t, s.Available, "slot %s", s.Time)
	}
}

func TestComputeSlots_ConflictMarking(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "11:00")}
	bookings := []*model.Booking{booking("10:00", "11:00", model.BookingStatusConfirmed)}

	slots := ComputeSlots(monday, windows, bookings, 60, weekBefore)

	require.Len(t, slots, 3)
	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Available)
	assert.False(t, slots[2].Available)
}

func TestComputeSlots_HalfHourOverlap(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "11:00")}
	bookings := []*model.Booking{booking("10:00", "11:00", model.BookingStatusPending)}

	slots := ComputeSlots(monday, windows, bookings, 60, weekBefore)

	// 09:30-10:30 задевает бронирование
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.False(t, slots[2].Available)
}

func TestComputeSlots_CancelledBookingIgnored(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "10:00")}
	bookings := []*model.Booking{booking("09:00", "10:00", model.BookingStatusCancelled)}

	slots := ComputeSlots(monday, windows, bookings, 60, weekBefore)

	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)
}

func TestComputeSlots_NoWindowForWeekday(t *testing.T) {
	windows := []model.AvailabilityWindow{
		window(time.Tuesday, "09:00", "18:00"),
		window(time.Sunday, "09:00", "18:00"),
	}

	slots := ComputeSlots(monday, windows, nil, 30, weekBefore)

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestComputeSlots_WindowShorterThanDuration(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "10:00")}

	assert.Empty(t, ComputeSlots(monday, windows, nil, 90, weekBefore))
}

func TestComputeSlots_NinetyMinutesOnHalfHourGrid(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "12:00")}

	slots := ComputeSlots(monday, windows, nil, 90, weekBefore)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times(slots))
}

func TestComputeSlots_AdjacentWindowsDeduplicate(t *testing.T) {
	windows := []model.AvailabilityWindow{
		window(time.Monday, "10:00", "11:00"),
		window(time.Monday, "09:00", "10:30"),
	}
	bookings := []*model.Booking{booking("10:30", "11:00", model.BookingStatusConfirmed)}

	slots := ComputeSlots(monday, windows, bookings, 30, weekBefore)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times(slots))
	// 10:30 даёт только первое окно и он пересекается с бронированием
	assert.False(t, slots[3].Available)
	assert.True(t, slots[2].Available)
}

func TestComputeSlots_OverlappingWindowsYieldSingleSlot(t *testing.T) {
	windows := []model.AvailabilityWindow{
		window(time.Monday, "09:00", "10:00"),
		window(time.Monday, "09:00", "11:00"),
	}
	bookings := []*model.Booking{booking("10:00", "10:30", model.BookingStatusConfirmed)}

	slots := ComputeSlots(monday, windows, bookings, 60, weekBefore)

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, times(slots))
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.False(t, slots[2].Available)
}

func TestComputeSlots_PastSlotsToday(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "12:00")}
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	slots := ComputeSlots(monday, windows, nil, 30, now)

	require.Len(t, slots, 6)
	for _, s := range slots {
		if s.Time <= model.NewClock(10, 0) {
			assert.False(t, s.Available, "slot %s must be in the past", s.Time)
		} else {
			assert.True(t, s.Available, "slot %s must be open", s.Time)
		}
	}
}

func TestComputeSlots_PastDateFullyUnavailable(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "10:00")}
	now := time.Date(2026, 1, 6, 7, 0, 0, 0, time.UTC)

	slots := ComputeSlots(monday, windows, nil, 30, now)

	require.Len(t, slots, 2)
	assert.False(t, slots[0].Available)
	assert.False(t, slots[1].Available)
}

func TestComputeSlots_Idempotent(t *testing.T) {
	windows := []model.AvailabilityWindow{
		window(time.Monday, "08:00", "12:00"),
		window(time.Monday, "14:00", "18:30"),
	}
	bookings := []*model.Booking{
		booking("09:00", "10:00", model.BookingStatusConfirmed),
		booking("15:30", "16:00", model.BookingStatusPending),
	}

	first := ComputeSlots(monday, windows, bookings, 60, weekBefore)
	second := ComputeSlots(monday, windows, bookings, 60, weekBefore)

	assert.Equal(t, first, second)
}

func TestComputeSlots_MarkingMatchesOverlaps(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	windows := []model.AvailabilityWindow{window(time.Monday, "06:00", "22:00")}
	durations := []int{30, 60, 90}
	statuses := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
	}

	for iter := 0; iter < 200; iter++ {
		var bookings []*model.Booking
		n := rnd.Intn(6)
		for i := 0; i < n; i++ {
			start := model.NewClock(6, 0).Add(rnd.Intn(32) * 30)
			length := durations[rnd.Intn(len(durations))]
			b := booking(start.String(), start.Add(length).String(), statuses[rnd.Intn(len(statuses))])
			bookings = append(bookings, b)
		}
		duration := durations[rnd.Intn(len(durations))]

		for _, slot := range ComputeSlots(monday, windows, bookings, duration, weekBefore) {
			end := slot.Time.Add(duration)
			conflict := false
			for _, b := range bookings {
				if b.IsActive() && Overlaps(slot.Time, end, b.StartTime, b.EndTime) {
					conflict = true
				}
			}
			require.Equal(t, !conflict, slot.Available, "iter %d slot %s duration %d", iter, slot.Time, duration)
		}
	}
}

func TestComputeSlots_NonPositiveDuration(t *testing.T) {
	windows := []model.AvailabilityWindow{window(time.Monday, "09:00", "11:00")}

	assert.Empty(t, ComputeSlots(monday, windows, nil, 0, weekBefore))
}

func TestWithinWindows(t *testing.T) {
	windows := []model.AvailabilityWindow{
		window(time.Monday, "09:00", "11:00"),
		window(time.Monday, "13:15", "15:15"),
	}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"inside", "09:30", "10:30", true},
		{"ends at window end", "10:00", "11:00", true},
		{"exceeds window", "10:30", "11:30", false},
		{"gap between windows", "11:00", "12:00", false},
		{"off grid", "09:15", "09:45", false},
		{"grid of second window", "13:45", "14:45", true},
		{"before window", "08:30", "09:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinWindows(windows, time.Monday, mustClock(tt.start), mustClock(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, WithinWindows(windows, time.Tuesday, mustClock("09:00"), mustClock("10:00")))
}
