package schedule

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/stretchr/testify/assert"
)

func bookingAt(start time.Time, status model.BookingStatus) *model.Booking {
	clock := model.ClockOf(start)
	return &model.Booking{
		LessonDate:      model.DateOf(start),
		StartTime:       clock,
		EndTime:         clock.Add(60),
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestCanModify(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  time.Time
		status model.BookingStatus
		want   bool
	}{
		{"confirmed in 10h", now.Add(10 * time.Hour), model.BookingStatusConfirmed, false},
		{"confirmed in 13h", now.Add(13 * time.Hour), model.BookingStatusConfirmed, true},
		{"confirmed exactly 12h", now.Add(12 * time.Hour), model.BookingStatusConfirmed, true},
		{"confirmed tomorrow across midnight", now.Add(20 * time.Hour), model.BookingStatusConfirmed, true},
		{"pending in 1h", now.Add(time.Hour), model.BookingStatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(bookingAt(tt.start, tt.status), now))
		})
	}
}

func TestHoursRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, 13, HoursRemaining(bookingAt(now.Add(13*time.Hour+30*time.Minute), model.BookingStatusConfirmed), now))
	assert.Equal(t, 0, HoursRemaining(bookingAt(now.Add(30*time.Minute), model.BookingStatusConfirmed), now))
}
