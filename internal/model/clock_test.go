package model

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want Clock
	}{
		{"09:30", NewClock(9, 30)},
		{"09:30:00", NewClock(9, 30)},
		{"00:00", 0},
		{"24:00", Clock(MinutesPerDay)},
		{"23:59:59", NewClock(23, 59)},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseClock("9.30")
	assert.Error(t, err)
}

func TestClockJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		At Clock `json:"at"`
	}{At: NewClock(14, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"14:05"}`, string(data))

	var decoded struct {
		At Clock `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"07:30"}`), &decoded))
	assert.Equal(t, NewClock(7, 30), decoded.At)

	assert.Error(t, json.Unmarshal([]byte(`{"at":730}`), &decoded))
}

func TestLessonStart(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	got := LessonStart(date, NewClock(14, 30), loc)

	assert.Equal(t, time.Date(2026, 5, 4, 14, 30, 0, 0, loc), got)
}

func TestLessonStart_DaylightSavingChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name string
		date time.Time
	}{
		{"spring forward", time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)},
		{"fall back", time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LessonStart(tt.date, NewClock(14, 0), berlin)

			assert.Equal(t, 14, got.Hour())
			assert.Equal(t, 0, got.Minute())
			assert.Equal(t, tt.date.Day(), got.Day())
		})
	}
}

func TestLessonStart_EndOfDay(t *testing.T) {
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	got := LessonStart(date, NewClock(24, 0), time.UTC)

	assert.Equal(t, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestAvailabilityWindowValidate(t *testing.T) {
	valid := AvailabilityWindow{DayOfWeek: 1, StartTime: NewClock(9, 0), EndTime: NewClock(11, 0)}
	assert.NoError(t, valid.Validate())

	reversed := valid
	reversed.StartTime, reversed.EndTime = valid.EndTime, valid.StartTime
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidInput)

	badDay := valid
	badDay.DayOfWeek = 7
	assert.ErrorIs(t, badDay.Validate(), ErrInvalidInput)
}

func TestBookingEffectiveStatus(t *testing.T) {
	b := &Booking{
		LessonDate: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		StartTime:  NewClock(10, 0),
		EndTime:    NewClock(11, 0),
		Status:     BookingStatusConfirmed,
	}

	assert.Equal(t, BookingStatusConfirmed, b.EffectiveStatus(time.Date(2026, 5, 4, 10, 59, 0, 0, time.UTC)))
	assert.Equal(t, BookingStatusCompleted, b.EffectiveStatus(time.Date(2026, 5, 4, 11, 0, 0, 0, time.UTC)))

	b.Status = BookingStatusPending
	assert.Equal(t, BookingStatusPending, b.EffectiveStatus(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsSupportedDuration(t *testing.T) {
	assert.True(t, IsSupportedDuration(LessonTypeTrial, 30))
	assert.False(t, IsSupportedDuration(LessonTypeTrial, 60))
	assert.True(t, IsSupportedDuration(LessonTypeRegular, 90))
	assert.False(t, IsSupportedDuration(LessonTypeRegular, 45))
}
