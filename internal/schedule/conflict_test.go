package schedule

import (
	"math/rand"
	"testing"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		a, b   [2]string
		expect bool
	}{
		{"identical", [2]string{"10:00", "11:00"}, [2]string{"10:00", "11:00"}, true},
		{"partial", [2]string{"14:00", "15:00"}, [2]string{"14:30", "15:30"}, true},
		{"contained", [2]string{"09:00", "12:00"}, [2]string{"10:00", "10:30"}, true},
		{"touching end", [2]string{"09:00", "10:00"}, [2]string{"10:00", "11:00"}, false},
		{"disjoint", [2]string{"09:00", "10:00"}, [2]string{"11:00", "12:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(mustClock(tt.a[0]), mustClock(tt.a[1]), mustClock(tt.b[0]), mustClock(tt.b[1]))
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		a := model.Clock(rnd.Intn(model.MinutesPerDay))
		b := a.Add(1 + rnd.Intn(180))
		c := model.Clock(rnd.Intn(model.MinutesPerDay))
		d := c.Add(1 + rnd.Intn(180))

		assert.Equal(t, Overlaps(a, b, c, d), Overlaps(c, d, a, b), "[%s,%s) vs [%s,%s)", a, b, c, d)
	}
}

func TestOverlapsAny_SkipsInactiveAndExcluded(t *testing.T) {
	moving := booking("09:00", "10:00", model.BookingStatusConfirmed)
	bookings := []*model.Booking{
		moving,
		booking("11:00", "12:00", model.BookingStatusCancelled),
		booking("13:00", "14:00", model.BookingStatusCompleted),
	}

	assert.True(t, OverlapsAny(mustClock("09:30"), mustClock("10:30"), bookings, uuid.Nil))
	assert.False(t, OverlapsAny(mustClock("09:30"), mustClock("10:30"), bookings, moving.ID))
	assert.False(t, OverlapsAny(mustClock("11:00"), mustClock("12:00"), bookings, uuid.Nil))
	assert.False(t, OverlapsAny(mustClock("13:00"), mustClock("14:00"), bookings, uuid.Nil))
}
