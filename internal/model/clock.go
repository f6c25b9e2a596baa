package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Clock время суток в минутах от полуночи, без часового пояса.
// Допустимый диапазон [0, 1440], 24:00 используется как конец дня.
type Clock int

const (
	MinutesPerDay       = 24 * 60
	dateLayout          = "2006-01-02"
	clockLayout         = "15:04"
	clockLayoutWithSecs = "15:04:05"
)

// NewClock создаёт время суток из часов и минут
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock разбирает "HH:MM" или "HH:MM:SS"
func ParseClock(s string) (Clock, error) {
	if s == "24:00" || s == "24:00:00" {
		return Clock(MinutesPerDay), nil
	}

	layout := clockLayout
	if len(s) == len(clockLayoutWithSecs) {
		layout = clockLayoutWithSecs
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: parse clock %q: %v", ErrInvalidInput, s, err)
	}

	return NewClock(t.Hour(), t.Minute()), nil
}

// ClockOf возвращает время суток момента t в его собственной локации
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// Add сдвигает время на указанное число минут
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Valid проверяет что время лежит в пределах суток
func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("clock must be a string: %w", err)
	}

	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// DateOf отбрасывает время и возвращает календарную дату (полночь UTC)
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse date %q: %v", ErrInvalidInput, s, err)
	}
	return t, nil
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// SameDate сравнивает календарные даты без учёта времени и пояса
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// LessonStart собирает момент начала занятия из даты и времени суток.
// Время наивное локальное: интерпретируется в локации loc как показание часов,
// в дни перевода часов тоже. 24:00 даёт полночь следующего дня.
func LessonStart(date time.Time, clock Clock, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
}
