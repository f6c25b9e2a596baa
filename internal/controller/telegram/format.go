package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
)

type statusDisplay struct {
	Emoji string
	Text  string
}

// bookingStatusDisplay emoji и текст для статуса бронирования
func bookingStatusDisplay(status model.BookingStatus) statusDisplay {
	displays := map[model.BookingStatus]statusDisplay{
		model.BookingStatusPending:   {"⏳", "Ожидает оплаты"},
		model.BookingStatusConfirmed: {"✅", "Подтверждена"},
		model.BookingStatusCompleted: {"✔️", "Завершена"},
		model.BookingStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return statusDisplay{"❓", "Неизвестно"}
}

// formatDate дата с днём недели: 09.03.2026 (Пн)
func formatDate(date time.Time) string {
	return fmt.Sprintf("%s (%s)", date.Format("02.01.2006"), weekdayShortName(date.Weekday()))
}

func weekdayShortName(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if int(weekday) >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}

// formatDuration длительность в минутах: 30 мин, 1 ч, 1 ч 30 мин
func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// formatPrice цена без дробной части, если она нулевая
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func formatLesson(b *model.Booking) string {
	return fmt.Sprintf("%s %s-%s (%s)", formatDate(b.LessonDate), b.StartTime, b.EndTime, formatDuration(b.DurationMinutes))
}

func lessonTypeName(t model.LessonType) string {
	if t == model.LessonTypeTrial {
		return "пробное"
	}
	return "обычное"
}

// formatEvent текст уведомления репетитору. Пустая строка - событие не отправляется.
func formatEvent(e model.BookingEvent) string {
	b := &e.Booking
	status := bookingStatusDisplay(b.Status)

	var sb strings.Builder
	switch e.Type {
	case model.BookingEventCreated:
		sb.WriteString("📅 Новая запись на занятие\n\n")
	case model.BookingEventConfirmed:
		sb.WriteString("💳 Занятие оплачено\n\n")
	case model.BookingEventCancelled:
		sb.WriteString("❌ Занятие отменено\n\n")
	case model.BookingEventRescheduled:
		sb.WriteString("🔁 Занятие перенесено\n\n")
		if e.PreviousDate != nil && e.PreviousStart != nil {
			fmt.Fprintf(&sb, "Было: %s %s\n", formatDate(*e.PreviousDate), *e.PreviousStart)
		}
	case model.BookingEventRoomReady:
		if b.HostRoomURL == "" {
			return ""
		}
		fmt.Fprintf(&sb, "🎥 Комната для занятия %s готова\n\n%s", formatLesson(b), b.HostRoomURL)
		return sb.String()
	default:
		return ""
	}

	fmt.Fprintf(&sb, "🗓 %s\n", formatLesson(b))
	fmt.Fprintf(&sb, "📚 Тип: %s\n", lessonTypeName(b.LessonType))
	fmt.Fprintf(&sb, "💰 Стоимость: %s\n", formatPrice(b.Price))
	fmt.Fprintf(&sb, "📊 Статус: %s %s", status.Emoji, status.Text)

	return sb.String()
}
