package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает оплаты или подтверждения
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено, слот занят
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, слот свободен
	BookingStatusCompleted BookingStatus = "completed" // Занятие прошло
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type LessonType string

const (
	LessonTypeTrial   LessonType = "trial"
	LessonTypeRegular LessonType = "regular"
)

// TrialDurationMinutes длительность пробного занятия
const TrialDurationMinutes = 30

// SupportedDurations допустимые длительности обычного занятия
var SupportedDurations = []int{30, 60, 90}

// IsSupportedDuration проверяет длительность с учётом типа занятия
func IsSupportedDuration(lessonType LessonType, minutes int) bool {
	if lessonType == LessonTypeTrial {
		return minutes == TrialDurationMinutes
	}
	for _, d := range SupportedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              uuid.UUID     `json:"id"`
	TutorID         uuid.UUID     `json:"tutor_id"`
	StudentID       uuid.UUID     `json:"student_id"`
	LessonDate      time.Time     `json:"lesson_date"`
	StartTime       Clock         `json:"start_time"`
	EndTime         Clock         `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	LessonType      LessonType    `json:"lesson_type"`
	Price           float64       `json:"price"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentProvider string        `json:"payment_provider,omitempty"`
	PaymentOrderID  string        `json:"payment_order_id,omitempty"`
	RoomURL         string        `json:"room_url,omitempty"`
	HostRoomURL     string        `json:"host_room_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsActive занимает ли бронирование свой интервал
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal из cancelled и completed переходов нет
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// IsParty является ли пользователь репетитором или студентом бронирования
func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.TutorID == userID || b.StudentID == userID
}

// StartsAt момент начала занятия в локации loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return LessonStart(b.LessonDate, b.StartTime, loc)
}

// EndsAt момент окончания занятия в локации loc
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	return LessonStart(b.LessonDate, b.EndTime, loc)
}

// EffectiveStatus статус с учётом прошедшего времени.
// completed вычисляется при чтении и не записывается в базу.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingStatusConfirmed && !now.Before(b.EndsAt(now.Location())) {
		return BookingStatusCompleted
	}
	return b.Status
}

// TutorDay ключ сериализации записи: все изменения расписания репетитора на дату
type TutorDay struct {
	TutorID uuid.UUID
	Date    time.Time
}

// Key строковое представление ключа для блокировок
func (d TutorDay) Key() string {
	return d.TutorID.String() + "/" + FormatDate(d.Date)
}
