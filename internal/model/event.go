package model

import "time"

type BookingEventType string

const (
	BookingEventCreated       BookingEventType = "booking.created"
	BookingEventConfirmed     BookingEventType = "booking.confirmed"
	BookingEventCancelled     BookingEventType = "booking.cancelled"
	BookingEventRescheduled   BookingEventType = "booking.rescheduled"
	BookingEventPaymentFailed BookingEventType = "booking.payment_failed"
	BookingEventRoomReady     BookingEventType = "booking.room_ready"
)

// BookingEvent изменение бронирования после коммита.
// Для переноса PreviousDate и PreviousStart хранят старое время.
type BookingEvent struct {
	Type          BookingEventType `json:"type"`
	Booking       Booking          `json:"booking"`
	PreviousDate  *time.Time       `json:"previous_date,omitempty"`
	PreviousStart *Clock           `json:"previous_start,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
