package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `
	id, tutor_id, student_id, lesson_date, start_time, end_time, duration_minutes,
	lesson_type, price, status, payment_status, payment_provider, payment_order_id,
	room_url, host_room_url, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(b *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: b}
}

// InsertBooking создаёт новое бронирование.
// Пересечение с активным бронированием отклоняется ограничением EXCLUDE и возвращается как ErrSlotConflict.
func (r *BookingRepository) InsertBooking(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (tutor_id, student_id, lesson_date, start_time, end_time, duration_minutes,
			lesson_type, price, status, payment_status, payment_provider, payment_order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.TutorID,
		booking.StudentID,
		booking.LessonDate,
		clockParam(booking.StartTime),
		clockParam(booking.EndTime),
		booking.DurationMinutes,
		booking.LessonType,
		booking.Price,
		booking.Status,
		booking.PaymentStatus,
		booking.PaymentProvider,
		booking.PaymentOrderID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert booking: %w", base.MapError(err))
	}

	return nil
}

// GetBooking получает бронирование по ID
func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", base.MapError(err))
	}

	return booking, nil
}

// ListActiveBookings активные бронирования репетитора на дату
func (r *BookingRepository) ListActiveBookings(ctx context.Context, tutorID uuid.UUID, date time.Time) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1 AND lesson_date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_time
	`

	return r.list(ctx, "list active bookings", query, tutorID, date)
}

// ListStudentBookings все бронирования студента, ближайшие сверху
func (r *BookingRepository) ListStudentBookings(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY lesson_date DESC, start_time DESC
	`

	return r.list(ctx, "list student bookings", query, studentID)
}

// ListTutorBookings все бронирования репетитора
func (r *BookingRepository) ListTutorBookings(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1
		ORDER BY lesson_date DESC, start_time DESC
	`

	return r.list(ctx, "list tutor bookings", query, tutorID)
}

// ListBookingsWithoutRoom подтверждённые занятия в диапазоне дат, для которых ещё нет комнаты
func (r *BookingRepository) ListBookingsWithoutRoom(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed' AND room_url = ''
		  AND lesson_date >= $1 AND lesson_date <= $2
		ORDER BY lesson_date, start_time
	`

	return r.list(ctx, "list bookings without room", query, from, to)
}

// UpdateBookingStatus обновляет статус бронирования
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`

	return r.execOne(ctx, "update booking status", query, status, id)
}

// UpdatePaymentStatus обновляет статус оплаты
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2`

	return r.execOne(ctx, "update payment status", query, status, id)
}

// UpdateBookingSchedule переносит бронирование на новые дату и время
func (r *BookingRepository) UpdateBookingSchedule(ctx context.Context, id uuid.UUID, date time.Time, start, end model.Clock) error {
	query := `
		UPDATE bookings
		SET lesson_date = $1, start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $4
	`

	return r.execOne(ctx, "update booking schedule", query, date, clockParam(start), clockParam(end), id)
}

// UpdateBookingRoom сохраняет ссылки на видеокомнату
func (r *BookingRepository) UpdateBookingRoom(ctx context.Context, id uuid.UUID, roomURL, hostRoomURL string) error {
	query := `UPDATE bookings SET room_url = $1, host_room_url = $2, updated_at = NOW() WHERE id = $3`

	return r.execOne(ctx, "update booking room", query, roomURL, hostRoomURL, id)
}

// UpdateBookingPaymentOrder сохраняет провайдера и номер заказа оплаты
func (r *BookingRepository) UpdateBookingPaymentOrder(ctx context.Context, id uuid.UUID, provider, orderID string) error {
	query := `
		UPDATE bookings
		SET payment_provider = $1, payment_order_id = $2, updated_at = NOW()
		WHERE id = $3
	`

	return r.execOne(ctx, "update booking payment order", query, provider, orderID, id)
}

// GetBookingByPaymentOrder ищет бронирование по номеру заказа у провайдера
func (r *BookingRepository) GetBookingByPaymentOrder(ctx context.Context, orderID string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_order_id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, fmt.Errorf("get booking by payment order: %w", base.MapError(err))
	}

	return booking, nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (r *BookingRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	affected, err := r.ExecAffected(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, base.MapError(err))
	}

	if affected == 0 {
		return fmt.Errorf("%s: booking %w", op, model.ErrNotFound)
	}

	return nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		booking    model.Booking
		start, end pgtype.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.TutorID,
		&booking.StudentID,
		&booking.LessonDate,
		&start,
		&end,
		&booking.DurationMinutes,
		&booking.LessonType,
		&booking.Price,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentProvider,
		&booking.PaymentOrderID,
		&booking.RoomURL,
		&booking.HostRoomURL,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.LessonDate = model.DateOf(booking.LessonDate)
	booking.StartTime = clockFromPg(start)
	booking.EndTime = clockFromPg(end)

	return &booking, nil
}
