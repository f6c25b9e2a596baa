package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPaymentsDisabled = errors.New("payments are not configured")
	ErrCheckoutRequired = errors.New("paid lesson requires checkout")
)

type CheckoutInput struct {
	TutorID         uuid.UUID
	StudentID       uuid.UUID
	Date            time.Time
	StartTime       model.Clock
	DurationMinutes int
	LessonType      model.LessonType
	Currency        string
}

type CheckoutResult struct {
	Booking *model.Booking `json:"booking"`
	Order   *payment.Order `json:"order"`
}

// PaymentService платный сценарий: pending бронирование, заказ у провайдера, подтверждение оплаты
type PaymentService struct {
	bookings *BookingService
	tutors   TutorStore
	provider payment.Provider
	logger   *zap.Logger
}

// NewPaymentService provider может быть nil, тогда платный сценарий выключен
func NewPaymentService(bookings *BookingService, tutors TutorStore, provider payment.Provider, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		tutors:   tutors,
		provider: provider,
		logger:   logger,
	}
}

func (s *PaymentService) Enabled() bool {
	return s.provider != nil
}

// ProviderName имя подключённого провайдера, пустое если оплата выключена
func (s *PaymentService) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// RequiresCheckout платное занятие при подключённой оплате бронируется только через StartCheckout
func (s *PaymentService) RequiresCheckout(price float64) bool {
	return s.provider != nil && price > 0
}

// StartCheckout создаёт pending бронирование по цене репетитора и заказ у провайдера.
// Если провайдер не ответил, бронирование отменяется и слот освобождается.
func (s *PaymentService) StartCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if s.provider == nil {
		return nil, ErrPaymentsDisabled
	}

	tutor, err := s.tutors.GetTutor(ctx, in.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	price, err := schedule.Price(tutor, in.LessonType, in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.CreateBooking(ctx, CreateBookingInput{
		TutorID:         in.TutorID,
		StudentID:       in.StudentID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		LessonType:      in.LessonType,
		Price:           price,
		Flow:            FlowPaid,
	})
	if err != nil {
		return nil, err
	}

	order, err := s.provider.CreateOrder(ctx, payment.OrderRequest{
		BookingID: booking.ID,
		Amount:    price,
		Currency:  in.Currency,
	})
	if err != nil {
		s.abandon(ctx, booking, err)
		return nil, fmt.Errorf("create payment order: %w", err)
	}

	if err := s.bookings.AttachPaymentOrder(ctx, booking.ID, s.provider.Name(), order.OrderID); err != nil {
		s.abandon(ctx, booking, err)
		return nil, err
	}

	booking.PaymentProvider = s.provider.Name()
	booking.PaymentOrderID = order.OrderID

	s.logger.Info("Checkout started",
		zap.String("booking_id", booking.ID.String()),
		zap.String("provider", s.provider.Name()),
		zap.String("order_id", order.OrderID),
		zap.Float64("amount", price),
	)

	return &CheckoutResult{Booking: booking, Order: order}, nil
}

func (s *PaymentService) abandon(ctx context.Context, booking *model.Booking, cause error) {
	s.logger.Warn("Abandoning pending booking",
		zap.String("booking_id", booking.ID.String()),
		zap.Error(cause),
	)

	if _, err := s.bookings.CancelBooking(ctx, booking.ID, booking.StudentID, s.bookings.Now()); err != nil {
		s.logger.Error("Failed to cancel abandoned booking",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}
}

// Capture спрашивает у провайдера статус заказа и применяет результат.
// Пока оплата не завершена, бронирование не меняется.
func (s *PaymentService) Capture(ctx context.Context, bookingID, studentID uuid.UUID) (*model.Booking, error) {
	if s.provider == nil {
		return nil, ErrPaymentsDisabled
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID, studentID)
	if err != nil {
		return nil, err
	}

	if booking.StudentID != studentID {
		return nil, fmt.Errorf("capture payment: %w", model.ErrForbidden)
	}

	if booking.PaymentOrderID == "" {
		return nil, fmt.Errorf("capture payment: %w: booking has no payment order", model.ErrInvalidTransition)
	}

	status, err := s.provider.OrderStatus(ctx, booking.PaymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	if status == model.PaymentStatusPending {
		return nil, fmt.Errorf("capture payment: %w: payment is still pending", model.ErrPaymentFailed)
	}

	return s.bookings.ApplyPaymentResult(ctx, bookingID, status)
}

// HandleNotification обрабатывает вебхук провайдера.
// Отказ в оплате и повторные уведомления не считаются ошибкой, чтобы провайдер не повторял запрос.
func (s *PaymentService) HandleNotification(ctx context.Context, body []byte, signature string) error {
	if s.provider == nil {
		return ErrPaymentsDisabled
	}

	n, err := s.provider.ParseNotification(body, signature)
	if err != nil {
		return err
	}

	if n.Status == model.PaymentStatusPending {
		return nil
	}

	booking, err := s.bookings.FindByPaymentOrder(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Payment notification for unknown order", zap.String("order_id", n.OrderID))
			return nil
		}
		return err
	}

	_, err = s.bookings.ApplyPaymentResult(ctx, booking.ID, n.Status)
	switch {
	case err == nil, errors.Is(err, model.ErrPaymentFailed):
		return nil
	case errors.Is(err, model.ErrInvalidTransition):
		s.logger.Warn("Payment notification for closed booking",
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return nil
	default:
		return err
	}
}
