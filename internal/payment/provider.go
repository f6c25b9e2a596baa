package payment

import (
	"context"
	"errors"
	"math"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// OrderRequest заказ на оплату одного занятия
type OrderRequest struct {
	BookingID uuid.UUID
	Amount    float64
	Currency  string
}

// Order ответ провайдера. Клиенту достаточно OrderID или Token/RedirectURL, чтобы открыть оплату.
type Order struct {
	Provider    string  `json:"provider"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Token       string  `json:"token,omitempty"`
	RedirectURL string  `json:"redirect_url,omitempty"`
}

// Notification проверенное уведомление провайдера о статусе заказа
type Notification struct {
	OrderID string
	Status  model.PaymentStatus
}

// Provider внешний сервис приёма оплаты
type Provider interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// OrderStatus pending, если оплата ещё не завершена
	OrderStatus(ctx context.Context, orderID string) (model.PaymentStatus, error)
	// ParseNotification проверяет подпись и разбирает тело вебхука
	ParseNotification(body []byte, signature string) (*Notification, error)
}

// minorUnits сумма в копейках/пайсах
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// wholeUnits сумма в валюте без дробных единиц (IDR), округление как у minorUnits
func wholeUnits(amount float64) int64 {
	return int64(math.Round(amount))
}

// receipt номер заказа в системе провайдера, по нему бронирование находится в вебхуке
func receipt(bookingID uuid.UUID) string {
	return "booking-" + bookingID.String()
}
