package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/tutorhub/internal/model"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

const ProviderRazorpay = "razorpay"

type Razorpay struct {
	client        *razorpay.Client
	webhookSecret string
}

func NewRazorpay(keyID, keySecret, webhookSecret string) *Razorpay {
	return &Razorpay{
		client:        razorpay.NewClient(keyID, keySecret),
		webhookSecret: webhookSecret,
	}
}

func (r *Razorpay) Name() string { return ProviderRazorpay }

// CreateOrder создаёт заказ, сумма передаётся в пайсах
func (r *Razorpay) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   minorUnits(req.Amount),
		"currency": currency,
		"receipt":  receipt(req.BookingID),
		"notes": map[string]interface{}{
			"booking_id": req.BookingID.String(),
		},
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("create razorpay order: response without id")
	}

	return &Order{
		Provider: ProviderRazorpay,
		OrderID:  orderID,
		Amount:   req.Amount,
		Currency: currency,
	}, nil
}

func (r *Razorpay) OrderStatus(_ context.Context, orderID string) (model.PaymentStatus, error) {
	body, err := r.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return "", fmt.Errorf("fetch razorpay order: %w", err)
	}

	status, _ := body["status"].(string)
	return razorpayOrderStatus(status), nil
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// ParseNotification разбирает события order.paid, payment.captured и payment.failed
func (r *Razorpay) ParseNotification(body []byte, signature string) (*Notification, error) {
	if r.webhookSecret == "" || !utils.VerifyWebhookSignature(string(body), signature, r.webhookSecret) {
		return nil, ErrInvalidSignature
	}

	var hook razorpayWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("decode razorpay webhook: %w", err)
	}

	n := &Notification{OrderID: hook.Payload.Payment.Entity.OrderID}
	switch hook.Event {
	case "order.paid", "payment.captured":
		n.Status = model.PaymentStatusCompleted
		if n.OrderID == "" {
			n.OrderID = hook.Payload.Order.Entity.ID
		}
	case "payment.failed":
		n.Status = model.PaymentStatusFailed
	default:
		n.Status = model.PaymentStatusPending
	}

	if n.OrderID == "" {
		return nil, fmt.Errorf("razorpay webhook %s: missing order id", hook.Event)
	}

	return n, nil
}

func razorpayOrderStatus(status string) model.PaymentStatus {
	switch status {
	case "paid":
		return model.PaymentStatusCompleted
	default:
		// created, attempted: покупатель ещё может оплатить
		return model.PaymentStatusPending
	}
}
