package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

const ProviderMidtrans = "midtrans"

type Midtrans struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	m := &Midtrans{serverKey: serverKey}
	m.snap.New(serverKey, env)
	m.core.New(serverKey, env)
	return m
}

func (m *Midtrans) Name() string { return ProviderMidtrans }

// CreateOrder открывает Snap транзакцию, номер заказа строится из ID бронирования
func (m *Midtrans) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	orderID := receipt(req.BookingID)
	gross := wholeUnits(req.Amount)
	currency := req.Currency
	if currency == "" {
		currency = "IDR"
	}

	resp, mErr := m.snap.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.BookingID.String(),
			Name:  "Lesson",
			Price: gross,
			Qty:   1,
		}},
	})
	if mErr != nil {
		return nil, fmt.Errorf("create midtrans transaction: %s", mErr.GetMessage())
	}

	return &Order{
		Provider:    ProviderMidtrans,
		OrderID:     orderID,
		Amount:      float64(gross),
		Currency:    currency,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (m *Midtrans) OrderStatus(_ context.Context, orderID string) (model.PaymentStatus, error) {
	resp, mErr := m.core.CheckTransaction(orderID)
	if mErr != nil {
		return "", fmt.Errorf("check midtrans transaction: %s", mErr.GetMessage())
	}

	return midtransStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// ParseNotification подпись лежит в теле: SHA512(order_id + status_code + gross_amount + server_key)
func (m *Midtrans) ParseNotification(body []byte, _ string) (*Notification, error) {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decode midtrans notification: %w", err)
	}

	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + m.serverKey))
	if n.SignatureKey == "" || strings.ToLower(n.SignatureKey) != hex.EncodeToString(sum[:]) {
		return nil, ErrInvalidSignature
	}

	return &Notification{
		OrderID: n.OrderID,
		Status:  midtransStatus(n.TransactionStatus, n.FraudStatus),
	}, nil
}

func midtransStatus(transactionStatus, fraudStatus string) model.PaymentStatus {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return model.PaymentStatusCompleted
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "accept", "":
			return model.PaymentStatusCompleted
		case "challenge":
			return model.PaymentStatusPending
		}
		return model.PaymentStatusFailed
	case "deny", "cancel", "expire", "failure":
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}
