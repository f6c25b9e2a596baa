package api

import (
	"io"
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxWebhookBody предел тела вебхука
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	payments *service.PaymentService
	bookings *BookingHandler
}

func NewPaymentHandler(payments *service.PaymentService, bookings *BookingHandler) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		bookings: bookings,
	}
}

type checkoutResponse struct {
	Booking bookingView    `json:"booking"`
	Order   *payment.Order `json:"order"`
}

// Checkout POST /api/payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tutorID, date, start, err := req.lesson()
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.payments.StartCheckout(c.Request.Context(), service.CheckoutInput{
		TutorID:         tutorID,
		StudentID:       currentUser(c),
		Date:            date,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		LessonType:      model.LessonType(req.LessonType),
		Currency:        req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		Booking: h.bookings.view(res.Booking),
		Order:   res.Order,
	})
}

// Capture POST /api/payments/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.payments.Capture(c.Request.Context(), bookingID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.bookings.view(booking))
}

// Webhook POST /api/webhooks/<provider>. signatureHeader пустой, если подпись лежит в теле.
func (h *PaymentHandler) Webhook(provider, signatureHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.payments.ProviderName() != provider {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "not found", Code: "not_found"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "invalid_input"})
			return
		}

		var signature string
		if signatureHeader != "" {
			signature = c.GetHeader(signatureHeader)
		}

		if err := h.payments.HandleNotification(c.Request.Context(), body, signature); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
