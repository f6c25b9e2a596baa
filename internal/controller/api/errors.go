package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Сообщения, по которым клиент различает причины отказа
const (
	msgSlotTaken       = "someone else just took that slot"
	msgCutoffExceeded  = "that time is no longer within your modification window"
	msgOutsideSchedule = "that tutor doesn't teach then"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Порядок важен: первое совпадение по errors.Is
var errorMappings = []errorMapping{
	{model.ErrSlotConflict, http.StatusConflict, "slot_conflict", msgSlotTaken},
	{model.ErrCutoffExceeded, http.StatusUnprocessableEntity, "cutoff_exceeded", msgCutoffExceeded},
	{model.ErrInvalidWindow, http.StatusUnprocessableEntity, "invalid_window", msgOutsideSchedule},
	{model.ErrAlreadyReviewed, http.StatusConflict, "already_reviewed", "this lesson has already been reviewed"},
	{model.ErrInvalidTransition, http.StatusConflict, "invalid_transition", "booking cannot be changed in its current state"},
	{model.ErrPaymentFailed, http.StatusPaymentRequired, "payment_failed", "payment was not completed"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden", "access denied"},
	{model.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{payment.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature", "invalid signature"},
	{service.ErrCheckoutRequired, http.StatusPaymentRequired, "checkout_required", "paid lessons are booked through /api/payments/checkout"},
	{service.ErrPaymentsDisabled, http.StatusServiceUnavailable, "payments_disabled", "payments are not available"},
}

// respondError переводит доменную ошибку в HTTP-ответ.
// Неизвестные ошибки не показываются клиенту и попадают в лог запроса.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrInvalidInput) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_input"})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.AbortWithStatusJSON(m.status, errorResponse{Error: m.message, Code: m.code})
			return
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// respondBindError ответ на ошибку разбора или валидации тела запроса
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "invalid_input"})
		return
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:   "validation failed",
		Code:    "invalid_input",
		Details: details,
	})
}
