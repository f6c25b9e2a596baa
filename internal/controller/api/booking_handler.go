package api

import (
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/schedule"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookings *service.BookingService
	tutors   *service.TutorService
	payments *service.PaymentService
}

func NewBookingHandler(bookings *service.BookingService, tutors *service.TutorService, payments *service.PaymentService) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		tutors:   tutors,
		payments: payments,
	}
}

// CreateBooking POST /api/bookings
// Сценарий без оплаты: цена считается по ставкам репетитора, бронирование сразу подтверждено.
// Если оплата подключена, платное занятие отклоняется и бронируется через /api/payments/checkout.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tutorID, date, start, err := req.lesson()
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()

	tutor, err := h.tutors.GetTutor(ctx, tutorID)
	if err != nil {
		respondError(c, err)
		return
	}

	lessonType := model.LessonType(req.LessonType)
	price, err := schedule.Price(tutor, lessonType, req.DurationMinutes)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.payments.RequiresCheckout(price) {
		respondError(c, service.ErrCheckoutRequired)
		return
	}

	booking, err := h.bookings.CreateBooking(ctx, service.CreateBookingInput{
		TutorID:         tutorID,
		StudentID:       currentUser(c),
		Date:            date,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		LessonType:      lessonType,
		Price:           price,
		Flow:            service.FlowFree,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.view(booking))
}

// GetBooking GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), bookingID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(booking))
}

// MyBookings GET /api/bookings/me
func (h *BookingHandler) MyBookings(c *gin.Context) {
	bookings, err := h.bookings.ListStudentBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.views(bookings))
}

// TutorBookings GET /api/tutor/bookings
func (h *BookingHandler) TutorBookings(c *gin.Context) {
	bookings, err := h.bookings.ListTutorBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.views(bookings))
}

// ConfirmBooking POST /api/bookings/:id/confirm
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.ConfirmBooking(c.Request.Context(), bookingID, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(booking))
}

// CancelBooking POST /api/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), bookingID, currentUser(c), h.bookings.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(booking))
}

// RescheduleBooking POST /api/bookings/:id/reschedule
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	date, start, err := parseSchedule(req.Date, req.StartTime)
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookings.RescheduleBooking(c.Request.Context(), bookingID, currentUser(c), date, start, h.bookings.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(booking))
}

func (h *BookingHandler) view(b *model.Booking) bookingView {
	canModify, hours := h.bookings.ModificationWindow(b, h.bookings.Now())
	return bookingView{
		Booking:        b,
		CanModify:      canModify,
		HoursRemaining: hours,
	}
}

func (h *BookingHandler) views(bookings []*model.Booking) []bookingView {
	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, h.view(b))
	}
	return out
}
