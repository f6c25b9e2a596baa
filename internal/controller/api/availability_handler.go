package api

import (
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
}

func NewAvailabilityHandler(availability *service.AvailabilityService, bookings *service.BookingService) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		bookings:     bookings,
	}
}

// ListWindows GET /api/tutors/:id/availability
func (h *AvailabilityHandler) ListWindows(c *gin.Context) {
	tutorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	windows, err := h.availability.ListWindows(c.Request.Context(), tutorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, windows)
}

// Slots GET /api/tutors/:id/slots?date=YYYY-MM-DD&duration=60
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	tutorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var q slotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	date, err := model.ParseDate(q.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	slots, err := h.availability.ComputeSlots(c.Request.Context(), tutorID, date, q.Duration, h.bookings.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, slotsResponse{
		TutorID:         tutorID,
		Date:            q.Date,
		DurationMinutes: q.Duration,
		Slots:           slots,
	})
}

// AddWindow POST /api/availability
func (h *AvailabilityHandler) AddWindow(c *gin.Context) {
	var req addWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}

	w, err := h.availability.AddWindow(c.Request.Context(), currentUser(c), *req.DayOfWeek, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, w)
}

// DeleteWindow DELETE /api/availability/:id
func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	windowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.availability.DeleteWindow(c.Request.Context(), currentUser(c), windowID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
