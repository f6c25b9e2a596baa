package api

import (
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviews  *service.ReviewService
	bookings *service.BookingService
}

func NewReviewHandler(reviews *service.ReviewService, bookings *service.BookingService) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		bookings: bookings,
	}
}

// SubmitReview POST /api/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), bookingID, currentUser(c), req.Rating, req.Comment, h.bookings.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
