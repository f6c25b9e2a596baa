package api

import (
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TutorHandler struct {
	tutors  *service.TutorService
	reviews *service.ReviewService
}

func NewTutorHandler(tutors *service.TutorService, reviews *service.ReviewService) *TutorHandler {
	return &TutorHandler{
		tutors:  tutors,
		reviews: reviews,
	}
}

// GetTutor GET /api/tutors/:id
func (h *TutorHandler) GetTutor(c *gin.Context) {
	tutorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	tutor, err := h.tutors.GetTutor(c.Request.Context(), tutorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tutor)
}

// SaveProfile PUT /api/tutors/me
func (h *TutorHandler) SaveProfile(c *gin.Context) {
	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tutor, err := h.tutors.SaveProfile(c.Request.Context(), &model.Tutor{
		ID:             currentUser(c),
		Name:           req.Name,
		Bio:            req.Bio,
		Languages:      req.Languages,
		HourlyRate:     req.HourlyRate,
		TrialRate:      req.TrialRate,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tutor)
}

// ListReviews GET /api/tutors/:id/reviews
func (h *TutorHandler) ListReviews(c *gin.Context) {
	tutorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListTutorReviews(c.Request.Context(), tutorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// pathUUID читает uuid из пути, при ошибке отвечает 400
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid " + name, Code: "invalid_input"})
		return uuid.Nil, false
	}
	return id, true
}
