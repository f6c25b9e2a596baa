package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService struct {
	store  ReviewStore
	logger *zap.Logger
}

func NewReviewService(store ReviewStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:  store,
		logger: logger,
	}
}

// SubmitReview отзыв студента о прошедшем оплаченном занятии, один на бронирование.
// Рейтинг репетитора пересчитывается в той же транзакции.
func (s *ReviewService) SubmitReview(ctx context.Context, bookingID, studentID uuid.UUID, rating int, comment string, now time.Time) (*model.Review, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, fmt.Errorf("%w: rating must be within %d..%d", model.ErrInvalidInput, model.MinRating, model.MaxRating)
	}

	var review *model.Review
	err := s.store.InTx(ctx, nil, func(ctx context.Context) error {
		b, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		if b.StudentID != studentID {
			return fmt.Errorf("%w: only the student may review", model.ErrForbidden)
		}

		if b.Status != model.BookingStatusConfirmed || b.PaymentStatus != model.PaymentStatusCompleted {
			return fmt.Errorf("%w: booking is %s/%s", model.ErrInvalidTransition, b.Status, b.PaymentStatus)
		}

		if now.Before(b.EndsAt(now.Location())) {
			return fmt.Errorf("%w: lesson has not finished yet", model.ErrInvalidTransition)
		}

		if _, err := s.store.GetReviewByBooking(ctx, bookingID); err == nil {
			return model.ErrAlreadyReviewed
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		review = &model.Review{
			BookingID: b.ID,
			TutorID:   b.TutorID,
			StudentID: studentID,
			Rating:    rating,
			Comment:   strings.TrimSpace(comment),
		}
		if err := s.store.InsertReview(ctx, review); err != nil {
			return err
		}

		avg, err := s.store.AverageTutorRating(ctx, b.TutorID)
		if err != nil {
			return err
		}

		return s.store.UpdateTutorRating(ctx, b.TutorID, math.Round(avg*100)/100)
	})
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	s.logger.Info("Review submitted",
		zap.String("booking_id", bookingID.String()),
		zap.String("tutor_id", review.TutorID.String()),
		zap.Int("rating", rating),
	)

	return review, nil
}

func (s *ReviewService) ListTutorReviews(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	reviews, err := s.store.ListTutorReviews(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list tutor reviews: %w", err)
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return reviews, nil
}
