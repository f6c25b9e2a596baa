package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/repository/base"
	"github.com/google/uuid"
)

type ReviewRepository struct {
	*base.Repository
}

func NewReviewRepository(b *base.Repository) *ReviewRepository {
	return &ReviewRepository{Repository: b}
}

// InsertReview сохраняет отзыв. Второй отзыв на то же бронирование отклоняется уникальным индексом.
func (r *ReviewRepository) InsertReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (booking_id, tutor_id, student_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		review.BookingID,
		review.TutorID,
		review.StudentID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert review: %w", base.MapError(err))
	}

	return nil
}

// GetReviewByBooking отзыв на бронирование, ErrNotFound если его нет
func (r *ReviewRepository) GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, booking_id, tutor_id, student_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1
	`

	var review model.Review
	err := r.QueryRow(ctx, query, bookingID).Scan(
		&review.ID,
		&review.BookingID,
		&review.TutorID,
		&review.StudentID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("get review by booking: %w", base.MapError(err))
	}

	return &review, nil
}

// ListTutorReviews отзывы о репетиторе, новые сверху
func (r *ReviewRepository) ListTutorReviews(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT id, booking_id, tutor_id, student_id, rating, comment, created_at
		FROM reviews
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list tutor reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.TutorID,
			&review.StudentID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tutor reviews: %w", err)
	}

	return reviews, nil
}

// AverageTutorRating средняя оценка по всем отзывам, 0 если отзывов нет
func (r *ReviewRepository) AverageTutorRating(ctx context.Context, tutorID uuid.UUID) (float64, error) {
	var avg float64
	err := r.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE tutor_id = $1`, tutorID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average tutor rating: %w", err)
	}

	return avg, nil
}
