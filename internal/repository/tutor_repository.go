package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/repository/base"
	"github.com/google/uuid"
)

type TutorRepository struct {
	*base.Repository
}

func NewTutorRepository(b *base.Repository) *TutorRepository {
	return &TutorRepository{Repository: b}
}

// GetTutor получает профиль репетитора по ID
func (r *TutorRepository) GetTutor(ctx context.Context, id uuid.UUID) (*model.Tutor, error) {
	query := `
		SELECT id, name, bio, languages, hourly_rate, trial_rate, rating, total_lessons,
		       telegram_chat_id, created_at, updated_at
		FROM tutors
		WHERE id = $1
	`

	var tutor model.Tutor
	err := r.QueryRow(ctx, query, id).Scan(
		&tutor.ID,
		&tutor.Name,
		&tutor.Bio,
		&tutor.Languages,
		&tutor.HourlyRate,
		&tutor.TrialRate,
		&tutor.Rating,
		&tutor.TotalLessons,
		&tutor.TelegramChatID,
		&tutor.CreatedAt,
		&tutor.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("get tutor by id: %w", base.MapError(err))
	}

	return &tutor, nil
}

// UpsertTutor создаёт или обновляет профиль. Рейтинг и счётчик занятий не трогает.
func (r *TutorRepository) UpsertTutor(ctx context.Context, tutor *model.Tutor) error {
	query := `
		INSERT INTO tutors (id, name, bio, languages, hourly_rate, trial_rate, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			languages = EXCLUDED.languages,
			hourly_rate = EXCLUDED.hourly_rate,
			trial_rate = EXCLUDED.trial_rate,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			updated_at = NOW()
		RETURNING rating, total_lessons, created_at, updated_at
	`

	languages := tutor.Languages
	if languages == nil {
		languages = []string{}
	}

	err := r.QueryRow(
		ctx, query,
		tutor.ID,
		tutor.Name,
		tutor.Bio,
		languages,
		tutor.HourlyRate,
		tutor.TrialRate,
		tutor.TelegramChatID,
	).Scan(&tutor.Rating, &tutor.TotalLessons, &tutor.CreatedAt, &tutor.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert tutor: %w", err)
	}

	return nil
}

// UpdateTutorRating сохраняет пересчитанный рейтинг
func (r *TutorRepository) UpdateTutorRating(ctx context.Context, id uuid.UUID, rating float64) error {
	affected, err := r.ExecAffected(ctx, `UPDATE tutors SET rating = $1, updated_at = NOW() WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("update tutor rating: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update tutor rating: tutor %w", model.ErrNotFound)
	}

	return nil
}

