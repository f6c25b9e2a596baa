package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// AvailabilityRepository еженедельные окна доступности репетиторов
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(b *base.Repository) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: b}
}

// CreateAvailabilityWindow создаёт новое окно
func (r *AvailabilityRepository) CreateAvailabilityWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		INSERT INTO tutor_availability (tutor_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		w.TutorID,
		w.DayOfWeek,
		clockParam(w.StartTime),
		clockParam(w.EndTime),
	).Scan(&w.ID, &w.CreatedAt)

	if err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}

	return nil
}

// GetAvailabilityWindow получает окно по ID
func (r *AvailabilityRepository) GetAvailabilityWindow(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	query := `
		SELECT id, tutor_id, day_of_week, start_time, end_time, created_at
		FROM tutor_availability
		WHERE id = $1
	`

	var (
		w          model.AvailabilityWindow
		start, end pgtype.Time
	)
	err := r.QueryRow(ctx, query, id).Scan(&w.ID, &w.TutorID, &w.DayOfWeek, &start, &end, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get availability window: %w", base.MapError(err))
	}

	w.StartTime = clockFromPg(start)
	w.EndTime = clockFromPg(end)

	return &w, nil
}

// ListAvailabilityWindows все окна репетитора, по дню недели и времени
func (r *AvailabilityRepository) ListAvailabilityWindows(ctx context.Context, tutorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	query := `
		SELECT id, tutor_id, day_of_week, start_time, end_time, created_at
		FROM tutor_availability
		WHERE tutor_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}
	defer rows.Close()

	windows := []model.AvailabilityWindow{}
	for rows.Next() {
		var (
			w          model.AvailabilityWindow
			start, end pgtype.Time
		)
		if err := rows.Scan(&w.ID, &w.TutorID, &w.DayOfWeek, &start, &end, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		w.StartTime = clockFromPg(start)
		w.EndTime = clockFromPg(end)
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	return windows, nil
}

// DeleteAvailabilityWindow удаляет окно. Уже созданные бронирования не затрагиваются.
func (r *AvailabilityRepository) DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM tutor_availability WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability window: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete availability window: %w", model.ErrNotFound)
	}

	return nil
}
