package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TutorService struct {
	store  TutorStore
	logger *zap.Logger
}

func NewTutorService(store TutorStore, logger *zap.Logger) *TutorService {
	return &TutorService{
		store:  store,
		logger: logger,
	}
}

// GetTutor профиль репетитора
func (s *TutorService) GetTutor(ctx context.Context, id uuid.UUID) (*model.Tutor, error) {
	tutor, err := s.store.GetTutor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return tutor, nil
}

// SaveProfile создаёт или обновляет профиль пользователя как репетитора
func (s *TutorService) SaveProfile(ctx context.Context, tutor *model.Tutor) (*model.Tutor, error) {
	tutor.Name = strings.TrimSpace(tutor.Name)
	if tutor.Name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if tutor.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", model.ErrInvalidInput)
	}
	if tutor.TrialRate != nil && *tutor.TrialRate < 0 {
		return nil, fmt.Errorf("%w: trial rate must not be negative", model.ErrInvalidInput)
	}

	if err := s.store.UpsertTutor(ctx, tutor); err != nil {
		return nil, fmt.Errorf("save tutor profile: %w", err)
	}

	s.logger.Info("Tutor profile saved",
		zap.String("tutor_id", tutor.ID.String()),
		zap.Bool("telegram_linked", tutor.TelegramChatID != nil),
	)

	return tutor, nil
}
