package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewTutorService(memory.New(), zap.NewNop())
	id := uuid.New()

	_, err := svc.SaveProfile(ctx, &model.Tutor{ID: id, Name: "   "})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.SaveProfile(ctx, &model.Tutor{ID: id, Name: "Ana", HourlyRate: -5})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	negative := -1.0
	_, err = svc.SaveProfile(ctx, &model.Tutor{ID: id, Name: "Ana", TrialRate: &negative})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.SaveProfile(ctx, &model.Tutor{ID: id, Name: " Ana ", HourlyRate: 40})
	require.NoError(t, err)

	_, err = svc.SaveProfile(ctx, &model.Tutor{ID: id, Name: "Ana Lopez", HourlyRate: 50})
	require.NoError(t, err)

	got, err := svc.GetTutor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", got.Name)
	assert.Equal(t, 50.0, got.HourlyRate)

	_, err = svc.GetTutor(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}
