package schedule

import (
	"fmt"
	"math"

	"github.com/Freeeeeet/tutorhub/internal/model"
)

// Price считает стоимость занятия по ставкам репетитора.
// Пробное: trial_rate или половина часовой ставки. Обычное: пропорционально длительности.
func Price(tutor *model.Tutor, lessonType model.LessonType, durationMinutes int) (float64, error) {
	if !model.IsSupportedDuration(lessonType, durationMinutes) {
		return 0, fmt.Errorf("%w: unsupported duration %d for %s lesson", model.ErrInvalidInput, durationMinutes, lessonType)
	}

	if lessonType == model.LessonTypeTrial {
		if tutor.TrialRate != nil {
			return *tutor.TrialRate, nil
		}
		return math.Round(tutor.HourlyRate * 0.5), nil
	}

	return math.Round(tutor.HourlyRate * float64(durationMinutes) / 60), nil
}
