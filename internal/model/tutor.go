package model

import (
	"time"

	"github.com/google/uuid"
)

// Tutor профиль репетитора. ID совпадает с идентификатором пользователя из токена.
type Tutor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Languages      []string  `json:"languages"`
	HourlyRate     float64   `json:"hourly_rate"`
	TrialRate      *float64  `json:"trial_rate"` // nil = половина часовой ставки
	Rating         float64   `json:"rating"`
	TotalLessons   int       `json:"total_lessons"`
	TelegramChatID *int64    `json:"-"` // nil = уведомления в Telegram выключены
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
