package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Sender часть API бота, нужная для уведомлений
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type TutorReader interface {
	GetTutor(ctx context.Context, id uuid.UUID) (*model.Tutor, error)
}

// Notifier пересылает события бронирований репетиторам в Telegram.
// Отправка идёт в фоне и не задерживает операцию с бронированием.
type Notifier struct {
	sender Sender
	tutors TutorReader
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, tutors TutorReader, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		tutors: tutors,
		logger: logger,
	}
}

func (n *Notifier) PublishBookingEvent(_ context.Context, event model.BookingEvent) {
	text := formatEvent(event)
	if text == "" {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// контекст запроса к этому моменту может быть отменён
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		n.notifyTutor(ctx, event, text)
	}()
}

func (n *Notifier) notifyTutor(ctx context.Context, event model.BookingEvent, text string) {
	tutor, err := n.tutors.GetTutor(ctx, event.Booking.TutorID)
	if err != nil {
		n.logger.Warn("Failed to load tutor for notification",
			zap.String("tutor_id", event.Booking.TutorID.String()),
			zap.Error(err),
		)
		return
	}

	if tutor.TelegramChatID == nil {
		return
	}

	_, err = n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      *tutor.TelegramChatID,
		Text:        text,
		ReplyMarkup: eventKeyboard(event),
	})
	if err != nil {
		n.logger.Error("Failed to send telegram notification",
			zap.Int64("chat_id", *tutor.TelegramChatID),
			zap.String("booking_id", event.Booking.ID.String()),
			zap.String("event", string(event.Type)),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("Telegram notification sent",
		zap.String("booking_id", event.Booking.ID.String()),
		zap.String("event", string(event.Type)),
	)
}

// Wait ждёт завершения начатых отправок
func (n *Notifier) Wait() {
	n.wg.Wait()
}
