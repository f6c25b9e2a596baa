package telegram

import (
	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/go-telegram/bot/models"
)

// keyboardBuilder собирает inline клавиатуру по рядам
type keyboardBuilder struct {
	rows [][]models.InlineKeyboardButton
}

func newKeyboard() *keyboardBuilder {
	return &keyboardBuilder{rows: make([][]models.InlineKeyboardButton, 0)}
}

// row добавляет ряд, пустые ряды пропускаются
func (b *keyboardBuilder) row(buttons ...models.InlineKeyboardButton) *keyboardBuilder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// build nil, если кнопок нет
func (b *keyboardBuilder) build() models.ReplyMarkup {
	if len(b.rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: b.rows}
}

func urlButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, URL: url}
}

// eventKeyboard кнопки к уведомлению: ссылка на комнату, если она есть
func eventKeyboard(e model.BookingEvent) models.ReplyMarkup {
	kb := newKeyboard()
	if e.Booking.HostRoomURL != "" && e.Booking.Status == model.BookingStatusConfirmed {
		kb.row(urlButton("🎥 Открыть комнату", e.Booking.HostRoomURL))
	}
	return kb.build()
}
