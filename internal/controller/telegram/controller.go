package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Controller команды бота. Бот только сообщает chat id для профиля и присылает уведомления.
type Controller struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewController(botInstance *bot.Bot, logger *zap.Logger) *Controller {
	return &Controller{
		bot:    botInstance,
		logger: logger,
	}
}

// RegisterHandlers регистрирует команды и меню
func (c *Controller) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.HandleHelp)

	return c.setCommands(ctx)
}

func (c *Controller) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Подключить уведомления"},
		{Command: "help", Description: "❓ Справка"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// HandleStart /start отвечает chat id, который репетитор вставляет в профиль
func (c *Controller) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	c.reply(ctx, b, update.Message.Chat.ID, startText(update.Message.Chat.ID, update.Message.From))
}

// HandleHelp /help
func (c *Controller) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	c.reply(ctx, b, update.Message.Chat.ID, helpText)
}

func (c *Controller) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// Start запускает long polling до отмены ctx
func (c *Controller) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

const helpText = "📚 Бот присылает уведомления о записях на занятия.\n\n" +
	"/start - показать chat id для профиля репетитора\n" +
	"/help - эта справка"

func startText(chatID int64, from *models.User) string {
	name := "👋 Привет!"
	if from != nil && from.FirstName != "" {
		name = fmt.Sprintf("👋 Привет, %s!", from.FirstName)
	}

	return fmt.Sprintf(
		"%s\n\n"+
			"Ваш chat id: %d\n\n"+
			"Укажите его в поле telegram_chat_id профиля репетитора, "+
			"и сюда будут приходить новые записи, отмены и переносы.",
		name, chatID,
	)
}
