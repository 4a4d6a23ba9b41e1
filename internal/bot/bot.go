// Package bot is the Telegram front end: it relays free-text messages to
// the assistant and replies with its answer.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"paisatrack/internal/agent"
	"paisatrack/internal/repository"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	agent *agent.Agent
	users *repository.UserRepository
	log   *slog.Logger
}

func New(token string, ag *agent.Agent, users *repository.UserRepository, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{api: api, agent: ag, users: users, log: logger}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("bot authorized", "account", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	user, err := b.users.GetOrCreateByTelegramID(ctx, msg.From.ID)
	if err != nil {
		b.log.Error("failed to get/create user", "error", err)
		return
	}

	answer, err := b.agent.SendMessage(ctx, user.ID, msg.Text)
	if err != nil {
		b.log.Error("assistant turn failed", "user_id", user.ID, "error", err)
		b.reply(msg.Chat.ID, "Sorry, I couldn't process that right now. Please try again in a moment.")
		return
	}
	b.reply(msg.Chat.ID, answer)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "Hi! I'm your personal finance assistant.\n\n"+
			"Tell me about your money in plain language:\n"+
			"• \"I spent 500 on pizza\"\n"+
			"• \"Set a 10000 budget for Groceries\"\n"+
			"• \"How much did I spend this month?\"\n"+
			"• \"I want to save 50000 for a vacation by June\"")
	default:
		b.reply(msg.Chat.ID, "Just send me a message describing what you spent, earned, or want to know.")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "error", err)
	}
}
