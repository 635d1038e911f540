package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Handler receives one command invocation from the transport.
type Handler interface {
	Handle(ctx context.Context, userID, chatID int64, command string)
}

// Bot is the Telegram transport: long-polls for commands and delivers
// outgoing text. The Bot API client has no context support of its own, so
// the ctx parameters bound the dispatch loop, not individual API calls.
type Bot struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

func New(token string, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Info("telegram_connected", zap.String("bot", api.Self.UserName))
	return &Bot{api: api, log: log}, nil
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// DisplayInfo resolves a user's name and handle, best effort.
func (b *Bot) DisplayInfo(ctx context.Context, userID int64) (string, string, error) {
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: userID},
	})
	if err != nil {
		return "", "", err
	}
	name := strings.TrimSpace(strings.TrimSpace(chat.FirstName) + " " + strings.TrimSpace(chat.LastName))
	return name, chat.UserName, nil
}

// Run long-polls for updates until ctx is cancelled. Each command is
// dispatched on its own goroutine; the handler holds no shared mutable
// state, so concurrent dispatch is safe.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			msg := upd.Message
			if msg == nil || !msg.IsCommand() || msg.From == nil {
				continue
			}
			command := msg.Command()
			b.log.Info("command_received",
				zap.String("command", command),
				zap.Int64("user_id", msg.From.ID),
				zap.Int64("chat_id", msg.Chat.ID),
			)
			go h.Handle(ctx, msg.From.ID, msg.Chat.ID, command)
		}
	}
}
