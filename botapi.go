package autogroup

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotUser identifies the bridge bot.
type BotUser struct {
	ID       int64
	Username string
}

// Bot is the bridge bot that relays messages into the created groups.
type Bot interface {
	// Me returns the bot's identity.
	Me(ctx context.Context) (BotUser, error)

	// SetChatPhoto sets the photo of a chat, addressed by Bot API chat ID.
	SetChatPhoto(ctx context.Context, chatID int64, filename string, data []byte) error
}

// BotAPI implements Bot with the Telegram Bot API.
type BotAPI struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewBotAPI connects to the Bot API with token and fetches the bot's identity.
func NewBotAPI(token string, logger *slog.Logger) (*BotAPI, error) {
	if logger == nil {
		logger = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect bot: %w", err)
	}
	logger.Info("bot connected", "id", api.Self.ID, "username", api.Self.UserName)
	return &BotAPI{api: api, logger: logger}, nil
}

// Me returns the bot's identity.
func (b *BotAPI) Me(_ context.Context) (BotUser, error) {
	return BotUser{ID: b.api.Self.ID, Username: b.api.Self.UserName}, nil
}

// SetChatPhoto sets the photo of chatID. The bot must be an admin there.
func (b *BotAPI) SetChatPhoto(_ context.Context, chatID int64, filename string, data []byte) error {
	req := tgbotapi.SetChatPhotoConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: tgbotapi.BaseChat{ChatID: chatID},
			File:     tgbotapi.FileBytes{Name: filename, Bytes: data},
		},
	}
	if _, err := b.api.Request(req); err != nil {
		return fmt.Errorf("failed to set chat photo: %w", err)
	}
	b.logger.Debug("set chat photo", "chat_id", chatID, "bytes", len(data))
	return nil
}
