package notify

import (
	"context"
	"fmt"

	"userbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// TelegramOption configures a Telegram reporter
type TelegramOption func(*tele.Settings)

// WithAPIURL points the reporter at a different Bot API server
func WithAPIURL(url string) TelegramOption {
	return func(s *tele.Settings) {
		s.URL = url
	}
}

// Telegram sends lookup reports to a chat through the Bot API
type Telegram struct {
	bot    *tele.Bot
	chat   tele.ChatID
	logger *zap.Logger
}

// NewTelegram creates a reporter that posts to chatID as the bot with the given token
func NewTelegram(token string, chatID int64, logger *zap.Logger, opts ...TelegramOption) (*Telegram, error) {
	settings := tele.Settings{
		Token: token,
		// no getMe round trip; the bot only ever sends
		Offline: true,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create notify bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chat:   tele.ChatID(chatID),
		logger: logger,
	}, nil
}

// ReportLookup sends the lookup outcome to the configured chat. Delivery
// failures are logged and otherwise ignored.
func (t *Telegram) ReportLookup(ctx context.Context, user domain.PrivateUser, info *domain.FullUserInfo, err error) {
	if _, sendErr := t.bot.Send(t.chat, formatLookup(user, info, err)); sendErr != nil {
		t.logger.Warn("Failed to send lookup report",
			zap.Int64("user_id", user.ID),
			zap.Int64("chat_id", int64(t.chat)),
			zap.Error(sendErr),
		)
	}
}
