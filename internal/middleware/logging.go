package middleware

import (
	"context"
	"time"

	"userbot/internal/domain"
	"userbot/internal/handler"

	"go.uber.org/zap"
)

// Logging logs every event at debug level along with how long handling took
func Logging(logger *zap.Logger) handler.MiddlewareFunc {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx context.Context, ev domain.Event) error {
			start := time.Now()
			err := next(ctx, ev)

			fields := []zap.Field{
				zap.String("event", domain.EventKind(ev)),
				zap.Duration("took", time.Since(start)),
			}
			if msg, ok := message(ev); ok {
				fields = append(fields,
					zap.Int64("chat_id", msg.Chat.ChatID()),
					zap.Int("message_id", msg.ID),
				)
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			logger.Debug("Event handled", fields...)
			return err
		}
	}
}

func message(ev domain.Event) (domain.Message, bool) {
	switch ev := ev.(type) {
	case domain.NewMessage:
		return ev.Message, ev.Message.Chat != nil
	case domain.MessageEdited:
		return ev.Message, ev.Message.Chat != nil
	}
	return domain.Message{}, false
}
