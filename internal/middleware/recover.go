package middleware

import (
	"context"
	"fmt"

	"userbot/internal/domain"
	"userbot/internal/handler"

	"go.uber.org/zap"
)

// Recover turns a panic in the handler chain into an error
func Recover(logger *zap.Logger) handler.MiddlewareFunc {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx context.Context, ev domain.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Recovered from panic in event handler",
						zap.String("event", domain.EventKind(ev)),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
					err = fmt.Errorf("panic handling %s: %v", domain.EventKind(ev), r)
				}
			}()
			return next(ctx, ev)
		}
	}
}
