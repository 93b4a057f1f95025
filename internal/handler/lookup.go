package handler

import (
	"context"
	"fmt"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"go.uber.org/zap"
)

// handleNewMessage fetches the full profile of a private user writing in a group
func (d *Dispatcher) handleNewMessage(ctx context.Context, msg domain.Message) error {
	user, ok := senderInGroup(msg)
	if !ok {
		return nil
	}

	info, err := rpc.Invoke[domain.FullUserInfo](ctx, d.invoker, rpc.GetFullUser{User: user})
	if err != nil {
		d.reporter.ReportLookup(ctx, user, nil, err)
		return fmt.Errorf("get full user %d: %w", user.ID, err)
	}

	// warn so the line survives the default level
	d.logger.Warn("get full user succeeded",
		zap.Int64("user_id", user.ID),
		zap.String("user", user.DisplayName()),
		zap.Int64("chat_id", msg.Chat.ChatID()),
		zap.Int("common_chats", info.CommonChatsCount),
	)
	d.reporter.ReportLookup(ctx, user, &info, nil)
	return nil
}
