package testutil

import (
	"userbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id int64) domain.PrivateUser {
	return domain.PrivateUser{
		ID:         id,
		AccessHash: id * 1000,
		FirstName:  "Test",
	}
}

// NewGroupMessage creates a new message event in a group
func NewGroupMessage(groupID int64, sender domain.Chat) domain.NewMessage {
	return domain.NewMessage{
		Message: domain.Message{
			ID:     1,
			Chat:   domain.Group{ID: groupID, Title: "test group"},
			Sender: sender,
			Text:   "hello",
		},
	}
}
