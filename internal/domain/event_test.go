package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivateUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     PrivateUser
		expected string
	}{
		{
			name:     "username wins",
			user:     PrivateUser{ID: 1, Username: "alice", FirstName: "Alice"},
			expected: "@alice",
		},
		{
			name:     "first and last name",
			user:     PrivateUser{ID: 2, FirstName: "Bob", LastName: "Stone"},
			expected: "Bob Stone",
		},
		{
			name:     "first name only",
			user:     PrivateUser{ID: 3, FirstName: "Carol"},
			expected: "Carol",
		},
		{
			name:     "no names",
			user:     PrivateUser{ID: 42},
			expected: "user 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestEventKind(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "new message",
			event:    NewMessage{Message: Message{ID: 1, Chat: Group{ID: 10}}},
			expected: "new_message",
		},
		{
			name:     "edited",
			event:    MessageEdited{},
			expected: "message_edited",
		},
		{
			name:     "deleted",
			event:    MessagesDeleted{MessageIDs: []int{1, 2}},
			expected: "messages_deleted",
		},
		{
			name:     "other",
			event:    OtherEvent{Kind: "user_typing"},
			expected: "other:user_typing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EventKind(tt.event))
		})
	}
}

func TestChatID(t *testing.T) {
	assert.Equal(t, int64(1), Group{ID: 1}.ChatID())
	assert.Equal(t, int64(2), Channel{ID: 2}.ChatID())
	assert.Equal(t, int64(3), PrivateUser{ID: 3}.ChatID())
}

func TestAuthState_Terminal(t *testing.T) {
	terminal := []AuthState{StatePersistedDone, StateUnpersistedDone, StateFatal}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}

	nonTerminal := []AuthState{
		StateConnected, StateAwaitingPhone, StateCodeRequested,
		StateAwaitingCode, StateAwaitingPassword, StateAuthorized,
	}
	for _, s := range nonTerminal {
		assert.False(t, s.Terminal(), string(s))
	}
}
