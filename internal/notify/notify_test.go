package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"userbot/internal/domain"
	"userbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatLookup(t *testing.T) {
	user := domain.PrivateUser{ID: 42, Username: "alice"}

	tests := []struct {
		name     string
		user     domain.PrivateUser
		info     *domain.FullUserInfo
		err      error
		expected string
	}{
		{
			name:     "success with about",
			user:     user,
			info:     &domain.FullUserInfo{User: user, About: "  hello  ", CommonChatsCount: 2},
			expected: "@alice (id 42)\nCommon chats: 2\nAbout: hello",
		},
		{
			name:     "success without about",
			user:     user,
			info:     &domain.FullUserInfo{User: user},
			expected: "@alice (id 42)\nCommon chats: 0",
		},
		{
			name:     "bot",
			user:     domain.PrivateUser{ID: 5, FirstName: "Helper", Bot: true},
			info:     &domain.FullUserInfo{},
			expected: "Helper (id 5) [bot]\nCommon chats: 0",
		},
		{
			name:     "failure",
			user:     user,
			err:      errors.New("USER_ID_INVALID"),
			expected: "Lookup of @alice (id 42) failed: USER_ID_INVALID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatLookup(tt.user, tt.info, tt.err))
		})
	}
}

// botAPI is a minimal Bot API server that records sendMessage requests
type botAPI struct {
	mu       sync.Mutex
	paths    []string
	messages []map[string]any
	fail     bool
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	params := map[string]any{}
	_ = json.Unmarshal(body, &params)

	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.messages = append(b.messages, params)
	fail := b.fail
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
		return
	}
	fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":100,"type":"private"}}}`)
}

func TestTelegram_ReportLookup(t *testing.T) {
	api := &botAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	reporter, err := NewTelegram("123:abc", 100, testutil.NewTestLogger(), WithAPIURL(srv.URL))
	require.NoError(t, err)

	user := testutil.NewTestUser(42)
	reporter.ReportLookup(context.Background(), user, &domain.FullUserInfo{User: user, CommonChatsCount: 1}, nil)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.messages, 1)
	assert.Equal(t, "/bot123:abc/sendMessage", api.paths[0])
	assert.Equal(t, "100", fmt.Sprint(api.messages[0]["chat_id"]))
	assert.Equal(t, "Test (id 42)\nCommon chats: 1", api.messages[0]["text"])
}

func TestTelegram_ReportLookupSendFailure(t *testing.T) {
	api := &botAPI{fail: true}
	srv := httptest.NewServer(api)
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	reporter, err := NewTelegram("123:abc", 100, zap.New(core), WithAPIURL(srv.URL))
	require.NoError(t, err)

	reporter.ReportLookup(context.Background(), testutil.NewTestUser(42), nil, errors.New("flood wait"))

	assert.Equal(t, 1, logs.FilterMessage("Failed to send lookup report").Len())
}

func TestNop_ReportLookup(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop{}.ReportLookup(context.Background(), domain.PrivateUser{}, nil, nil)
	})
}
