// Package notify reports user lookups somewhere a human will see them.
package notify

import (
	"context"
	"fmt"
	"strings"

	"userbot/internal/domain"
)

// Nop discards every report
type Nop struct{}

func (Nop) ReportLookup(ctx context.Context, user domain.PrivateUser, info *domain.FullUserInfo, err error) {
}

// formatLookup renders a lookup outcome as a short plain-text message
func formatLookup(user domain.PrivateUser, info *domain.FullUserInfo, err error) string {
	if err != nil {
		return fmt.Sprintf("Lookup of %s (id %d) failed: %v", user.DisplayName(), user.ID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (id %d)", user.DisplayName(), user.ID)
	if user.Bot {
		b.WriteString(" [bot]")
	}
	fmt.Fprintf(&b, "\nCommon chats: %d", info.CommonChatsCount)
	if about := strings.TrimSpace(info.About); about != "" {
		fmt.Fprintf(&b, "\nAbout: %s", about)
	}
	return b.String()
}
