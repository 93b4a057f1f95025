package mtproto

import (
	"context"

	"userbot/internal/domain"

	"github.com/gotd/td/tg"
)

func (c *Conn) registerUpdates(d tg.UpdateDispatcher) {
	d.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		return c.pushMessage(ctx, e, u.Message, false)
	})
	d.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		return c.pushMessage(ctx, e, u.Message, false)
	})
	d.OnEditMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateEditMessage) error {
		return c.pushMessage(ctx, e, u.Message, true)
	})
	d.OnEditChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateEditChannelMessage) error {
		return c.pushMessage(ctx, e, u.Message, true)
	})
	d.OnDeleteMessages(func(ctx context.Context, e tg.Entities, u *tg.UpdateDeleteMessages) error {
		return c.push(ctx, domain.MessagesDeleted{MessageIDs: u.Messages})
	})
	d.OnDeleteChannelMessages(func(ctx context.Context, e tg.Entities, u *tg.UpdateDeleteChannelMessages) error {
		return c.push(ctx, domain.MessagesDeleted{ChannelID: u.ChannelID, MessageIDs: u.Messages})
	})
	d.OnUserTyping(func(ctx context.Context, e tg.Entities, u *tg.UpdateUserTyping) error {
		return c.push(ctx, domain.OtherEvent{Kind: "user_typing"})
	})
	d.OnChatUserTyping(func(ctx context.Context, e tg.Entities, u *tg.UpdateChatUserTyping) error {
		return c.push(ctx, domain.OtherEvent{Kind: "chat_user_typing"})
	})
	d.OnUserStatus(func(ctx context.Context, e tg.Entities, u *tg.UpdateUserStatus) error {
		return c.push(ctx, domain.OtherEvent{Kind: "user_status"})
	})
}

func (c *Conn) pushMessage(ctx context.Context, e tg.Entities, m tg.MessageClass, edited bool) error {
	msg, ok := mapMessage(e, m)
	if !ok {
		return nil
	}
	if edited {
		return c.push(ctx, domain.MessageEdited{Message: msg})
	}
	return c.push(ctx, domain.NewMessage{Message: msg})
}

// mapMessage converts a regular message; service and empty messages are dropped
func mapMessage(e tg.Entities, m tg.MessageClass) (domain.Message, bool) {
	msg, ok := m.(*tg.Message)
	if !ok {
		return domain.Message{}, false
	}

	chat := mapPeer(e, msg.PeerID)
	out := domain.Message{
		ID:   msg.ID,
		Chat: chat,
		Text: msg.Message,
	}

	if from, ok := msg.GetFromID(); ok {
		out.Sender = mapPeer(e, from)
	} else if _, private := chat.(domain.PrivateUser); private && !msg.Out {
		// incoming private messages carry no from_id
		out.Sender = chat
	}
	return out, true
}

// mapPeer resolves a peer against the update's entities. Basic groups and
// megagroups are both Group; only broadcast channels are Channel.
func mapPeer(e tg.Entities, peer tg.PeerClass) domain.Chat {
	switch p := peer.(type) {
	case *tg.PeerUser:
		if user, ok := e.Users[p.UserID]; ok {
			return privateUser(user)
		}
		return domain.PrivateUser{ID: p.UserID}

	case *tg.PeerChat:
		group := domain.Group{ID: p.ChatID}
		if chat, ok := e.Chats[p.ChatID]; ok {
			group.Title = chat.Title
		}
		return group

	case *tg.PeerChannel:
		ch, ok := e.Channels[p.ChannelID]
		if !ok {
			return domain.Channel{ID: p.ChannelID}
		}
		if ch.Megagroup {
			return domain.Group{ID: ch.ID, Title: ch.Title}
		}
		return domain.Channel{ID: ch.ID, AccessHash: ch.AccessHash, Title: ch.Title}
	}
	return nil
}

func privateUser(u *tg.User) domain.PrivateUser {
	return domain.PrivateUser{
		ID:         u.ID,
		AccessHash: u.AccessHash,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Bot:        u.Bot,
	}
}
