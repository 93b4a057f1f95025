package domain

import "fmt"

// Chat identifies the container a message arrived in.
// The set of implementations is closed: Group, Channel, PrivateUser.
type Chat interface {
	ChatID() int64
	isChat()
}

// Group is a basic group or a megagroup
type Group struct {
	ID    int64
	Title string
}

// Channel is a broadcast channel
type Channel struct {
	ID         int64
	AccessHash int64
	Title      string
}

// PrivateUser is a user account
type PrivateUser struct {
	ID         int64
	AccessHash int64
	Username   string
	FirstName  string
	LastName   string
	Bot        bool
}

func (g Group) ChatID() int64       { return g.ID }
func (c Channel) ChatID() int64     { return c.ID }
func (u PrivateUser) ChatID() int64 { return u.ID }

func (Group) isChat()       {}
func (Channel) isChat()     {}
func (PrivateUser) isChat() {}

// DisplayName returns the best human readable name for the user
func (u PrivateUser) DisplayName() string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return fmt.Sprintf("user %d", u.ID)
	}
}

// Message is an incoming or edited message.
// Sender is nil for anonymous posts (e.g. group admins posting as the group).
type Message struct {
	ID     int
	Chat   Chat
	Sender Chat
	Text   string
}

// Event is an occurrence delivered by the remote connection.
// The set of implementations is closed: NewMessage, MessageEdited,
// MessagesDeleted, OtherEvent.
type Event interface {
	isEvent()
}

// NewMessage is delivered when a message arrives
type NewMessage struct {
	Message Message
}

// MessageEdited is delivered when a message changes
type MessageEdited struct {
	Message Message
}

// MessagesDeleted is delivered when messages are removed
type MessagesDeleted struct {
	ChannelID  int64 // zero outside channels
	MessageIDs []int
}

// OtherEvent covers every update the client does not model
type OtherEvent struct {
	Kind string
}

func (NewMessage) isEvent()      {}
func (MessageEdited) isEvent()   {}
func (MessagesDeleted) isEvent() {}
func (OtherEvent) isEvent()      {}

// EventKind returns a short name for logging
func EventKind(e Event) string {
	switch ev := e.(type) {
	case NewMessage:
		return "new_message"
	case MessageEdited:
		return "message_edited"
	case MessagesDeleted:
		return "messages_deleted"
	case OtherEvent:
		return "other:" + ev.Kind
	default:
		return fmt.Sprintf("unknown:%T", e)
	}
}
