package handler

import (
	"context"
	"fmt"
	"iter"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"go.uber.org/zap"
)

// EventSource yields incoming events until the connection ends
type EventSource interface {
	Events(ctx context.Context) iter.Seq2[domain.Event, error]
}

// Reporter receives the outcome of every user lookup
type Reporter interface {
	ReportLookup(ctx context.Context, user domain.PrivateUser, info *domain.FullUserInfo, err error)
}

// HandlerFunc handles a single event
type HandlerFunc func(ctx context.Context, ev domain.Event) error

// MiddlewareFunc wraps a HandlerFunc
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Dispatcher reads events and looks up private users who write in groups
type Dispatcher struct {
	source   EventSource
	invoker  rpc.Invoker
	reporter Reporter
	logger   *zap.Logger
	handle   HandlerFunc
}

// NewDispatcher creates a new dispatcher. Middleware runs in the order given,
// the first one outermost.
func NewDispatcher(
	source EventSource,
	invoker rpc.Invoker,
	reporter Reporter,
	logger *zap.Logger,
	middleware ...MiddlewareFunc,
) *Dispatcher {
	d := &Dispatcher{
		source:   source,
		invoker:  invoker,
		reporter: reporter,
		logger:   logger,
	}

	h := d.handleEvent
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	d.handle = h
	return d
}

// Run dispatches events until the sequence ends. A handler error is logged
// and the loop moves on; only a failure to fetch the next event is returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	for ev, err := range d.source.Events(ctx) {
		if err != nil {
			return fmt.Errorf("next event: %w", err)
		}

		if err := d.handle(ctx, ev); err != nil {
			d.logger.Error("Event handler failed",
				zap.String("event", domain.EventKind(ev)),
				zap.Error(err),
			)
		}
	}

	d.logger.Info("Event sequence ended")
	return nil
}

func (d *Dispatcher) handleEvent(ctx context.Context, ev domain.Event) error {
	switch ev := ev.(type) {
	case domain.NewMessage:
		return d.handleNewMessage(ctx, ev.Message)
	case domain.MessageEdited, domain.MessagesDeleted, domain.OtherEvent:
		return nil
	default:
		d.logger.Debug("Skipping unknown event", zap.String("event", domain.EventKind(ev)))
		return nil
	}
}

// senderInGroup returns the sender of a group message when it is a private user
func senderInGroup(msg domain.Message) (domain.PrivateUser, bool) {
	if _, ok := msg.Chat.(domain.Group); !ok {
		return domain.PrivateUser{}, false
	}
	user, ok := msg.Sender.(domain.PrivateUser)
	return user, ok
}
