package driver

import (
	"context"
	"errors"
	"iter"

	"userbot/internal/domain"
	"userbot/internal/rpc"
)

// Handle submits work to a running Client. The zero value is not usable;
// get one from Client.Handle and copy it freely.
type Handle struct {
	calls   chan<- callRequest
	events  <-chan domain.Event
	signOut chan<- chan error
	done    <-chan struct{}
}

// Invoke submits a remote call and waits for its result
func (h Handle) Invoke(ctx context.Context, req rpc.Request) (any, error) {
	reply := make(chan callResult, 1)

	select {
	case h.calls <- callRequest{ctx: ctx, req: req, reply: reply}:
	case <-h.done:
		return nil, domain.ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NextEvent waits for the next incoming event. It returns
// domain.ErrConnectionClosed once the connection has ended. Handles reading
// events concurrently each receive a different event.
func (h Handle) NextEvent(ctx context.Context) (domain.Event, error) {
	select {
	case ev, ok := <-h.events:
		if !ok {
			return nil, domain.ErrConnectionClosed
		}
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Events returns the incoming event sequence. The sequence ends when the
// connection closes; any other failure is yielded once as the final element.
func (h Handle) Events(ctx context.Context) iter.Seq2[domain.Event, error] {
	return func(yield func(domain.Event, error) bool) {
		for {
			ev, err := h.NextEvent(ctx)
			if errors.Is(err, domain.ErrConnectionClosed) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// SignOut revokes the session and disconnects. The Client's Run returns
// after the sign-out attempt whether or not it succeeded.
func (h Handle) SignOut(ctx context.Context) error {
	reply := make(chan error, 1)

	select {
	case h.signOut <- reply:
	case <-h.done:
		return domain.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the Client has stopped running
func (h Handle) Done() <-chan struct{} {
	return h.done
}
