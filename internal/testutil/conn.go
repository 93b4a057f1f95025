package testutil

import (
	"context"
	"errors"
	"sync"

	"userbot/internal/domain"
	"userbot/internal/rpc"
)

// FakeConn is an in-memory driver.Conn. Remote calls are answered by
// InvokeFunc and recorded; events are pushed by the test.
type FakeConn struct {
	InvokeFunc func(ctx context.Context, req rpc.Request) (any, error)
	SignOutErr error

	mu        sync.Mutex
	calls     []rpc.Request
	signedOut bool
	closed    bool
	err       error

	updates  chan domain.Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewFakeConn creates a connected fake
func NewFakeConn() *FakeConn {
	return &FakeConn{
		updates: make(chan domain.Event, 64),
		done:    make(chan struct{}),
	}
}

// Push delivers an incoming event
func (f *FakeConn) Push(ev domain.Event) {
	f.updates <- ev
}

// Disconnect simulates the remote end closing the connection
func (f *FakeConn) Disconnect(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	f.doneOnce.Do(func() { close(f.done) })
}

func (f *FakeConn) Invoke(ctx context.Context, req rpc.Request) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	invoke := f.InvokeFunc
	f.mu.Unlock()

	select {
	case <-f.done:
		return nil, domain.ErrConnectionClosed
	default:
	}

	if invoke == nil {
		return nil, errors.New("fake conn: unexpected call " + req.Method())
	}
	return invoke(ctx, req)
}

func (f *FakeConn) Updates() <-chan domain.Event {
	return f.updates
}

func (f *FakeConn) Done() <-chan struct{} {
	return f.done
}

func (f *FakeConn) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *FakeConn) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = true
	return f.SignOutErr
}

func (f *FakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.doneOnce.Do(func() { close(f.done) })
	return nil
}

// Calls returns every recorded call
func (f *FakeConn) Calls() []rpc.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpc.Request(nil), f.calls...)
}

// CallsTo returns the recorded calls with the given method
func (f *FakeConn) CallsTo(method string) []rpc.Request {
	var out []rpc.Request
	for _, c := range f.Calls() {
		if c.Method() == method {
			out = append(out, c)
		}
	}
	return out
}

// SignedOut reports whether SignOut was called
func (f *FakeConn) SignedOut() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signedOut
}

// Closed reports whether Close was called
func (f *FakeConn) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
