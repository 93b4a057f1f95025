// Package driver owns the live connection.
//
// A Client is the only value that touches the Conn. Once Run is called the
// Client lives in its own goroutine and every other part of the program talks
// to it through Handles, which hold nothing but channel endpoints. Handles are
// plain values: copying one is how it is cloned.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunning is returned when the Client is used directly after Run started
var ErrRunning = errors.New("client is running, use a handle")

// Conn is the remote protocol connection
type Conn interface {
	rpc.Invoker
	// Updates delivers incoming events in the order the connection produced them
	Updates() <-chan domain.Event
	// Done is closed once the connection has terminated
	Done() <-chan struct{}
	// Err reports why the connection terminated; nil for a normal disconnect
	Err() error
	// SignOut revokes the session remotely
	SignOut(ctx context.Context) error
	Close() error
}

type callRequest struct {
	ctx   context.Context
	req   rpc.Request
	reply chan callResult
}

type callResult struct {
	res any
	err error
}

// Client is the unique owner of a Conn
type Client struct {
	conn   Conn
	logger *zap.Logger

	calls   chan callRequest
	events  chan domain.Event
	signOut chan chan error
	done    chan struct{}

	running atomic.Bool
}

// New creates a client owning conn
func New(conn Conn, logger *zap.Logger) *Client {
	return &Client{
		conn:    conn,
		logger:  logger,
		calls:   make(chan callRequest),
		events:  make(chan domain.Event),
		signOut: make(chan chan error),
		done:    make(chan struct{}),
	}
}

// Invoke calls the connection directly. It is only valid before Run, while
// the caller is still the sole user of the client.
func (c *Client) Invoke(ctx context.Context, req rpc.Request) (any, error) {
	if c.running.Load() {
		return nil, ErrRunning
	}
	return c.conn.Invoke(ctx, req)
}

// Handle returns a request handle routed to this client
func (c *Client) Handle() Handle {
	return Handle{
		calls:   c.calls,
		events:  c.events,
		signOut: c.signOut,
		done:    c.done,
	}
}

// Run drives the connection until it disconnects, a handle signs out, or ctx
// is cancelled. Calls submitted through handles are served concurrently;
// events are queued and handed out in order. When Run returns every pending
// and future handle operation fails with domain.ErrConnectionClosed.
//
// Run returns nil for a normal disconnect, a sign-out or a cancelled ctx.
func (c *Client) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("client already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	var workers sync.WaitGroup
	var queue []domain.Event

	defer func() {
		cancel()
		workers.Wait()
		if len(queue) > 0 {
			c.logger.Debug("Dropping undelivered events", zap.Int("count", len(queue)))
		}
		close(c.events)
		close(c.done)
	}()

	updates := c.conn.Updates()

	for {
		var out chan<- domain.Event
		var next domain.Event
		if len(queue) > 0 {
			out = c.events
			next = queue[0]
		}

		select {
		case <-ctx.Done():
			c.logger.Info("Connection driver stopped")
			c.closeConn()
			return nil

		case <-c.conn.Done():
			if err := c.conn.Err(); err != nil {
				return fmt.Errorf("connection lost: %w", err)
			}
			c.logger.Info("Disconnected")
			return nil

		case ev, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			queue = append(queue, ev)

		case out <- next:
			queue[0] = nil
			queue = queue[1:]

		case call := <-c.calls:
			workers.Add(1)
			go c.serve(runCtx, &workers, call)

		case reply := <-c.signOut:
			err := c.conn.SignOut(runCtx)
			reply <- err
			if err != nil {
				c.logger.Warn("Sign out failed", zap.Error(err))
			} else {
				c.logger.Info("Signed out")
			}
			c.closeConn()
			return nil
		}
	}
}

func (c *Client) serve(runCtx context.Context, workers *sync.WaitGroup, call callRequest) {
	defer workers.Done()

	ctx, cancel := context.WithCancel(call.ctx)
	defer cancel()
	stop := context.AfterFunc(runCtx, cancel)
	defer stop()

	id := uuid.NewString()
	c.logger.Debug("Invoking",
		zap.String("request_id", id),
		zap.String("method", call.req.Method()),
	)

	res, err := c.conn.Invoke(ctx, call.req)
	if err != nil && runCtx.Err() != nil {
		err = domain.ErrConnectionClosed
	}

	if err != nil {
		c.logger.Debug("Invocation failed",
			zap.String("request_id", id),
			zap.String("method", call.req.Method()),
			zap.Error(err),
		)
	}

	call.reply <- callResult{res: res, err: err}
}

func (c *Client) closeConn() {
	if err := c.conn.Close(); err != nil {
		c.logger.Warn("Failed to close connection", zap.Error(err))
	}
}
