// Package mtproto connects to Telegram with gotd/td and exposes the
// connection as a driver.Conn.
package mtproto

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"userbot/internal/domain"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

// Options configures the connection
type Options struct {
	APIID    int
	APIHash  string
	ProxyURL string
}

const updateBuffer = 64

// Conn is a live Telegram connection
type Conn struct {
	client *telegram.Client
	api    *tg.Client
	logger *zap.Logger

	updates chan domain.Event
	done    chan struct{}
	cancel  context.CancelFunc

	mu      sync.Mutex
	err     error
	closing bool
}

// Dial connects to Telegram and returns once the connection is usable.
// The session blob is read from and written back to session by the
// protocol layer. Failures are returned as *domain.ConnectError.
func Dial(ctx context.Context, opts Options, session *domain.Session, logger *zap.Logger) (*Conn, error) {
	resolver, err := proxyResolver(opts.ProxyURL)
	if err != nil {
		return nil, &domain.ConnectError{Err: err}
	}

	c := &Conn{
		logger:  logger,
		updates: make(chan domain.Event, updateBuffer),
		done:    make(chan struct{}),
	}

	dispatcher := tg.NewUpdateDispatcher()
	c.registerUpdates(dispatcher)

	c.client = telegram.NewClient(opts.APIID, opts.APIHash, telegram.Options{
		SessionStorage: sessionStorage{session: session},
		UpdateHandler:  dispatcher,
		Resolver:       resolver,
		Logger:         logger.Named("mtproto"),
	})
	c.api = c.client.API()

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	ready := make(chan struct{})
	go func() {
		err := c.client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
		c.finish(err)
	}()

	select {
	case <-ready:
		logger.Info("Connected", zap.Bool("proxy", opts.ProxyURL != ""))
		return c, nil
	case <-c.done:
		return nil, &domain.ConnectError{Err: c.Err()}
	case <-ctx.Done():
		c.Close()
		return nil, &domain.ConnectError{Err: ctx.Err()}
	}
}

func (c *Conn) finish(err error) {
	c.mu.Lock()
	if c.closing && errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		c.err = fmt.Errorf("telegram client: %w", err)
	}
	c.mu.Unlock()
	close(c.done)
}

// Updates delivers incoming events in arrival order
func (c *Conn) Updates() <-chan domain.Event {
	return c.updates
}

// Done is closed once the client has stopped
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns why the client stopped, nil after Close
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SignOut logs the session out on the server
func (c *Conn) SignOut(ctx context.Context) error {
	if _, err := c.api.AuthLogOut(ctx); err != nil {
		return invocationError("auth.logOut", err)
	}
	return nil
}

// Close stops the client and waits for it to exit
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()

	c.cancel()
	<-c.done
	return nil
}

// push hands an event to the driver, giving up if the update handler's
// context ends first
func (c *Conn) push(ctx context.Context, ev domain.Event) error {
	select {
	case c.updates <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
