// Package app runs the userbot from session load to shutdown.
package app

import (
	"context"
	"errors"

	"userbot/internal/domain"
	"userbot/internal/driver"
	"userbot/internal/handler"
	"userbot/internal/service"

	"go.uber.org/zap"
)

// SessionStore loads the session at startup and saves it after sign-in
type SessionStore interface {
	LoadOrCreate(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
}

// Connector opens the remote connection for a session
type Connector func(ctx context.Context, session *domain.Session) (driver.Conn, error)

// Deps holds everything Run needs
type Deps struct {
	Store      SessionStore
	Connect    Connector
	Prompter   service.Prompter
	Reporter   handler.Reporter
	APIID      int
	APIHash    string
	Middleware []handler.MiddlewareFunc
	Logger     *zap.Logger
}

// Run loads the session, connects, signs in and dispatches events until the
// connection ends or ctx is cancelled. A cancelled ctx is a normal shutdown.
func Run(ctx context.Context, d Deps) error {
	session, err := d.Store.LoadOrCreate(ctx)
	if err != nil {
		return err
	}

	d.Prompter.Notice("Connecting to Telegram...")
	conn, err := d.Connect(ctx, session)
	if err != nil {
		return err
	}
	d.Prompter.Notice("Connected!")

	client := driver.New(conn, d.Logger)

	auth := service.NewAuthService(client, d.Prompter, d.Store, d.APIID, d.APIHash, d.Logger)
	result, err := auth.Authenticate(ctx, session)
	if err != nil {
		conn.Close()
		return err
	}

	// The driver outlives ctx so a pending sign-out can still go through.
	driveCtx, stopDriver := context.WithCancel(context.Background())
	defer stopDriver()

	handle := client.Handle()
	driveErr := make(chan error, 1)
	go func() {
		driveErr <- client.Run(driveCtx)
	}()

	dispatcher := handler.NewDispatcher(handle, handle, d.Reporter, d.Logger, d.Middleware...)
	dispatchErr := dispatcher.Run(ctx)
	if ctx.Err() != nil && errors.Is(dispatchErr, ctx.Err()) {
		d.Logger.Info("Shutting down")
		dispatchErr = nil
	}

	if result.SignOutOnExit {
		if err := handle.SignOut(context.WithoutCancel(ctx)); err != nil {
			d.Logger.Error("Failed to sign out of unsaved session", zap.Error(err))
		} else {
			d.Logger.Info("Signed out of unsaved session")
		}
	}

	stopDriver()
	return errors.Join(dispatchErr, <-driveErr)
}
