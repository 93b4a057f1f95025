package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing has been stored yet
var ErrNotFound = errors.New("session not found")

// SessionRepository persists the opaque session blob
type SessionRepository interface {
	// Load returns the stored blob or ErrNotFound
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob. A failed Save must leave the
	// previously stored blob intact.
	Save(ctx context.Context, blob []byte) error
	// Location describes where the blob lives, for logs and errors
	Location() string
}
