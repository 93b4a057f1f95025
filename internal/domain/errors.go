package domain

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned by every handle operation once the
// connection has been driven to completion
var ErrConnectionClosed = errors.New("connection closed")

// ConnectError wraps a failure to establish the initial connection
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// PasswordRequiredError is returned by sign-in when the account has
// two-factor protection enabled
type PasswordRequiredError struct {
	Token PasswordToken
}

func (e *PasswordRequiredError) Error() string {
	return "account password required"
}

// AuthError is an unrecoverable failure of the sign-in flow
type AuthError struct {
	State AuthState
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed in state %s: %v", e.State, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// StorageError wraps a session storage failure
type StorageError struct {
	Op       string
	Location string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session %s %s: %v", e.Op, e.Location, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
