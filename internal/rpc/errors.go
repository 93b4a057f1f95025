package rpc

import (
	"errors"
	"fmt"
)

// InvocationError is a failed remote call
type InvocationError struct {
	Method string
	Code   int    // server error code, zero for local failures
	Type   string // server error type, e.g. PHONE_CODE_INVALID
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: rpc error code %d: %s", e.Method, e.Code, e.Type)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is a server error of the given type
func IsType(err error, typ string) bool {
	var ie *InvocationError
	return errors.As(err, &ie) && ie.Type == typ
}
