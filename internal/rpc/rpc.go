// Package rpc defines the remote calls the client issues and the single
// narrow contract they all travel through.
//
// A call value names a remote procedure and its arguments; the type
// parameter of Call ties it to the Go type its result decodes into:
//
//	full, err := rpc.Invoke[domain.FullUserInfo](ctx, invoker, rpc.GetFullUser{User: user})
//
// Invoke does not retry and applies no timeout of its own. Interpreting
// the returned error is always the caller's job.
package rpc

import (
	"context"
	"fmt"
)

// Request is a remote call of any result type
type Request interface {
	Method() string
}

// Call is a remote call whose result is a T. The set of calls is closed to
// this package.
type Call[T any] interface {
	Request
	decodes(T)
}

// Invoker executes remote calls
type Invoker interface {
	Invoke(ctx context.Context, req Request) (any, error)
}

// InvokerFunc adapts a function to Invoker
type InvokerFunc func(ctx context.Context, req Request) (any, error)

// Invoke calls f
func (f InvokerFunc) Invoke(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// Invoke runs call through inv and returns its typed result
func Invoke[T any](ctx context.Context, inv Invoker, call Call[T]) (T, error) {
	var zero T

	res, err := inv.Invoke(ctx, call)
	if err != nil {
		return zero, err
	}

	typed, ok := res.(T)
	if !ok {
		return zero, &InvocationError{
			Method: call.Method(),
			Err:    fmt.Errorf("unexpected result type %T", res),
		}
	}
	return typed, nil
}
