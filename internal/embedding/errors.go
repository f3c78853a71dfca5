package embedding

import (
	"errors"
	"fmt"
	"time"
)

// Kind tells the caller whether repeating a failed call can succeed.
type Kind int

const (
	KindTerminal Kind = iota
	KindRetryable
)

func (k Kind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	default:
		return "terminal"
	}
}

// Error is returned by providers for every failed embedding call.
type Error struct {
	Provider string
	Kind     Kind
	// RetryAfter is the delay advertised by the remote side, zero when unknown.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s embedding failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err carries a retryable embedding failure.
func IsRetryable(err error) bool {
	var embErr *Error
	return errors.As(err, &embErr) && embErr.Kind == KindRetryable
}

func terminal(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindTerminal, Err: err}
}

func retryable(provider string, err error, after time.Duration) *Error {
	return &Error{Provider: provider, Kind: KindRetryable, RetryAfter: after, Err: err}
}
