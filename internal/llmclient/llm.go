package llmclient

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the service answered with no usable text.
var ErrEmptyCompletion = errors.New("empty completion from LLM")

// Client is the single operation the pipeline needs from a language-model
// service. Cross-cutting concerns (retries, caching, logging) are applied
// via Middleware, not inside backends.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries
// (content rejected, request too large, bad credentials).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// TransientError indicates a failure worth retrying: rate limits,
// timeouts, 5xx-class responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func NewTransientError(err error) error {
	return &TransientError{Err: err}
}

// IsPermanent reports whether err is marked permanent. Unclassified errors
// are treated as transient so that network-level failures get retried.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
