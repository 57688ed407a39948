package aiqueue

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPrompt      = errors.New("empty prompt")
	ErrQueueClosed      = errors.New("ai queue closed")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

type Kind int

const (
	KindPermanent Kind = iota
	KindRetryable
)

func (k Kind) String() string {
	if k == KindRetryable {
		return "retryable"
	}
	return "permanent"
}

// UpstreamError is what Upstream implementations return so the queue never has
// to guess retryability from message text.
type UpstreamError struct {
	StatusCode int
	Retry      bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *UpstreamError) Retryable() bool {
	return e != nil && e.Retry
}

// IsRetryable reports whether any error in err's chain declares itself
// retryable. Errors that say nothing are permanent.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// Error is the terminal failure handed back to callers.
type Error struct {
	Kind     Kind
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai request failed (%s, %d attempt(s)): %v", e.Kind, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
