package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/junaidjmomin/financial/internal/prompt"
)

// Kind classifies a failed dispatch for the caller.
type Kind string

const (
	// KindRateLimited means the provider rejected the request for
	// quota reasons; the only retryable kind.
	KindRateLimited Kind = "rate_limited"
	// KindUnauthorized means a bad or missing credential.
	KindUnauthorized Kind = "unauthorized"
	// KindUnavailable covers any other provider failure.
	KindUnavailable Kind = "unavailable"
	// KindMalformed means the provider answered without usable text.
	KindMalformed Kind = "malformed"
)

// Error is a classified dispatch failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error, defaulting to
// Unavailable for anything untyped.
func KindOf(err error) Kind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindUnavailable
}

// Generator is the external model collaborator. The production
// implementation is the Gemini adapter; tests inject fakes.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) (string, error)
}

// Backoff computes the delay before retry attempt (0-based): base * 2^attempt.
// Pure so the schedule is testable without waiting.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return base * time.Duration(1<<attempt)
}

// Dispatcher delivers requests with bounded retry under rate limiting.
// Every dispatch is independent; there is no shared backoff state
// across sends.
type Dispatcher struct {
	gen        Generator
	maxRetries int
	baseDelay  time.Duration
}

// NewDispatcher creates a dispatcher. maxRetries counts additional
// attempts after the first; negative values fall back to the default
// of 2. baseDelay <= 0 falls back to one second.
func NewDispatcher(gen Generator, maxRetries int, baseDelay time.Duration) *Dispatcher {
	if maxRetries < 0 {
		maxRetries = 2
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Dispatcher{
		gen:        gen,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Dispatch sends the request, retrying rate-limit failures with
// exponential backoff. Any other failure propagates immediately. After
// retries are exhausted the last error observed is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, req prompt.Request) (string, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		text, err := d.gen.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if KindOf(err) != KindRateLimited {
			return "", err
		}
		if attempt >= d.maxRetries {
			return "", lastErr
		}

		if err := d.wait(ctx, Backoff(d.baseDelay, attempt)); err != nil {
			return "", err
		}
	}
}

// wait suspends the current send until the delay elapses or the
// context is canceled.
func (d *Dispatcher) wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
