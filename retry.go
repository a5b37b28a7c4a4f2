package gtrans

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is worth another attempt: transport
// failures flagged retryable, throttling and server-side statuses.
// Language, framing and decoding errors never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}

	var statusErr *UnexpectedStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	return false
}

// RetryTranslator wraps a Translator with retry logic. The Client itself
// never retries; callers opt in by wrapping it.
type RetryTranslator struct {
	translator Translator
	config     RetryConfig
}

// NewRetryTranslator creates a new translator with retry logic.
func NewRetryTranslator(t Translator, cfg RetryConfig) *RetryTranslator {
	return &RetryTranslator{
		translator: t,
		config:     cfg,
	}
}

// Translate implements Translator with retry logic.
func (r *RetryTranslator) Translate(ctx context.Context, text, src, dest string) (*Translated, error) {
	return WithRetry(ctx, r.config, func() (*Translated, error) {
		return r.translator.Translate(ctx, text, src, dest)
	})
}

// Verify RetryTranslator implements Translator
var _ Translator = (*RetryTranslator)(nil)
