package gtrans

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a token bucket limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// RateLimitedTranslator wraps a Translator with rate limiting.
type RateLimitedTranslator struct {
	translator Translator
	limiter    *rate.Limiter
}

// NewRateLimitedTranslator creates a new rate-limited translator.
func NewRateLimitedTranslator(t Translator, cfg RateLimitConfig) *RateLimitedTranslator {
	return &RateLimitedTranslator{
		translator: t,
		limiter:    NewRateLimiter(cfg),
	}
}

// Translate implements Translator with rate limiting.
func (r *RateLimitedTranslator) Translate(ctx context.Context, text, src, dest string) (*Translated, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return r.translator.Translate(ctx, text, src, dest)
}

// Limiter returns the underlying rate limiter for inspection.
func (r *RateLimitedTranslator) Limiter() *rate.Limiter {
	return r.limiter
}

// Verify RateLimitedTranslator implements Translator
var _ Translator = (*RateLimitedTranslator)(nil)
