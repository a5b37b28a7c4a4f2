package gtrans

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60, // 1 per second
		BurstSize:         3,
	})

	// Should be able to acquire burst size immediately
	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	// Fourth should fail
	if limiter.Allow() {
		t.Error("Expected fourth acquire to fail")
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	if limiter.Burst() != 60 {
		t.Errorf("Expected default burst 60, got %d", limiter.Burst())
	}
	if limiter.Limit() != 1 {
		t.Errorf("Expected default limit 1/s, got %v", limiter.Limit())
	}
}

func TestRateLimitedTranslator(t *testing.T) {
	inner := &stubTranslator{}
	translator := NewRateLimitedTranslator(inner, RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         1,
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := translator.Translate(context.Background(), "hello", "en", "es"); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// First call uses the burst, the next two wait ~100ms each
	if elapsed < 150*time.Millisecond {
		t.Errorf("Expected rate limiting to delay calls, took %v", elapsed)
	}

	if inner.calls() != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.calls())
	}
}

func TestRateLimitedTranslator_ContextCancelled(t *testing.T) {
	inner := &stubTranslator{}
	translator := NewRateLimitedTranslator(inner, RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	// Drain the bucket
	translator.Limiter().Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := translator.Translate(ctx, "hello", "en", "es")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got: %v", err)
	}
	if transportErr.Retryable {
		t.Error("cancelled wait should not be retryable")
	}
	if inner.calls() != 0 {
		t.Errorf("inner translator should not be called, got %d calls", inner.calls())
	}
}
