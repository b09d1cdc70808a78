package resilience

import (
	"errors"
	"testing"
	"time"
)

func testBreaker(threshold, maxProbes int, openTimeout time.Duration, now *time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   maxProbes,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_OpensAfterFailureStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
	b := testBreaker(2, 1, 5*time.Second, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
	b := testBreaker(1, 1, 5*time.Second, &now)

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
	b := testBreaker(1, 1, 5*time.Second, &now)

	b.RecordFailure()
	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error right after reopening, got %v", err)
	}
}

func TestCircuitBreaker_LimitsHalfOpenProbes(t *testing.T) {
	now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
	b := testBreaker(1, 2, 5*time.Second, &now)

	b.RecordFailure()
	now = now.Add(6 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("third probe should be rejected, got %v", err)
	}
}

func TestCircuitBreakerConfig_Normalize(t *testing.T) {
	got := CircuitBreakerConfig{}.Normalize()
	want := DefaultCircuitBreakerConfig()
	want.Enabled = false

	if got != want {
		t.Fatalf("normalized config = %+v, want %+v", got, want)
	}
}
