package resilience

import (
	"errors"
	"testing"
	"time"
)

var errDown = errors.New("collaborator down")

func TestClosedBreakerRunsCalls(t *testing.T) {
	b := NewBreaker("genai", 3, time.Second)
	called := false
	if err := b.Execute(func() error { called = true; return nil }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Fatal("expected fn to run")
	}
	if b.Status() != StatusClosed {
		t.Fatalf("expected closed, got %s", b.Status())
	}
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("genai", 3, time.Second)
	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errDown })
	}
	if b.Status() != StatusOpen {
		t.Fatalf("expected open, got %s", b.Status())
	}

	err := b.Execute(func() error {
		t.Fatal("fn must not run while open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestProbeAfterCooldown(t *testing.T) {
	now := time.Now()
	b := NewBreaker("chroma", 2, time.Second)
	b.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_ = b.Execute(func() error { return errDown })
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen before cooldown, got %v", err)
	}

	now = now.Add(2 * time.Second)
	if b.Status() != StatusHalfOpen {
		t.Fatalf("expected half_open after cooldown, got %s", b.Status())
	}

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("expected probe to run, got %v", err)
	}
	if b.Status() != StatusClosed {
		t.Fatalf("expected closed after successful probe, got %s", b.Status())
	}
}

func TestFailedProbeReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker("chroma", 2, time.Second)
	b.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_ = b.Execute(func() error { return errDown })
	}
	now = now.Add(2 * time.Second)

	_ = b.Execute(func() error { return errDown })
	if b.Status() != StatusOpen {
		t.Fatalf("expected open after failed probe, got %s", b.Status())
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after reopen, got %v", err)
	}
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	b := NewBreaker("genai", 3, time.Second)

	_ = b.Execute(func() error { return errDown })
	_ = b.Execute(func() error { return errDown })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errDown })
	_ = b.Execute(func() error { return errDown })

	if b.Status() != StatusClosed {
		t.Fatalf("expected closed after streak reset, got %s", b.Status())
	}
}

func TestOpenErrorNamesBreaker(t *testing.T) {
	b := NewBreaker("genai", 1, time.Minute)
	_ = b.Execute(func() error { return errDown })
	err := b.Execute(func() error { return nil })
	if err == nil || err.Error() != "genai: circuit breaker is open" {
		t.Fatalf("expected named open error, got %v", err)
	}
}
