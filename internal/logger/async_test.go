package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// captureHandler collects records so tests can assert on delivery.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
	delay   time.Duration
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler takes records by value
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func record(msg string) slog.Record {
	return slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
}

func TestAsyncHandlerDelivers(t *testing.T) {
	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, 100, 1)

	if err := ah.Handle(context.Background(), record("hello")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	ah.Close()

	if got := inner.count(); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
}

func TestAsyncHandlerConcurrentWriters(t *testing.T) {
	const writers = 50
	const perWriter = 100

	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, 10000, 4)

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				_ = ah.Handle(context.Background(), record("concurrent"))
			}
		}()
	}
	wg.Wait()
	ah.Close()

	if got := inner.count(); got != writers*perWriter {
		t.Fatalf("expected %d records, got %d", writers*perWriter, got)
	}
}

func TestAsyncHandlerDropsWhenSaturated(t *testing.T) {
	// A slow inner handler behind a one-slot queue forces drops.
	inner := &captureHandler{delay: 10 * time.Millisecond}
	ah := NewAsyncHandler(inner, 1, 1)

	for range 50 {
		_ = ah.Handle(context.Background(), record("flood"))
	}
	ah.Close()

	if ah.DroppedCount() == 0 {
		t.Fatal("expected drops under saturation, got none")
	}
}

func TestAsyncHandlerDropHook(t *testing.T) {
	inner := &captureHandler{delay: 10 * time.Millisecond}
	ah := NewAsyncHandler(inner, 1, 1)

	var mu sync.Mutex
	var totals []int64
	ah.SetOnDrop(func(total int64) {
		mu.Lock()
		totals = append(totals, total)
		mu.Unlock()
	})

	for range 50 {
		_ = ah.Handle(context.Background(), record("flood"))
	}
	ah.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(totals) == 0 {
		t.Fatal("expected the drop hook to fire under saturation")
	}
	if got := int64(len(totals)); totals[len(totals)-1] != got {
		t.Fatalf("expected running totals up to %d, last was %d", got, totals[len(totals)-1])
	}
	if totals[len(totals)-1] != ah.DroppedCount() {
		t.Fatalf("hook total %d disagrees with DroppedCount %d", totals[len(totals)-1], ah.DroppedCount())
	}
}

func TestAsyncHandlerCloseDrains(t *testing.T) {
	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, 1000, 2)

	const total = 200
	for range total {
		_ = ah.Handle(context.Background(), record("drain"))
	}
	ah.Close()

	if got := inner.count(); got != total {
		t.Fatalf("expected %d records after Close, got %d", total, got)
	}
}
