package nats

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/config"
	"github.com/Strob0t/NeuroFlow/internal/logger"
	"github.com/Strob0t/NeuroFlow/internal/port/broadcast"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T) *Broadcaster {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	log, closer := logger.New(config.Logging{Level: "error", Service: "nats-test"})
	t.Cleanup(closer.Close)

	b, err := Connect(context.Background(), url, log)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return b
}

func TestBroadcastAndSubscribe(t *testing.T) {
	b := testConnect(t)
	ctx := context.Background()

	type event struct {
		SessionID string `json:"session_id"`
		Stage     string `json:"stage"`
	}

	var mu sync.Mutex
	var got []event

	stop, err := b.Subscribe(ctx, "sessions."+broadcast.EventStageCompleted, func(_ string, data []byte) {
		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Errorf("unmarshal event: %v", err)
			return
		}
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()

	b.BroadcastEvent(ctx, broadcast.EventStageCompleted, event{
		SessionID: "sess-1",
		Stage:     "pattern_interrupt",
	})

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for broadcast event")
		}
		time.Sleep(50 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0].SessionID != "sess-1" || got[0].Stage != "pattern_interrupt" {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func TestBroadcastUnmarshalablePayloadDoesNotPanic(t *testing.T) {
	b := testConnect(t)

	// Channels cannot be marshaled; the event must be dropped quietly.
	b.BroadcastEvent(context.Background(), broadcast.EventTurnStarted, make(chan int))
}
