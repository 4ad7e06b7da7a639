// Package nats implements the broadcast port using NATS JetStream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const streamName = "NEUROFLOW"

// Broadcaster publishes turn lifecycle events to NATS JetStream so UIs and
// companion services can follow a session live.
type Broadcaster struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	log *slog.Logger
}

// Connect establishes a connection to NATS and ensures the JetStream stream exists.
func Connect(ctx context.Context, url string, log *slog.Logger) (*Broadcaster, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	// Ensure the stream exists with subjects matching our event names.
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"sessions.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	log.Info("nats connected", "url", url, "stream", streamName)
	return &Broadcaster{nc: nc, js: js, log: log}, nil
}

// BroadcastEvent implements broadcast.Broadcaster. Events are best-effort:
// failures are logged and never fail the turn.
func (b *Broadcaster) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("broadcast marshal failed", "event", eventType, "error", err)
		return
	}

	subject := "sessions." + eventType
	if _, err := b.js.Publish(ctx, subject, data); err != nil {
		b.log.Error("broadcast publish failed", "subject", subject, "error", err)
	}
}

// Subscribe registers a handler for events on the given subject filter, for
// example "sessions.turn.>". The returned function stops the consumer.
func (b *Broadcaster) Subscribe(ctx context.Context, subject string, handler func(subject string, data []byte)) (func(), error) {
	consumer, err := b.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("nats consumer create: %w", err)
	}

	cons, err := consumer.Consume(func(msg jetstream.Msg) {
		handler(msg.Subject(), msg.Data())
		if ackErr := msg.Ack(); ackErr != nil {
			b.log.Error("nats ack failed", "error", ackErr)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("nats consume: %w", err)
	}

	return cons.Stop, nil
}

// Close shuts down the NATS connection.
func (b *Broadcaster) Close() error {
	b.nc.Close()
	return nil
}
