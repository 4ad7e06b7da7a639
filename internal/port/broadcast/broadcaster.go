// Package broadcast defines the port for publishing turn lifecycle events to
// interested consumers.
package broadcast

import "context"

// Broadcaster publishes typed pipeline events. Publishing is best-effort;
// implementations must not fail the turn.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Event types emitted by the engine.
const (
	EventTurnStarted    = "turn.started"
	EventStageCompleted = "turn.stage_completed"
	EventTurnSuspended  = "turn.suspended"
	EventTurnResumed    = "turn.resumed"
	EventTurnCompleted  = "turn.completed"
)
