// Package history defines the port for the durable interaction and task
// history store.
package history

import (
	"context"
	"time"
)

// Interaction is one logged user turn with its computed scores.
type Interaction struct {
	SessionID      string
	Timestamp      time.Time
	MessageLength  int
	TypingSpeed    float64
	ResponseTime   float64
	FocusLevel     string
	EnergyLevel    int
	CrashPredicted bool
}

// PatternEvent is one detected behavioral pattern with its outcome.
type PatternEvent struct {
	SessionID           string
	Timestamp           time.Time
	PatternType         string
	Confidence          float64
	InterventionUsed    string
	InterventionSuccess bool
}

// TaskRecord is one planned or completed task.
type TaskRecord struct {
	TaskID             string
	Description        string
	EstimatedDuration  int
	ActualDuration     int
	CompletionDate     *time.Time
	EnergyLevelAtStart int
	InterruptionsCount int
}

// TimeBlock is one recorded focus block within a session.
type TimeBlock struct {
	SessionID  string
	StartTime  time.Time
	EndTime    *time.Time
	Activity   string
	FocusScore float64
}

// Store persists interaction history. All reads are most-recent-first.
type Store interface {
	LogInteraction(ctx context.Context, rec Interaction) error
	LogPatternEvent(ctx context.Context, ev PatternEvent) error
	SaveTask(ctx context.Context, rec TaskRecord) error
	CompleteTask(ctx context.Context, taskID string, actualDuration int, completedAt time.Time) error
	TaskHistory(ctx context.Context, limit int) ([]TaskRecord, error)
	LogTimeBlock(ctx context.Context, block TimeBlock) error
}
