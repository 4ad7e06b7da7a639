package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/NeuroFlow/internal/port/history"
)

// Store implements history.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) LogInteraction(ctx context.Context, rec history.Interaction) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO interaction_metrics (session_id, ts, message_length, typing_speed, response_time, focus_level, energy_level, crash_predicted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.SessionID, ts, rec.MessageLength, rec.TypingSpeed, rec.ResponseTime,
		rec.FocusLevel, rec.EnergyLevel, rec.CrashPredicted)
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}
	return nil
}

func (s *Store) LogPatternEvent(ctx context.Context, ev history.PatternEvent) error {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pattern_events (session_id, ts, pattern_type, confidence, intervention_used, intervention_success)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.SessionID, ts, ev.PatternType, ev.Confidence, ev.InterventionUsed, ev.InterventionSuccess)
	if err != nil {
		return fmt.Errorf("log pattern event: %w", err)
	}
	return nil
}

func (s *Store) SaveTask(ctx context.Context, rec history.TaskRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO task_history (task_id, description, estimated_duration, actual_duration, completion_date, energy_level_at_start, interruptions_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (task_id) DO UPDATE SET
		   description = EXCLUDED.description,
		   estimated_duration = EXCLUDED.estimated_duration`,
		rec.TaskID, rec.Description, rec.EstimatedDuration, rec.ActualDuration,
		rec.CompletionDate, rec.EnergyLevelAtStart, rec.InterruptionsCount)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// CompleteTask records the actual duration once a task finishes. The turn
// pipeline does not call this yet; it backs the task-completion surface that
// clients drive directly.
func (s *Store) CompleteTask(ctx context.Context, taskID string, actualDuration int, completedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE task_history SET actual_duration = $2, completion_date = $3 WHERE task_id = $1`,
		taskID, actualDuration, completedAt)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete task %s: no such task", taskID)
	}
	return nil
}

func (s *Store) TaskHistory(ctx context.Context, limit int) ([]history.TaskRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT task_id, description, estimated_duration, actual_duration, completion_date, energy_level_at_start, interruptions_count
		 FROM task_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("task history: %w", err)
	}
	defer rows.Close()

	var records []history.TaskRecord
	for rows.Next() {
		var rec history.TaskRecord
		if err := rows.Scan(&rec.TaskID, &rec.Description, &rec.EstimatedDuration,
			&rec.ActualDuration, &rec.CompletionDate, &rec.EnergyLevelAtStart,
			&rec.InterruptionsCount); err != nil {
			return nil, fmt.Errorf("scan task record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LogTimeBlock persists one focus block. Like CompleteTask this is driven by
// clients at session end rather than by the turn pipeline.
func (s *Store) LogTimeBlock(ctx context.Context, block history.TimeBlock) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO time_blocks (session_id, start_time, end_time, activity, focus_score)
		 VALUES ($1, $2, $3, $4, $5)`,
		block.SessionID, block.StartTime, block.EndTime, block.Activity, block.FocusScore)
	if err != nil {
		return fmt.Errorf("log time block: %w", err)
	}
	return nil
}
