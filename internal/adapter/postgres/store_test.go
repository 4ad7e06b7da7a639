package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/NeuroFlow/internal/adapter/postgres"
	"github.com/Strob0t/NeuroFlow/internal/config"
	"github.com/Strob0t/NeuroFlow/internal/port/history"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := config.Defaults().Postgres
	cfg.DSN = dsn
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool)
}

func TestLogInteraction(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.LogInteraction(ctx, history.Interaction{
		SessionID:     uuid.NewString(),
		MessageLength: 42,
		TypingSpeed:   3.5,
		ResponseTime:  12.0,
		FocusLevel:    "high",
		EnergyLevel:   8,
	})
	if err != nil {
		t.Fatalf("LogInteraction: %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	taskID := uuid.NewString()
	err := store.SaveTask(ctx, history.TaskRecord{
		TaskID:             taskID,
		Description:        "write quarterly report",
		EstimatedDuration:  45,
		EnergyLevelAtStart: 7,
	})
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	// Saving again with a new estimate must upsert, not fail.
	err = store.SaveTask(ctx, history.TaskRecord{
		TaskID:            taskID,
		Description:       "write quarterly report",
		EstimatedDuration: 67,
	})
	if err != nil {
		t.Fatalf("SaveTask upsert: %v", err)
	}

	if err := store.CompleteTask(ctx, taskID, 80, time.Now()); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	records, err := store.TaskHistory(ctx, 50)
	if err != nil {
		t.Fatalf("TaskHistory: %v", err)
	}
	found := false
	for _, rec := range records {
		if rec.TaskID == taskID {
			found = true
			if rec.EstimatedDuration != 67 {
				t.Errorf("expected estimate 67, got %d", rec.EstimatedDuration)
			}
			if rec.ActualDuration != 80 {
				t.Errorf("expected actual 80, got %d", rec.ActualDuration)
			}
			if rec.CompletionDate == nil {
				t.Error("expected completion date to be set")
			}
		}
	}
	if !found {
		t.Fatal("saved task not returned by TaskHistory")
	}
}

func TestCompleteTaskMissing(t *testing.T) {
	store := setupStore(t)

	err := store.CompleteTask(context.Background(), uuid.NewString(), 10, time.Now())
	if err == nil {
		t.Fatal("expected error completing unknown task")
	}
}

func TestLogPatternEventAndTimeBlock(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	err := store.LogPatternEvent(ctx, history.PatternEvent{
		SessionID:        sessionID,
		PatternType:      "task_initiation_failure",
		Confidence:       0.8,
		InterventionUsed: "2-minute rule",
	})
	if err != nil {
		t.Fatalf("LogPatternEvent: %v", err)
	}

	end := time.Now()
	err = store.LogTimeBlock(ctx, history.TimeBlock{
		SessionID:  sessionID,
		StartTime:  end.Add(-25 * time.Minute),
		EndTime:    &end,
		Activity:   "deep work",
		FocusScore: 0.9,
	})
	if err != nil {
		t.Fatalf("LogTimeBlock: %v", err)
	}
}
