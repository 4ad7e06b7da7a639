package service

import (
	"context"
	"encoding/json"

	"github.com/Strob0t/NeuroFlow/internal/adapter/ristretto"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/domain/timeadvice"
)

// taskHistoryLimit bounds how much history feeds the duration statistics.
const taskHistoryLimit = 50

// adviseTime produces the time-reality advisory: a calibrated estimate check
// for a freshly started task, elapsed-versus-estimate anchoring for an active
// one, or a session summary without one. A break marks the metrics so crash
// scoring resets its clock.
func (e *Engine) adviseTime(ctx context.Context, work *session.State) {
	e.stage(ctx, "time_advisor", func(ctx context.Context) {
		now := e.now()
		if work.Intent == session.IntentTakeBreak {
			work.Metrics.MarkBreak(now)
		}

		if work.Intent == session.IntentStartTask {
			work.TimeOutput = timeadvice.StartAdvice(
				work.Input, e.historicalStats(ctx, work.Input), now)
			return
		}

		if work.Task != nil && work.Task.Description != "" {
			elapsed := 0
			if work.Task.StartTime != nil {
				elapsed = int(now.Sub(*work.Task.StartTime).Minutes())
			}
			estimated := work.Task.EstimatedDuration
			if estimated <= 0 {
				estimated = 30
			}
			if work.Intent == session.IntentCheckIn {
				work.TimeOutput = timeadvice.CheckinAdvice(
					work.Task.Description, elapsed, estimated, work.Task.ProgressPercent, now)
			} else {
				work.TimeOutput = timeadvice.MidTaskAdvice(elapsed, estimated)
			}
			return
		}

		if work.Intent == session.IntentCheckIn {
			work.TimeOutput = timeadvice.SessionSummary(int(work.SessionMinutes(now)), now)
		}
	})
}

// historicalStats aggregates past durations for similar tasks, memoized
// through the cache.
func (e *Engine) historicalStats(ctx context.Context, description string) timeadvice.HistoricalStats {
	if e.hist == nil {
		return timeadvice.HistoricalStats{}
	}
	key := ristretto.TaskStatsKey(description)
	if e.cache != nil {
		if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			var cached timeadvice.HistoricalStats
			if json.Unmarshal(data, &cached) == nil {
				return cached
			}
		}
	}

	records, err := e.hist.TaskHistory(ctx, taskHistoryLimit)
	if err != nil {
		e.log.Warn("task history lookup", "error", err)
		return timeadvice.HistoricalStats{}
	}
	past := make([]timeadvice.TaskRecord, 0, len(records))
	for _, r := range records {
		past = append(past, timeadvice.TaskRecord{
			Description:       r.Description,
			EstimatedDuration: r.EstimatedDuration,
			ActualDuration:    r.ActualDuration,
		})
	}
	stats := timeadvice.Stats(description, past)

	if e.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = e.cache.Set(ctx, key, data, cacheTTL)
		}
	}
	return stats
}
