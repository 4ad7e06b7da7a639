package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/NeuroFlow/internal/adapter/genai"
	"github.com/Strob0t/NeuroFlow/internal/adapter/ristretto"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/domain/task"
	"github.com/Strob0t/NeuroFlow/internal/port/history"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
	"github.com/Strob0t/NeuroFlow/internal/port/vectorstore"
)

// buildPlan generates a context package for the requested task, repairs its
// structural gaps, installs it as the active task and renders the markdown
// package for synthesis.
func (e *Engine) buildPlan(ctx context.Context, work *session.State) {
	e.stage(ctx, "task_planner", func(ctx context.Context) {
		plan := e.generatePlan(ctx, work)
		e.rngMu.Lock()
		antiRepMode := plan.Repair(e.rng)
		e.rngMu.Unlock()

		est := plan.TaskAnalysis.EstimatedMinutes
		if est <= 0 {
			est = 30
			plan.TaskAnalysis.EstimatedMinutes = est
		}
		taskType := task.NormalizeType(plan.TaskAnalysis.TaskType)

		milestones := make([]string, 0, len(plan.Milestones))
		for _, m := range plan.Milestones {
			milestones = append(milestones, m.Label)
		}

		env := task.DefaultEnvironment()
		if plan.EnvironmentConfig.MusicStyle != "" {
			env.MusicStyle = plan.EnvironmentConfig.MusicStyle
		}
		if plan.EnvironmentConfig.TimerMode != "" {
			env.TimerMode = plan.EnvironmentConfig.TimerMode
		}
		if len(plan.EnvironmentConfig.ToolsEnabled) > 0 {
			env.ToolsEnabled = plan.EnvironmentConfig.ToolsEnabled
		}
		env.VideoURL = plan.EnvironmentConfig.VideoSearchTerm
		if plan.EnvironmentConfig.Layout != "" {
			env.Layout = plan.EnvironmentConfig.Layout
		}
		if work.Preferences.BodyDoubleName != "" {
			env.BodyDouble.Name = work.Preferences.BodyDoubleName
		}
		env.BodyDouble.Enabled = work.Preferences.BodyDoublePreferred

		now := e.now()
		info := &task.Info{
			ID:                  uuid.NewString(),
			Description:         work.Input,
			TaskType:            taskType,
			StartTime:           &now,
			EstimatedDuration:   est,
			RealisticDuration:   task.RealisticDuration(est),
			Plan:                plan,
			Environment:         env,
			ProgressMilestones:  milestones,
			DopamineCheckpoints: plan.DopamineCheckpoints,
			InitiationRitual:    plan.InitiationRitual.EnvironmentPrep,
			AntiRepetitionMode:  antiRepMode,
		}
		work.Task = info
		work.ContextOutput = task.RenderPlan(work.Input, plan)

		e.indexTask(ctx, work, info)
	})
}

// generatePlan asks the model for a plan; generation or parse failure falls
// back to the deterministic default package.
func (e *Engine) generatePlan(ctx context.Context, work *session.State) *task.Plan {
	raw, err := e.gen.Generate(ctx, textgen.Request{
		System:      plannerSystemPrompt,
		Prompt:      e.plannerContext(ctx, work),
		Temperature: 0.7,
	})
	if err != nil {
		e.log.Warn("plan generation failed", "session_id", work.SessionID, "error", err)
		return task.Fallback(work.Input)
	}
	var plan task.Plan
	if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &plan); err != nil {
		e.log.Warn("plan unparseable", "session_id", work.SessionID, "error", err)
		return task.Fallback(work.Input)
	}
	return &plan
}

// plannerContext builds the planning prompt: user state, time-of-day energy
// context and similar past tasks for calibration.
func (e *Engine) plannerContext(ctx context.Context, work *session.State) string {
	similarCtx := ""
	if matches := e.similarTasks(ctx, work.Input); len(matches) > 0 {
		var lines []string
		for _, m := range matches {
			actual := m.Metadata["actual_duration"]
			if actual == "" {
				actual = "?"
			}
			load := m.Metadata["cognitive_load"]
			if load == "" {
				load = "?"
			}
			lines = append(lines, fmt.Sprintf("- %s (took %s min, load: %s)", m.Text, actual, load))
		}
		similarCtx = "\n\nHistorical similar tasks:\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(
		"## Task Request\n%s\n\n"+
			"## User's Current State\n"+
			"- Energy level: %d/10\n"+
			"- Current focus: %s\n"+
			"- Time of day: %s\n"+
			"%s\n\n"+
			"Design a comprehensive context package for this task. Be extremely specific — "+
			"no vague instructions. Every step should be concrete and immediately actionable. "+
			"Include thought_parking config and specific break activities for the task type.",
		work.Input,
		work.Cognitive.EnergyLevel,
		work.Cognitive.FocusLevel,
		timeOfDayContext(e.now()),
		similarCtx)
}

// similarTasks queries the task collection, memoized through the cache.
func (e *Engine) similarTasks(ctx context.Context, query string) []vectorstore.Match {
	if e.vectors == nil {
		return nil
	}
	key := ristretto.SimilarKey(vectorstore.CollectionTasks, query)
	if e.cache != nil {
		if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			var cached []vectorstore.Match
			if json.Unmarshal(data, &cached) == nil {
				return cached
			}
		}
	}
	matches, err := e.vectors.FindSimilar(ctx, vectorstore.CollectionTasks, query, 3)
	if err != nil {
		e.log.Warn("similar tasks lookup", "error", err)
		return nil
	}
	if e.cache != nil {
		if data, err := json.Marshal(matches); err == nil {
			_ = e.cache.Set(ctx, key, data, cacheTTL)
		}
	}
	return matches
}

// indexTask stores the new task for future similarity lookups and persists it
// in the history store. Both are best-effort.
func (e *Engine) indexTask(ctx context.Context, work *session.State, info *task.Info) {
	if e.vectors != nil {
		doc := vectorstore.Document{
			ID:   info.ID,
			Text: info.Description,
			Metadata: map[string]string{
				"cognitive_load":     info.Plan.TaskAnalysis.CognitiveLoad,
				"estimated_duration": strconv.Itoa(info.EstimatedDuration),
				"task_type":          string(info.TaskType),
			},
		}
		if err := e.vectors.Upsert(ctx, vectorstore.CollectionTasks, doc); err != nil {
			e.log.Warn("index task", "task_id", info.ID, "error", err)
		}
	}
	if e.hist != nil {
		rec := history.TaskRecord{
			TaskID:             info.ID,
			Description:        info.Description,
			EstimatedDuration:  info.EstimatedDuration,
			EnergyLevelAtStart: work.Cognitive.EnergyLevel,
		}
		if err := e.hist.SaveTask(ctx, rec); err != nil {
			e.log.Warn("save task", "task_id", info.ID, "error", err)
		}
	}
}

// timeOfDayContext names the energy band the planner should design around.
func timeOfDayContext(now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 6 && hour < 10:
		return "Morning (typically rising energy for most people)"
	case hour >= 10 && hour < 14:
		return "Late morning/early afternoon (peak cognitive window for many)"
	case hour >= 14 && hour < 17:
		return "Afternoon (common post-lunch dip — ADHD brains especially vulnerable)"
	case hour >= 17 && hour < 21:
		return "Evening (second wind possible, but executive function declining)"
	default:
		return "Late night (reduced inhibition — can help creativity, hurts focus tasks)"
	}
}
