package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Strob0t/NeuroFlow/internal/adapter/genai"
	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/domain/task"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
)

// envVerdict is the environment builder's parsed answer. Booleans are
// pointers so an omitted field keeps its default instead of flipping off.
type envVerdict struct {
	MusicStyle            string               `json:"music_style"`
	MusicReasoning        string               `json:"music_reasoning"`
	Playlist              []task.PlaylistTrack `json:"playlist"`
	TimerMode             string               `json:"timer_mode"`
	TimerDuration         int                  `json:"timer_duration"`
	AmbientLayers         []string             `json:"ambient_layers"`
	BodyDoubleEnabled     *bool                `json:"body_double_enabled"`
	BodyDoubleStatus      string               `json:"body_double_status"`
	BreakActivities       []string             `json:"break_activities"`
	ThoughtParkingEnabled *bool                `json:"thought_parking_enabled"`
	ToolsEnabled          []string             `json:"tools_enabled"`
}

// buildEnvironment generates the focus workspace for the active task: music
// matched to the preferred genre, a BPM-repaired playlist, body double and
// activity-based breaks. Failure degrades to the per-type default setup.
// cog is a snapshot taken before the parallel fan-out; the live field is
// owned by the cognition branch while this runs.
func (e *Engine) buildEnvironment(ctx context.Context, work *session.State, cog cognitive.State) {
	e.stage(ctx, "environment_builder", func(ctx context.Context) {
		if work.Task == nil {
			return
		}
		taskType := work.Task.TaskType
		genre := extractGenre(work.Input)
		bodyName := work.Preferences.BodyDoubleName
		if bodyName == "" {
			bodyName = "Alex"
		}

		raw, err := e.gen.Generate(ctx, textgen.Request{
			System:      environmentSystemPrompt,
			Prompt:      environmentContext(work, cog, genre),
			Temperature: 0.6,
		})
		if err != nil {
			e.log.Warn("environment generation failed", "session_id", work.SessionID, "error", err)
			e.applyFallbackEnvironment(work, taskType, bodyName)
			return
		}
		var verdict envVerdict
		if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &verdict); err != nil {
			e.log.Warn("environment unparseable", "session_id", work.SessionID, "error", err)
			e.applyFallbackEnvironment(work, taskType, bodyName)
			return
		}

		env := work.Task.Environment
		if verdict.MusicStyle != "" {
			env.MusicStyle = verdict.MusicStyle
		}
		env.MusicReasoning = verdict.MusicReasoning
		if verdict.TimerMode != "" {
			env.TimerMode = verdict.TimerMode
		}
		if verdict.TimerDuration > 0 {
			env.TimerDuration = verdict.TimerDuration
		}
		env.AmbientLayers = verdict.AmbientLayers
		env.BreakActivities = verdict.BreakActivities
		env.Playlist = task.RepairPlaylist(verdict.Playlist)
		if len(verdict.ToolsEnabled) > 0 {
			env.ToolsEnabled = verdict.ToolsEnabled
		}
		if verdict.ThoughtParkingEnabled != nil {
			env.ThoughtParkingEnabled = *verdict.ThoughtParkingEnabled
		}

		bd := task.DefaultBodyDouble()
		bd.Name = bodyName
		if verdict.BodyDoubleEnabled != nil {
			bd.Enabled = *verdict.BodyDoubleEnabled
		}
		if verdict.BodyDoubleStatus != "" {
			bd.Status = verdict.BodyDoubleStatus
		}
		env.BodyDouble = bd

		work.Task.Environment = env
		work.FocusOutput = task.RenderEnvironment(env, genre)
	})
}

// applyFallbackEnvironment installs the per-type default workspace with a
// one-line summary.
func (e *Engine) applyFallbackEnvironment(work *session.State, taskType task.Type, bodyName string) {
	env := task.FallbackEnvironment(taskType, bodyName)
	work.Task.Environment = env
	work.FocusOutput = fmt.Sprintf("🎵 %s music | ⏱️ %d-min Pomodoro | 👤 %s is ready",
		capitalize(env.MusicStyle), env.TimerDuration, bodyName)
}

// environmentContext builds the environment builder prompt.
func environmentContext(work *session.State, cog cognitive.State, genre string) string {
	genreInstruction := "Choose the best genre based on task type."
	if genre != "any" {
		genreInstruction = "Use " + genre +
			" songs for the playlist! Find REAL songs in this genre with appropriate BPM for each section."
	}
	return fmt.Sprintf(
		"## Task\n"+
			"Description: %s\n"+
			"Type: %s\n\n"+
			"## User State\n"+
			"Energy: %d/10\n"+
			"Focus: %s\n\n"+
			"## User Preferences\n"+
			"Preferred music genre: %s\n"+
			"Body double preferred: %t\n"+
			"Body double name: %s\n\n"+
			"Generate the optimal focus environment for this task. %s",
		work.Task.Description,
		work.Task.TaskType,
		cog.EnergyLevel,
		cog.FocusLevel,
		genre,
		work.Preferences.BodyDoublePreferred,
		work.Preferences.BodyDoubleName,
		genreInstruction)
}

// extractGenre pulls a "Preferred Music Genre: X" marker out of structured
// task requests. Returns "any" when absent or explicitly any.
func extractGenre(input string) string {
	const marker = "Preferred Music Genre:"
	idx := strings.Index(input, marker)
	if idx < 0 {
		return "any"
	}
	rest := input[idx+len(marker):]
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		rest = rest[:comma]
	}
	genre := strings.TrimSpace(rest)
	if genre == "" || strings.EqualFold(genre, "any") {
		return "any"
	}
	return genre
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
