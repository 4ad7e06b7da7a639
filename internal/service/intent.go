package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Strob0t/NeuroFlow/internal/adapter/genai"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
)

// intentVerdict is the classifier's chain-of-thought answer.
type intentVerdict struct {
	Reasoning      string `json:"reasoning"`
	Intent         string `json:"intent"`
	EmotionalState string `json:"emotional_state"`
	Urgency        string `json:"urgency"`
	ADHDSignal     string `json:"adhd_signal"`
}

// classifyIntent routes the turn. An empty message short-circuits to general
// chat; classifier failure degrades the same way so a turn never dies here.
func (e *Engine) classifyIntent(ctx context.Context, work *session.State) {
	e.stage(ctx, "intent_router", func(ctx context.Context) {
		if strings.TrimSpace(work.Input) == "" {
			work.Intent = session.IntentGeneralChat
			work.Priority = false
			return
		}

		raw, err := e.gen.Generate(ctx, textgen.Request{
			System:      intentSystemPrompt,
			Prompt:      intentContext(work),
			Temperature: 0.1,
		})

		verdict := intentVerdict{Intent: string(session.IntentGeneralChat), Urgency: "low"}
		if err != nil {
			e.log.Warn("intent classification failed", "session_id", work.SessionID, "error", err)
		} else if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &verdict); err != nil {
			e.log.Warn("intent verdict unparseable", "session_id", work.SessionID, "error", err)
			verdict = intentVerdict{Intent: string(session.IntentGeneralChat), Urgency: "low"}
		}

		work.Intent = session.NormalizeIntent(verdict.Intent)
		work.Priority = verdict.Urgency == "high" ||
			work.Intent == session.IntentStuck || work.Intent == session.IntentDistracted
	})
}

// intentContext builds the session snapshot the classifier reasons over.
func intentContext(work *session.State) string {
	taskDesc := "No active task"
	if work.Task != nil && work.Task.Description != "" {
		taskDesc = work.Task.Description
	}

	var history strings.Builder
	for _, m := range work.RecentMessages(6) {
		content := m.Content
		if len(content) > 200 {
			content = content[:200]
		}
		fmt.Fprintf(&history, "  [%s]: %s\n", m.Role, content)
	}

	return fmt.Sprintf(
		"## Current Session Context\n"+
			"- Active task: %s\n"+
			"- Focus level: %s\n"+
			"- Energy level: %d/10\n"+
			"- Crash risk: %d%%\n"+
			"- Interactions this session: %d\n"+
			"\n## Recent Conversation\n%s"+
			"\n## Current User Message\n%s",
		taskDesc,
		work.Cognitive.FocusLevel,
		work.Cognitive.EnergyLevel,
		int(work.Cognitive.CrashPrediction.Likelihood*100),
		work.InteractionCount,
		history.String(),
		work.Input)
}
