package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Strob0t/NeuroFlow/internal/adapter/genai"
	"github.com/Strob0t/NeuroFlow/internal/domain/pattern"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/port/history"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
	"github.com/Strob0t/NeuroFlow/internal/port/vectorstore"
)

// patternVerdict is the detector's parsed answer.
type patternVerdict struct {
	Analysis struct {
		Pattern    string  `json:"pattern"`
		Confidence float64 `json:"confidence"`
	} `json:"analysis"`
	Intervention struct {
		Level    int    `json:"level"`
		Strategy string `json:"strategy"`
		Message  string `json:"message"`
	} `json:"intervention"`
}

// detectPattern runs one behavioral-loop detection pass: classify the recent
// transcript, suppress low-confidence interventions, learn from the outcome.
func (e *Engine) detectPattern(ctx context.Context, work *session.State) {
	e.stage(ctx, "pattern_detector", func(ctx context.Context) {
		recent := work.RecentMessages(15)
		if len(recent) == 0 {
			work.Pattern = pattern.Detection{}
			work.PatternOutput = ""
			return
		}

		taskDesc := "No active task"
		if work.Task != nil && work.Task.Description != "" {
			taskDesc = work.Task.Description
		}

		detected := pattern.None
		confidence := 0.0
		msg := ""

		raw, err := e.gen.Generate(ctx, textgen.Request{
			System:      patternSystemPrompt,
			Prompt:      e.patternContext(ctx, work, recent, taskDesc),
			Temperature: 0.3,
		})
		if err != nil {
			e.log.Warn("pattern detection failed", "session_id", work.SessionID, "error", err)
		} else {
			var verdict patternVerdict
			if err := json.Unmarshal([]byte(genai.ExtractJSON(raw)), &verdict); err != nil {
				e.log.Warn("pattern verdict unparseable", "session_id", work.SessionID, "error", err)
			} else {
				detected = pattern.Normalize(verdict.Analysis.Pattern)
				confidence = verdict.Analysis.Confidence
				msg = verdict.Intervention.Message
				if confidence < pattern.ConfidenceFloor {
					msg = ""
				}
			}
		}

		// Store the intervention for future similarity lookups. It starts
		// unsuccessful; outcomes are upgraded when a later turn shows the
		// loop broke.
		if detected != pattern.None && msg != "" && e.vectors != nil {
			doc := vectorstore.Document{
				ID:   uuid.NewString(),
				Text: msg,
				Metadata: map[string]string{
					"pattern_type": string(detected),
					"success":      "false",
					"context":      taskDesc,
				},
			}
			if err := e.vectors.Upsert(ctx, vectorstore.CollectionInterventions, doc); err != nil {
				e.log.Warn("store intervention", "session_id", work.SessionID, "error", err)
			}
		}

		d := work.Pattern
		d.CurrentPattern = detected
		d.Confidence = confidence
		if detected != pattern.None {
			now := e.now()
			d.PatternStartTime = &now
		} else {
			d.PatternStartTime = nil
		}
		d.RecordIntervention(msg)
		for _, m := range recentHuman(recent, 5) {
			d.RecordSentiment(pattern.Sentiment(m))
		}
		work.Pattern = d
		work.PatternOutput = msg

		if e.hist != nil && detected != pattern.None {
			ev := history.PatternEvent{
				SessionID:           work.SessionID,
				Timestamp:           e.now(),
				PatternType:         string(detected),
				Confidence:          confidence,
				InterventionUsed:    msg,
				InterventionSuccess: false,
			}
			if err := e.hist.LogPatternEvent(ctx, ev); err != nil {
				e.log.Warn("log pattern event", "session_id", work.SessionID, "error", err)
			}
		}
	})
}

// patternContext assembles the transcript, prior-pattern escalation hints and
// similar past interventions for the detector prompt.
func (e *Engine) patternContext(ctx context.Context, work *session.State, recent []session.Message, taskDesc string) string {
	var lines []string
	for _, m := range recent {
		content := m.Content
		if len(content) > 400 {
			content = content[:400]
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", m.Role, content))
	}

	escalationCtx := ""
	if prev := work.Pattern.CurrentPattern; prev != "" && prev != pattern.None {
		escalationCtx = fmt.Sprintf(
			"\n## Previous Pattern State\n"+
				"- Previously detected: %s\n"+
				"- Interventions tried: %d\n"+
				"- If the same pattern persists after intervention, ESCALATE to a higher level.",
			prev, len(work.Pattern.InterventionsAttempted))
	}

	pastCtx := ""
	if e.vectors != nil {
		matches, err := e.vectors.FindSimilar(ctx, vectorstore.CollectionInterventions, taskDesc, 3)
		if err != nil {
			e.log.Warn("similar interventions lookup", "session_id", work.SessionID, "error", err)
		} else {
			var worked []string
			for _, m := range matches {
				if m.Metadata["success"] != "true" {
					continue
				}
				text := m.Text
				if len(text) > 200 {
					text = text[:200]
				}
				worked = append(worked, fmt.Sprintf("- %s (pattern: %s)", text, m.Metadata["pattern_type"]))
			}
			if len(worked) > 0 {
				pastCtx = "\n## Past Successful Interventions\n" + strings.Join(worked, "\n")
			}
		}
	}

	return fmt.Sprintf("## Active Task\n%s\n\n## Conversation History (last %d messages)\n%s%s%s",
		taskDesc, len(lines), strings.Join(lines, "\n"), escalationCtx, pastCtx)
}

// escalate increments the escalation level and rewrites the turn input so the
// next detection pass uses a more direct strategy.
func (e *Engine) escalate(ctx context.Context, work *session.State) {
	e.stage(ctx, "pattern_escalation", func(ctx context.Context) {
		work.Input += fmt.Sprintf(
			"\n\n[SYSTEM: ESCALATING to Level %d. Previous: %s. Use MORE DIRECT intervention strategy.]",
			work.EscalationLevel+1, work.Pattern.CurrentPattern)
		work.EscalationLevel++
		if e.mtr != nil {
			e.mtr.Escalations.Add(ctx, 1)
		}
	})
}

// routeSeverity applies the detection routing rules with the configured
// escalation cap.
func routeSeverity(work *session.State, maxEscalations int) pattern.Severity {
	conf := work.Pattern.EffectiveConfidence()
	if conf > 0.7 && work.EscalationLevel < maxEscalations {
		return pattern.SeverityEscalate
	}
	if conf > 0.3 {
		return pattern.SeverityFull
	}
	return pattern.SeverityQuick
}

// recentHuman returns the content of the last n human messages in order.
func recentHuman(msgs []session.Message, n int) []string {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	var out []string
	for _, m := range msgs {
		if m.Role == session.RoleHuman {
			out = append(out, m.Content)
		}
	}
	return out
}
