package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
)

// fallbackGreeting is the response of last resort when every stage came back
// empty and generation failed.
const fallbackGreeting = "Hey! 👋 I'm here to help you navigate your tasks. " +
	"Tell me what you'd like to work on."

// synthesize folds all stage outputs into one coached response. Generation
// failure falls back to the highest-priority raw output. Stage outputs are
// cleared afterwards, so a quality-gate retry regenerates from the bare
// message and state.
func (e *Engine) synthesize(ctx context.Context, work *session.State) {
	e.stage(ctx, "response_synthesis", func(ctx context.Context) {
		var parts []string
		if work.PatternOutput != "" {
			parts = append(parts, "## Pattern Intervention (HIGH PRIORITY — address this first)\n"+work.PatternOutput)
		}
		if work.ContextOutput != "" {
			parts = append(parts, "## Context Package (present this prominently)\n"+work.ContextOutput)
		}
		if work.FocusOutput != "" {
			parts = append(parts, "## Focus Environment Setup\n"+work.FocusOutput)
		}
		if work.CognitiveOutput != "" {
			parts = append(parts, "## Cognitive Alert\n"+work.CognitiveOutput)
		}
		if work.TimeOutput != "" {
			parts = append(parts, "## Time Awareness\n"+work.TimeOutput)
		}
		if work.EconomyOutput != "" {
			parts = append(parts, "## Dopamine Economy\n"+work.EconomyOutput)
		}
		combined := strings.Join(parts, "\n\n---\n\n")

		prompt := fmt.Sprintf(
			"## User's Message\n%s\n\n"+
				"## Detected Intent: %s\n"+
				"## User's State: Focus=%s, Energy=%d/10, Dopamine=%d/100\n\n"+
				"## Agent Outputs to Synthesize\n%s\n\n"+
				"Create a single, natural response. If there's a context package, include all "+
				"its details formatted clearly. If there's a focus environment, mention what's "+
				"being set up (music, body double, timer). If there's dopamine info, weave in "+
				"the balance and recommendation naturally. Be warm, direct, and ADHD-friendly.",
			work.Input,
			work.Intent,
			work.Cognitive.FocusLevel,
			work.Cognitive.EnergyLevel,
			work.Economy.DailyBalance,
			combined)

		final, err := e.gen.Generate(ctx, textgen.Request{
			System:      responseSystemPrompt,
			Prompt:      prompt,
			Temperature: 0.7,
		})
		if err != nil || strings.TrimSpace(final) == "" {
			if err != nil {
				e.log.Warn("response synthesis failed", "session_id", work.SessionID, "error", err)
			}
			final = fallbackResponse(work)
		}

		work.Response = final
		work.ClearOutputs()
	})
}

// fallbackResponse picks the best raw stage output when synthesis fails. The
// context package wins, then the pattern intervention, then the rest.
func fallbackResponse(work *session.State) string {
	switch {
	case work.ContextOutput != "":
		return "Here's your focus plan! 🎯\n\n" + work.ContextOutput
	case work.PatternOutput != "":
		return work.PatternOutput
	case work.FocusOutput != "":
		return "🎵 Environment ready!\n\n" + work.FocusOutput
	case work.CognitiveOutput != "":
		return work.CognitiveOutput
	case work.EconomyOutput != "":
		return work.EconomyOutput
	case work.TimeOutput != "":
		return work.TimeOutput
	default:
		return fallbackGreeting
	}
}

// errorPhrases in a response indicate the generator leaked a failure to the
// user instead of coaching.
var errorPhrases = []string{
	"i'm having trouble",
	"something went wrong",
	"please try again",
	"error",
}

// qualityScore grades a response: 1.0 clean, 0.4 with one defect, 0.2 with
// more. Defects are being too short and containing error language.
func qualityScore(response string) float64 {
	issues := 0
	if len(strings.TrimSpace(response)) < 30 {
		issues++
	}
	lower := strings.ToLower(response)
	for _, phrase := range errorPhrases {
		if strings.Contains(lower, phrase) {
			issues++
			break
		}
	}
	switch issues {
	case 0:
		return 1.0
	case 1:
		return 0.4
	default:
		return 0.2
	}
}
