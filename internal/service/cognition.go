package service

import (
	"context"

	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
)

// predictCognition runs the multi-factor crash analysis and advances the
// carried cognitive state. Purely deterministic; no generation involved.
func (e *Engine) predictCognition(ctx context.Context, work *session.State) {
	e.stage(ctx, "cognitive_predictor", func(ctx context.Context) {
		score := e.scorer.CrashScore(work.Metrics, work.SessionMinutes(e.now()))
		focus := cognitive.Focus(work.Metrics, score)

		work.CognitiveOutput = e.scorer.Intervention(focus, score, work.Metrics)
		work.Cognitive = cognitive.Next(work.Cognitive, focus, score)

		if e.mtr != nil {
			e.mtr.CrashScore.Record(ctx, score.Overall)
		}
	})
}
