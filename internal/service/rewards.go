package service

import (
	"context"

	"github.com/Strob0t/NeuroFlow/internal/domain/economy"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
)

// manageEconomy scores this turn's motivation events against the dopamine
// budget, regenerates the variable-ratio reward schedule and renders the
// economy summary for synthesis.
func (e *Engine) manageEconomy(ctx context.Context, work *session.State) {
	e.stage(ctx, "dopamine_manager", func(ctx context.Context) {
		now := e.now()
		var applied []economy.Transaction

		if work.Intent == session.IntentStartTask && work.Task != nil {
			pts := economy.Points[economy.TaskStarted]
			// Starting while tired is harder, so it earns more.
			if work.Cognitive.EnergyLevel < 5 {
				pts = int(float64(pts) * 1.5)
			}
			desc := work.Task.Description
			if len(desc) > 40 {
				desc = desc[:40]
			}
			applied = append(applied, economy.Transaction{
				EventType:   economy.TaskStarted,
				Points:      pts,
				Timestamp:   now,
				Description: "Started: " + desc,
			})
		}

		if work.PatternOutput != "" {
			applied = append(applied, economy.Transaction{
				EventType:   economy.PatternInterrupted,
				Points:      economy.Points[economy.PatternInterrupted],
				Timestamp:   now,
				Description: "Broke a negative loop — that takes real effort!",
			})
		}

		if work.Intent == session.IntentCheckIn {
			applied = append(applied, economy.Transaction{
				EventType:   economy.SmallMilestone,
				Points:      economy.Points[economy.SmallMilestone],
				Timestamp:   now,
				Description: "Checked in — staying engaged is a win",
			})
		}

		if work.Intent == session.IntentTakeBreak && work.CognitiveOutput != "" {
			applied = append(applied, economy.Transaction{
				EventType:   economy.TookBreakPreCrash,
				Points:      economy.Points[economy.TookBreakPreCrash],
				Timestamp:   now,
				Description: "Smart break — preventing a crash is self-care",
			})
		}

		work.Economy.Apply(applied...)

		estDur := 60
		if work.Task != nil && work.Task.EstimatedDuration > 0 {
			estDur = work.Task.EstimatedDuration
		}
		e.rngMu.Lock()
		schedule := economy.Schedule(estDur, e.rng)
		recommendation := economy.Recommendation(work.Economy.DailyBalance, e.rng)
		e.rngMu.Unlock()

		work.Economy.Forecast = economy.Forecast(work.Economy.DailyBalance)
		work.Economy.RewardSchedule = schedule
		work.Economy.NextRewardMinutes = 0
		if len(schedule) > 0 {
			work.Economy.NextRewardMinutes = schedule[0]
		}

		work.EconomyOutput = work.Economy.Summary(recommendation, applied)
	})
}
