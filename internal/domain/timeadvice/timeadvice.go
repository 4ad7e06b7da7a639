// Package timeadvice produces time-reality advisories: ADHD-calibrated
// estimates, energy-curve context and mid-task time anchoring. Everything is
// deterministic text keyed off the clock and historical stats.
package timeadvice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EnergyPhase is one segment of the daily energy curve.
type EnergyPhase struct {
	Phase    string
	Modifier float64
	Tip      string
}

// PhaseAt returns the energy phase for the hour of t.
func PhaseAt(t time.Time) EnergyPhase {
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 9:
		return EnergyPhase{"Morning Ramp-up", 0.8,
			"Ease into work — start with medium tasks, save complex ones for 10 AM"}
	case hour >= 9 && hour < 12:
		return EnergyPhase{"Peak Performance", 1.0,
			"This is your golden window — tackle the hardest task NOW"}
	case hour >= 12 && hour < 14:
		return EnergyPhase{"Post-Lunch Dip", 0.6,
			"ADHD brains crash hard after lunch. Do easy/mechanical tasks or take a walk"}
	case hour >= 14 && hour < 17:
		return EnergyPhase{"Afternoon Recovery", 0.75,
			"Energy is rebuilding. Good for collaborative or creative work"}
	case hour >= 17 && hour < 21:
		return EnergyPhase{"Evening Mode", 0.7,
			"Executive function is declining — keep tasks simple and time-boxed"}
	default:
		return EnergyPhase{"Late Night", 0.5,
			"Reduced inhibition can help creativity but hurts accuracy. Avoid precision tasks."}
	}
}

// ExtractEstimate finds the first whole number between 1 and 480 in the
// input, treated as the user's minute estimate. Returns 0 when absent.
func ExtractEstimate(input string) int {
	for _, word := range strings.Fields(input) {
		if n, err := strconv.Atoi(word); err == nil && n >= 1 && n <= 480 {
			return n
		}
	}
	return 0
}

// HistoricalStats summarizes past performance on similar tasks.
type HistoricalStats struct {
	AvgDuration      float64
	Count            int
	EstimateAccuracy float64
}

// TaskRecord is one completed task from the history store.
type TaskRecord struct {
	Description       string
	EstimatedDuration int
	ActualDuration    int
}

// Stats aggregates records whose descriptions share at least two keywords
// with the given description and carry both durations.
func Stats(description string, history []TaskRecord) HistoricalStats {
	keywords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(description)) {
		keywords[w] = true
	}

	var relevant []TaskRecord
	for _, rec := range history {
		overlap := 0
		seen := map[string]bool{}
		for _, w := range strings.Fields(strings.ToLower(rec.Description)) {
			if keywords[w] && !seen[w] {
				overlap++
				seen[w] = true
			}
		}
		if overlap >= 2 && rec.ActualDuration > 0 && rec.EstimatedDuration > 0 {
			relevant = append(relevant, rec)
		}
	}
	if len(relevant) == 0 {
		return HistoricalStats{}
	}

	var actualSum, accSum float64
	for _, rec := range relevant {
		actualSum += float64(rec.ActualDuration)
		accSum += float64(rec.ActualDuration) / float64(rec.EstimatedDuration)
	}
	n := float64(len(relevant))
	return HistoricalStats{
		AvgDuration:      round1(actualSum / n),
		Count:            len(relevant),
		EstimateAccuracy: round2(accSum / n),
	}
}

// adhdMultiplier matches the task package's calibration factor.
const adhdMultiplier = 1.5

// StartAdvice renders the time-reality check for a freshly started task.
func StartAdvice(input string, stats HistoricalStats, now time.Time) string {
	var parts []string
	parts = append(parts, "### ⏱️ Time Reality Check\n")

	if est := ExtractEstimate(input); est > 0 {
		realistic := int(math.Round(float64(est) * adhdMultiplier))
		parts = append(parts, fmt.Sprintf(
			"**Your estimate:** %d min\n"+
				"**Calibrated estimate:** %d min "+
				"*(ADHD brains underestimate by ~50%% — this isn't a flaw, it's neurology)*\n",
			est, realistic))
	}

	if stats.AvgDuration > 0 {
		parts = append(parts, fmt.Sprintf(
			"📊 **Historical data:** Similar tasks took you **~%d min** on average (%d past tasks)\n",
			int(stats.AvgDuration), stats.Count))
		if stats.EstimateAccuracy > 0 {
			parts = append(parts, fmt.Sprintf(
				"   Your estimates are typically %d%% of actual time\n",
				int(stats.EstimateAccuracy*100)))
		}
	}

	phase := PhaseAt(now)
	parts = append(parts, fmt.Sprintf(
		"\n**🔋 Energy Phase:** %s (modifier: %gx)\n💡 *%s*",
		phase.Phase, phase.Modifier, phase.Tip))

	return strings.Join(parts, "\n")
}

// MidTaskAdvice renders a time anchor for a task in progress, or empty when
// no anchor is due. elapsed and estimated are in minutes.
func MidTaskAdvice(elapsed, estimated int) string {
	if elapsed <= 0 {
		return ""
	}
	remaining := max(0, estimated-elapsed)

	switch {
	case float64(elapsed) > float64(estimated)*1.3:
		over := elapsed - estimated
		return fmt.Sprintf(
			"### ⏱️ Time Awareness\n"+
				"You've been working for **%d min** (estimated %d min — you're %d min over).\n\n"+
				"This is normal for ADHD! Two options:\n"+
				"1. 🎯 **Wrap-up mode**: Set a 10-min timer to finish current section\n"+
				"2. 📐 **Recalibrate**: Add %d min and keep going\n\n"+
				"*No judgment — time blindness means your brain literally can't feel time passing.*",
			elapsed, estimated, over, int(float64(over)*adhdMultiplier))
	case remaining <= 5:
		return fmt.Sprintf(
			"### ⏱️ Final Stretch!\n"+
				"**%d min** left on your estimate. You're in the home stretch! 🏁\n"+
				"Focus on wrapping up, not starting new things.",
			remaining)
	case elapsed >= 30 && elapsed%20 < 3:
		status := "on track 🟢"
		if float64(elapsed) > float64(estimated)*0.8 {
			status = "slightly behind but fine 🟡"
		}
		return fmt.Sprintf(
			"### ⏱️ Time Check\n**%d min in** / ~%d min remaining. You're %s.",
			elapsed, remaining, status)
	}
	return ""
}

// CheckinAdvice renders the status table for an explicit check-in on an
// active task.
func CheckinAdvice(description string, elapsed, estimated, progressPercent int, now time.Time) string {
	status := "🟢 On track"
	if elapsed > estimated {
		status = "🟡 Over estimate"
	}
	phase := PhaseAt(now)
	return fmt.Sprintf(
		"### 📊 Session Check-in\n\n"+
			"| Metric | Value |\n|--------|-------|\n"+
			"| Task | %s |\n"+
			"| Time | %d min / %d min estimated |\n"+
			"| Progress | %d%% |\n"+
			"| Status | %s |\n"+
			"| Energy Phase | %s |\n\n"+
			"💡 *%s*",
		description, elapsed, estimated, progressPercent, status, phase.Phase, phase.Tip)
}

// SessionSummary renders the check-in text when no task is active.
func SessionSummary(sessionMinutes int, now time.Time) string {
	phase := PhaseAt(now)
	return fmt.Sprintf(
		"### 📊 Session Summary\n"+
			"You've been in this session for **%d min**.\n"+
			"No active task — ready to start one?\n"+
			"Energy Phase: **%s** — %s",
		sessionMinutes, phase.Phase, phase.Tip)
}

func round1(v float64) float64 { return float64(int(v*10+0.5)) / 10 }
func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }
