package cognitive_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/domain/metrics"
)

func fixedScorer(now time.Time) *cognitive.Scorer {
	sc := cognitive.NewScorer()
	sc.Now = func() time.Time { return now }
	return sc
}

func TestCrashScoreEmptyMetrics(t *testing.T) {
	sc := fixedScorer(time.Now())
	score := sc.CrashScore(metrics.Interaction{}, 0)
	if score.Overall != 0 {
		t.Fatalf("expected zero score for empty metrics, got %v", score.Overall)
	}
}

func TestCrashScoreTypingDecline(t *testing.T) {
	sc := fixedScorer(time.Now())
	m := metrics.Interaction{TypingSpeedBaseline: 10, CurrentTypingSpeed: 5}
	score := sc.CrashScore(m, 0)
	// only the typing factor fires: 0.25 * (1 - 0.5) = 0.125
	if math.Abs(score.Overall-0.125) > 1e-9 {
		t.Fatalf("expected 0.125, got %v", score.Overall)
	}
	if math.Abs(score.Factors[cognitive.FactorTypingSpeed]-0.5) > 1e-9 {
		t.Fatalf("expected factor 0.5, got %v", score.Factors[cognitive.FactorTypingSpeed])
	}
}

func TestCrashScoreMonotonicInTypingDecline(t *testing.T) {
	sc := fixedScorer(time.Now())
	prev := -1.0
	for _, speed := range []float64{10, 8, 6, 4, 2} {
		m := metrics.Interaction{TypingSpeedBaseline: 10, CurrentTypingSpeed: speed}
		score := sc.CrashScore(m, 0)
		if score.Overall < prev {
			t.Fatalf("score decreased as typing got worse: %v after %v", score.Overall, prev)
		}
		prev = score.Overall
	}
}

func TestCrashScoreBreakOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	sc := fixedScorer(now)
	brk := now.Add(-90 * time.Minute)
	m := metrics.Interaction{LastBreak: &brk}
	score := sc.CrashScore(m, 0)
	// (90-45)/45 = 1.0, weighted 0.15
	if math.Abs(score.Factors[cognitive.FactorBreakOverdue]-1.0) > 1e-9 {
		t.Fatalf("expected break factor 1.0, got %v", score.Factors[cognitive.FactorBreakOverdue])
	}
	if math.Abs(score.Overall-0.15) > 1e-9 {
		t.Fatalf("expected overall 0.15, got %v", score.Overall)
	}
}

func TestCrashScoreSessionSigmoidMidpoint(t *testing.T) {
	sc := fixedScorer(time.Now())
	score := sc.CrashScore(metrics.Interaction{}, 90)
	if math.Abs(score.Factors[cognitive.FactorSessionFatigue]-0.5) > 1e-9 {
		t.Fatalf("expected sigmoid 0.5 at the midpoint, got %v", score.Factors[cognitive.FactorSessionFatigue])
	}
}

func TestCrashScoreCappedAtOne(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	sc := fixedScorer(now)
	brk := now.Add(-6 * time.Hour)
	m := metrics.Interaction{
		TypingSpeedBaseline: 10,
		CurrentTypingSpeed:  0.1,
		MessageLengths:      []float64{300, 280, 250, 5, 4, 3},
		ResponseTimes:       []float64{1, 1, 1, 30, 40, 50},
		LastBreak:           &brk,
	}
	score := sc.CrashScore(m, 600)
	if score.Overall > 1 {
		t.Fatalf("score above cap: %v", score.Overall)
	}
}

func TestFocusHyperfocus(t *testing.T) {
	sc := fixedScorer(time.Now())
	m := metrics.Interaction{
		MessageLengths:   []float64{80, 82, 81, 80, 83, 81, 82},
		AvgMessageLength: 81,
	}
	score := sc.CrashScore(m, 0)
	if got := cognitive.Focus(m, score); got != cognitive.FocusHyperfocus {
		t.Fatalf("expected hyperfocus, got %v", got)
	}
}

func TestFocusLowOnDecline(t *testing.T) {
	m := metrics.Interaction{
		MessageLengths:   []float64{200, 150, 100, 50, 20},
		AvgMessageLength: 104,
	}
	score := cognitive.Score{Overall: 0.4, Factors: map[string]float64{}}
	if got := cognitive.Focus(m, score); got != cognitive.FocusLow {
		t.Fatalf("expected low on decreasing lengths, got %v", got)
	}
}

func TestFocusHighNeedsSubstance(t *testing.T) {
	m := metrics.Interaction{
		MessageLengths:   []float64{60, 65, 70},
		AvgMessageLength: 65,
	}
	score := cognitive.Score{Overall: 0.1, Factors: map[string]float64{cognitive.FactorTopicDrift: 0.5}}
	if got := cognitive.Focus(m, score); got != cognitive.FocusHigh {
		t.Fatalf("expected high, got %v", got)
	}
}

func TestNextEnergyAndDopamine(t *testing.T) {
	prev := cognitive.State{FocusLevel: cognitive.FocusMedium, EnergyLevel: 7, DopamineBalance: 50}

	next := cognitive.Next(prev, cognitive.FocusLow, cognitive.Score{Overall: 0.7})
	if next.EnergyLevel != 5 {
		t.Fatalf("expected energy 5 at high score, got %d", next.EnergyLevel)
	}
	if next.DopamineBalance != 49 {
		t.Fatalf("expected dopamine 49, got %d", next.DopamineBalance)
	}

	next = cognitive.Next(prev, cognitive.FocusMedium, cognitive.Score{Overall: 0.4})
	if next.EnergyLevel != 6 {
		t.Fatalf("expected energy 6 at moderate score, got %d", next.EnergyLevel)
	}

	next = cognitive.Next(prev, cognitive.FocusHigh, cognitive.Score{Overall: 0.1})
	if next.EnergyLevel != 7 {
		t.Fatalf("expected stable energy at low score, got %d", next.EnergyLevel)
	}
}

func TestNextEnergyFloors(t *testing.T) {
	prev := cognitive.State{EnergyLevel: 1, DopamineBalance: 0}
	next := cognitive.Next(prev, cognitive.FocusLow, cognitive.Score{Overall: 0.9})
	if next.EnergyLevel != 1 {
		t.Fatalf("expected energy floor 1, got %d", next.EnergyLevel)
	}
	if next.DopamineBalance != 0 {
		t.Fatalf("expected dopamine floor 0, got %d", next.DopamineBalance)
	}
}

func TestNextCrashMinutesFloor(t *testing.T) {
	next := cognitive.Next(cognitive.Default(), cognitive.FocusLow, cognitive.Score{Overall: 0.99})
	if next.CrashPrediction.EstimatedMinutes != 5 {
		t.Fatalf("expected floor of 5 minutes, got %d", next.CrashPrediction.EstimatedMinutes)
	}
	next = cognitive.Next(cognitive.Default(), cognitive.FocusHigh, cognitive.Score{Overall: 0})
	if next.CrashPrediction.EstimatedMinutes != 60 {
		t.Fatalf("expected 60 minutes at zero score, got %d", next.CrashPrediction.EstimatedMinutes)
	}
}

func TestInterventionTiers(t *testing.T) {
	sc := fixedScorer(time.Now())

	msg := sc.Intervention(cognitive.FocusLow, cognitive.Score{
		Overall: 0.8,
		Factors: map[string]float64{
			cognitive.FactorTypingSpeed:  0.9,
			cognitive.FactorBreakOverdue: 0.7,
		},
	}, metrics.Interaction{})
	if !strings.Contains(msg, "Cognitive Overload Warning") {
		t.Fatalf("expected reset protocol, got %q", msg)
	}
	if !strings.Contains(msg, "typing speed decline") {
		t.Fatalf("expected factor evidence in message, got %q", msg)
	}

	msg = sc.Intervention(cognitive.FocusMedium, cognitive.Score{Overall: 0.5, Factors: map[string]float64{}}, metrics.Interaction{})
	if !strings.Contains(msg, "Gentle Check-in") {
		t.Fatalf("expected gentle check-in, got %q", msg)
	}

	msg = sc.Intervention(cognitive.FocusHigh, cognitive.Score{Overall: 0.1, Factors: map[string]float64{}}, metrics.Interaction{})
	if msg != "" {
		t.Fatalf("expected no intervention, got %q", msg)
	}
}

func TestInterventionHyperfocusNudge(t *testing.T) {
	now := time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)
	sc := fixedScorer(now)
	brk := now.Add(-75 * time.Minute)
	m := metrics.Interaction{LastBreak: &brk}
	msg := sc.Intervention(cognitive.FocusHyperfocus, cognitive.Score{Overall: 0.1, Factors: map[string]float64{}}, m)
	if !strings.Contains(msg, "Hyperfocus Detected") {
		t.Fatalf("expected hyperfocus nudge, got %q", msg)
	}
	if !strings.Contains(msg, "75min") {
		t.Fatalf("expected minutes in nudge, got %q", msg)
	}
}

func TestClampNormalizesOutOfRange(t *testing.T) {
	s := cognitive.State{FocusLevel: "weird", EnergyLevel: 14, DopamineBalance: -3}
	s.Clamp()
	if s.FocusLevel != cognitive.FocusMedium || s.EnergyLevel != 10 || s.DopamineBalance != 0 {
		t.Fatalf("clamp failed: %+v", s)
	}
}
