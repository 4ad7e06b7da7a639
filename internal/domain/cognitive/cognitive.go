// Package cognitive implements multi-factor crash-likelihood scoring, focus
// classification and the stateful energy/dopamine model derived from
// interaction metrics.
package cognitive

import (
	"math"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/domain/metrics"
)

// FocusLevel classifies the user's current attention state.
type FocusLevel string

const (
	FocusLow        FocusLevel = "low"
	FocusMedium     FocusLevel = "medium"
	FocusHigh       FocusLevel = "high"
	FocusHyperfocus FocusLevel = "hyperfocus"
)

// CrashPrediction estimates how likely and how soon a cognitive crash is.
type CrashPrediction struct {
	Likelihood       float64 `json:"likelihood"`
	EstimatedMinutes int     `json:"estimated_minutes"`
}

// State is the carried-forward cognitive state. Each pipeline pass consumes
// the previous value and produces the next.
type State struct {
	FocusLevel      FocusLevel      `json:"focus_level"`
	EnergyLevel     int             `json:"energy_level"`
	DopamineBalance int             `json:"dopamine_balance"`
	CrashPrediction CrashPrediction `json:"crash_prediction"`
}

// Default returns the state a fresh session starts from.
func Default() State {
	return State{
		FocusLevel:      FocusMedium,
		EnergyLevel:     7,
		DopamineBalance: 50,
		CrashPrediction: CrashPrediction{EstimatedMinutes: 999},
	}
}

// Clamp forces every field into its documented range.
func (s *State) Clamp() {
	s.EnergyLevel = clampInt(s.EnergyLevel, 0, 10)
	s.DopamineBalance = clampInt(s.DopamineBalance, 0, 100)
	s.CrashPrediction.Likelihood = clampFloat(s.CrashPrediction.Likelihood, 0, 1)
	if s.CrashPrediction.EstimatedMinutes < 0 {
		s.CrashPrediction.EstimatedMinutes = 0
	}
	switch s.FocusLevel {
	case FocusLow, FocusMedium, FocusHigh, FocusHyperfocus:
	default:
		s.FocusLevel = FocusMedium
	}
}

// Factor names used in score breakdowns and intervention text.
const (
	FactorTypingSpeed    = "typing_speed_decline"
	FactorMessageLength  = "message_length_trend"
	FactorResponseTime   = "response_time_trend"
	FactorBreakOverdue   = "break_overdue"
	FactorTopicDrift     = "topic_drift"
	FactorSessionFatigue = "session_duration"
)

// weights of the six crash factors. They sum to 1.
var weights = map[string]float64{
	FactorTypingSpeed:    0.25,
	FactorMessageLength:  0.20,
	FactorResponseTime:   0.20,
	FactorBreakOverdue:   0.15,
	FactorTopicDrift:     0.10,
	FactorSessionFatigue: 0.10,
}

// factorOrder is the stable iteration order for breakdown-dependent output.
var factorOrder = []string{
	FactorTypingSpeed,
	FactorMessageLength,
	FactorResponseTime,
	FactorBreakOverdue,
	FactorTopicDrift,
	FactorSessionFatigue,
}

// Score is a crash score with its per-factor breakdown.
type Score struct {
	Overall float64            `json:"overall"`
	Factors map[string]float64 `json:"factors"`
}

// Scorer computes crash scores. The sigmoid midpoint and the break threshold
// are tunable; zero values fall back to the defaults.
type Scorer struct {
	SigmoidCenterMin float64
	SigmoidScaleMin  float64
	BreakThreshold   time.Duration
	Now              func() time.Time
}

// NewScorer returns a Scorer with the default fatigue curve (sigmoid centered
// at 90 minutes, scale 20) and a 45 minute break threshold.
func NewScorer() *Scorer {
	return &Scorer{
		SigmoidCenterMin: 90,
		SigmoidScaleMin:  20,
		BreakThreshold:   45 * time.Minute,
		Now:              time.Now,
	}
}

// CrashScore computes the weighted six-factor crash likelihood. Each factor
// is in [0,1]; the overall score is the weighted sum capped at 1 and rounded
// to three decimals. Factors without enough samples contribute 0.
func (sc *Scorer) CrashScore(m metrics.Interaction, sessionMinutes float64) Score {
	f := map[string]float64{}

	if m.TypingSpeedBaseline > 0 && m.CurrentTypingSpeed > 0 {
		f[FactorTypingSpeed] = math.Max(0, 1-m.CurrentTypingSpeed/m.TypingSpeedBaseline)
	} else {
		f[FactorTypingSpeed] = 0
	}

	f[FactorMessageLength] = 0
	if len(m.MessageLengths) >= 3 {
		recent := metrics.EMA(tail(m.MessageLengths, 5), 0.3)
		overall := metrics.Mean(m.MessageLengths)
		if overall > 0 {
			decline := math.Max(0, 1-recent/overall)
			f[FactorMessageLength] = math.Min(decline*2, 1)
		}
	}

	f[FactorResponseTime] = 0
	if len(m.ResponseTimes) >= 3 {
		times := tail(m.ResponseTimes, 8)
		late := metrics.EMA(tail(times, 3), 0.3)
		early := metrics.EMA(times[:3], 0.3)
		if early > 0 {
			f[FactorResponseTime] = math.Min(math.Max(0, (late-early)/early), 1)
		}
	}

	f[FactorSessionFatigue] = 0
	if sessionMinutes > 0 {
		f[FactorSessionFatigue] = 1 / (1 + math.Exp(-(sessionMinutes-sc.SigmoidCenterMin)/sc.SigmoidScaleMin))
	}

	f[FactorBreakOverdue] = 0
	thresholdMin := sc.BreakThreshold.Minutes()
	if due, mins := metrics.MinutesWithoutBreak(sc.Now(), nil, m.LastBreak, sc.BreakThreshold); due {
		f[FactorBreakOverdue] = math.Min(1, (float64(mins)-thresholdMin)/thresholdMin)
	}

	f[FactorTopicDrift] = 0
	if len(m.MessageLengths) >= 4 {
		f[FactorTopicDrift] = math.Min(1, metrics.Variance(tail(m.MessageLengths, 4))/5000)
	}

	var overall float64
	for k, w := range weights {
		overall += w * f[k]
	}
	return Score{Overall: round3(math.Min(overall, 1)), Factors: f}
}

// Focus classifies the attention state. Hyperfocus wins over everything,
// then high, then low, then medium.
func Focus(m metrics.Interaction, score Score) FocusLevel {
	drift := score.Factors[FactorTopicDrift]
	trend := metrics.DetectTrend(tail(m.MessageLengths, 8), metrics.DefaultTrendWindow)

	if drift < 0.1 && score.Overall < 0.3 && trend != metrics.TrendDecreasing && len(m.MessageLengths) > 5 {
		return FocusHyperfocus
	}
	if score.Overall < 0.25 && m.AvgMessageLength > 40 {
		return FocusHigh
	}
	if score.Overall > 0.5 || trend == metrics.TrendDecreasing {
		return FocusLow
	}
	return FocusMedium
}

// Next produces the carried-forward state for this pass: dopamine decays by
// one point per pass, energy drops with the crash score, and the predicted
// minutes-to-crash shrink as the score rises (floor of 5).
func Next(prev State, focus FocusLevel, score Score) State {
	dopamine := clampInt(prev.DopamineBalance-1, 0, 100)

	energy := prev.EnergyLevel
	switch {
	case score.Overall > 0.6:
		energy = max(1, prev.EnergyLevel-2)
	case score.Overall > 0.3:
		energy = max(2, prev.EnergyLevel-1)
	default:
		energy = min(10, prev.EnergyLevel)
	}

	next := State{
		FocusLevel:      focus,
		EnergyLevel:     energy,
		DopamineBalance: dopamine,
		CrashPrediction: CrashPrediction{
			Likelihood:       round2(score.Overall),
			EstimatedMinutes: max(5, int(60*(1-score.Overall))),
		},
	}
	next.Clamp()
	return next
}

func tail(s []float64, n int) []float64 {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
