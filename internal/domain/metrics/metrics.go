// Package metrics provides the low-level interaction metric primitives used by
// the cognitive scoring pipeline: exponential moving averages, short-window
// trend detection and break-overdue tracking.
package metrics

import "time"

// Trend labels the direction of a short series of samples.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// DefaultTrendWindow is the number of trailing samples DetectTrend inspects.
const DefaultTrendWindow = 5

// EMA computes an exponential moving average over values with the given
// smoothing factor. The first sample seeds the average. Returns 0 for an
// empty slice.
func EMA(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// DetectTrend classifies the direction of the last window samples by the mean
// of consecutive differences. Differences within ±0.1 count as stable. Fewer
// than two samples is always stable.
func DetectTrend(values []float64, window int) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	if window < 2 {
		window = DefaultTrendWindow
	}
	recent := values
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	var sum float64
	for i := 1; i < len(recent); i++ {
		sum += recent[i] - recent[i-1]
	}
	avg := sum / float64(len(recent)-1)
	switch {
	case avg > 0.1:
		return TrendIncreasing
	case avg < -0.1:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// MinutesWithoutBreak reports how long the user has gone without a break and
// whether a break is due. The last recorded break takes priority over the
// session start; with neither, no suggestion is made.
func MinutesWithoutBreak(now time.Time, sessionStart, lastBreak *time.Time, threshold time.Duration) (due bool, minutes int) {
	var since time.Time
	switch {
	case lastBreak != nil:
		since = *lastBreak
	case sessionStart != nil:
		since = *sessionStart
	default:
		return false, 0
	}
	elapsed := now.Sub(since)
	minutes = int(elapsed.Minutes())
	return elapsed >= threshold, minutes
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values, 0 for fewer than two
// samples.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// TypingSpeed estimates characters per second for a message typed over
// elapsed. Non-positive elapsed yields 0.
func TypingSpeed(text string, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(len(text)) / elapsed.Seconds()
}
