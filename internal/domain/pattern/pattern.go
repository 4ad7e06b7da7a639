// Package pattern models ADHD behavioral-loop detection: the pattern
// taxonomy, carried detection state, escalation routing and the sentiment
// heuristic feeding it.
package pattern

import "time"

// Pattern labels a detected behavioral loop.
type Pattern string

const (
	None          Pattern = "none"
	Avoidance     Pattern = "avoidance"
	Distraction   Pattern = "distraction"
	Paralysis     Pattern = "paralysis"
	Productive    Pattern = "productive"
	Perfectionism Pattern = "perfectionism"
)

// Classifiers may emit the long-form label for productive procrastination.
const productiveProcrastination = "productive_procrastination"

// Buffer caps on carried detection state.
const (
	maxInterventions   = 5
	maxSentiments      = 10
	interventionMaxLen = 200
)

// MaxEscalation is the hard cap on escalation cycles per turn.
const MaxEscalation = 2

// Normalize maps a raw classifier label onto the taxonomy. Unknown labels
// collapse to None.
func Normalize(raw string) Pattern {
	switch Pattern(raw) {
	case None, Avoidance, Distraction, Paralysis, Productive, Perfectionism:
		return Pattern(raw)
	}
	if raw == productiveProcrastination {
		return Productive
	}
	return None
}

// Analysis is the parsed classifier verdict for one detection pass.
type Analysis struct {
	Pattern      Pattern `json:"pattern"`
	Confidence   float64 `json:"confidence"`
	Intervention string  `json:"intervention"`
	Level        int     `json:"level"`
}

// Detection is the carried-forward pattern state across turns.
type Detection struct {
	CurrentPattern         Pattern    `json:"current_pattern"`
	Confidence             float64    `json:"confidence"`
	PatternStartTime       *time.Time `json:"pattern_start_time,omitempty"`
	InterventionsAttempted []string   `json:"interventions_attempted"`
	SentimentTrajectory    []float64  `json:"sentiment_trajectory"`
}

// RecordIntervention appends an attempted intervention, truncated to 200
// characters, keeping only the last five.
func (d *Detection) RecordIntervention(msg string) {
	if msg == "" {
		return
	}
	if len(msg) > interventionMaxLen {
		msg = msg[:interventionMaxLen]
	}
	d.InterventionsAttempted = append(d.InterventionsAttempted, msg)
	if len(d.InterventionsAttempted) > maxInterventions {
		d.InterventionsAttempted = d.InterventionsAttempted[len(d.InterventionsAttempted)-maxInterventions:]
	}
}

// RecordSentiment appends a sentiment sample, keeping only the last ten.
func (d *Detection) RecordSentiment(score float64) {
	d.SentimentTrajectory = append(d.SentimentTrajectory, score)
	if len(d.SentimentTrajectory) > maxSentiments {
		d.SentimentTrajectory = d.SentimentTrajectory[len(d.SentimentTrajectory)-maxSentiments:]
	}
}

// EffectiveConfidence is the confidence used for routing. A detection that
// names a pattern but reports zero confidence is treated as moderately
// confident.
func (d Detection) EffectiveConfidence() float64 {
	if d.Confidence == 0 && d.CurrentPattern != None {
		return 0.6
	}
	return d.Confidence
}

// Severity is the routing verdict after a detection pass.
type Severity string

const (
	SeverityEscalate Severity = "escalate"
	SeverityFull     Severity = "full_analysis"
	SeverityQuick    Severity = "quick_response"
)

// Route decides where a detection pass sends the pipeline. High confidence
// loops back through escalation until the cap; moderate confidence runs the
// full analysis pipeline; low confidence goes straight to synthesis.
func Route(d Detection, escalationLevel int) Severity {
	conf := d.EffectiveConfidence()
	if conf > 0.7 && escalationLevel < MaxEscalation {
		return SeverityEscalate
	}
	if conf > 0.3 {
		return SeverityFull
	}
	return SeverityQuick
}

// ConfidenceFloor is the minimum confidence at which an intervention message
// is surfaced to the user.
const ConfidenceFloor = 0.35
