package pattern_test

import (
	"math"
	"strings"
	"testing"

	"github.com/Strob0t/NeuroFlow/internal/domain/pattern"
)

func TestNormalize(t *testing.T) {
	if got := pattern.Normalize("avoidance"); got != pattern.Avoidance {
		t.Fatalf("expected avoidance, got %v", got)
	}
	if got := pattern.Normalize("productive_procrastination"); got != pattern.Productive {
		t.Fatalf("expected productive, got %v", got)
	}
	if got := pattern.Normalize("doomscrolling"); got != pattern.None {
		t.Fatalf("expected none for unknown label, got %v", got)
	}
}

func TestRouteEscalatesOnHighConfidence(t *testing.T) {
	d := pattern.Detection{CurrentPattern: pattern.Avoidance, Confidence: 0.85}
	if got := pattern.Route(d, 0); got != pattern.SeverityEscalate {
		t.Fatalf("expected escalate, got %v", got)
	}
	if got := pattern.Route(d, 1); got != pattern.SeverityEscalate {
		t.Fatalf("expected escalate at level 1, got %v", got)
	}
}

func TestRouteEscalationCap(t *testing.T) {
	d := pattern.Detection{CurrentPattern: pattern.Avoidance, Confidence: 0.95}
	if got := pattern.Route(d, pattern.MaxEscalation); got != pattern.SeverityFull {
		t.Fatalf("expected full analysis at the cap, got %v", got)
	}
}

func TestRouteModerateAndLowConfidence(t *testing.T) {
	d := pattern.Detection{CurrentPattern: pattern.Distraction, Confidence: 0.5}
	if got := pattern.Route(d, 0); got != pattern.SeverityFull {
		t.Fatalf("expected full analysis, got %v", got)
	}
	d.Confidence = 0.2
	if got := pattern.Route(d, 0); got != pattern.SeverityQuick {
		t.Fatalf("expected quick response, got %v", got)
	}
}

func TestEffectiveConfidenceDefault(t *testing.T) {
	d := pattern.Detection{CurrentPattern: pattern.Paralysis}
	if got := d.EffectiveConfidence(); got != 0.6 {
		t.Fatalf("expected default 0.6 for named pattern, got %v", got)
	}
	d.CurrentPattern = pattern.None
	if got := d.EffectiveConfidence(); got != 0 {
		t.Fatalf("expected 0 for no pattern, got %v", got)
	}
}

func TestRecordInterventionCapsAndTruncates(t *testing.T) {
	var d pattern.Detection
	long := strings.Repeat("x", 300)
	for i := 0; i < 7; i++ {
		d.RecordIntervention(long)
	}
	if len(d.InterventionsAttempted) != 5 {
		t.Fatalf("expected 5 kept interventions, got %d", len(d.InterventionsAttempted))
	}
	for _, msg := range d.InterventionsAttempted {
		if len(msg) != 200 {
			t.Fatalf("expected 200-char truncation, got %d", len(msg))
		}
	}
	d.RecordIntervention("")
	if len(d.InterventionsAttempted) != 5 {
		t.Fatal("empty intervention should not be recorded")
	}
}

func TestRecordSentimentCap(t *testing.T) {
	var d pattern.Detection
	for i := 0; i < 13; i++ {
		d.RecordSentiment(float64(i))
	}
	if len(d.SentimentTrajectory) != 10 {
		t.Fatalf("expected 10 kept samples, got %d", len(d.SentimentTrajectory))
	}
	if d.SentimentTrajectory[0] != 3 {
		t.Fatalf("expected oldest kept sample 3, got %v", d.SentimentTrajectory[0])
	}
}

func TestSentimentEngagedMessage(t *testing.T) {
	text := strings.Repeat("making steady progress on the parser ", 10)
	if got := pattern.Sentiment(text); got != 1 {
		t.Fatalf("expected 1 for a long engaged message, got %v", got)
	}
}

func TestSentimentAvoidanceMarkers(t *testing.T) {
	got := pattern.Sentiment("I'm stuck and I can't do this, I give up")
	// length 40/200 = 0.2, minus 3 markers * 0.3 = -0.7
	if math.Abs(got-(-0.7)) > 1e-9 {
		t.Fatalf("expected -0.7, got %v", got)
	}
}

func TestSentimentClamped(t *testing.T) {
	got := pattern.Sentiment("stuck impossible hate give up can't don't know")
	if got < -1 || got > 1 {
		t.Fatalf("sentiment out of range: %v", got)
	}
	if got != -1 {
		t.Fatalf("expected clamp to -1, got %v", got)
	}
}
