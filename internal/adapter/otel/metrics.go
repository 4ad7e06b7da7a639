package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "neuroflow"

// Metrics holds all NeuroFlow metric instruments.
type Metrics struct {
	TurnsStarted    metric.Int64Counter
	TurnsCompleted  metric.Int64Counter
	TurnsFailed     metric.Int64Counter
	TurnsSuspended  metric.Int64Counter
	Escalations     metric.Int64Counter
	ResponseRetries metric.Int64Counter
	TurnDuration    metric.Float64Histogram
	CrashScore      metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TurnsStarted, err = meter.Int64Counter("neuroflow.turns.started",
		metric.WithDescription("Number of turns started"))
	if err != nil {
		return nil, err
	}

	m.TurnsCompleted, err = meter.Int64Counter("neuroflow.turns.completed",
		metric.WithDescription("Number of turns completed"))
	if err != nil {
		return nil, err
	}

	m.TurnsFailed, err = meter.Int64Counter("neuroflow.turns.failed",
		metric.WithDescription("Number of turns failed"))
	if err != nil {
		return nil, err
	}

	m.TurnsSuspended, err = meter.Int64Counter("neuroflow.turns.suspended",
		metric.WithDescription("Number of turns suspended for approval"))
	if err != nil {
		return nil, err
	}

	m.Escalations, err = meter.Int64Counter("neuroflow.escalations",
		metric.WithDescription("Number of pattern escalation passes"))
	if err != nil {
		return nil, err
	}

	m.ResponseRetries, err = meter.Int64Counter("neuroflow.response.retries",
		metric.WithDescription("Number of response regenerations"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("neuroflow.turn.duration_seconds",
		metric.WithDescription("Turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.CrashScore, err = meter.Float64Histogram("neuroflow.crash.score",
		metric.WithDescription("Predicted crash score per turn"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
