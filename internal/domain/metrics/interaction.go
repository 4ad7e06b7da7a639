package metrics

import "time"

// maxSamples bounds the per-session sample buffers.
const maxSamples = 200

// Interaction accumulates per-session behavioral samples: typing speed,
// message lengths and response times. Sample buffers are capped at 200
// entries so a long session cannot grow state without bound.
type Interaction struct {
	TypingSpeedBaseline float64    `json:"typing_speed_baseline"`
	CurrentTypingSpeed  float64    `json:"current_typing_speed"`
	AvgMessageLength    float64    `json:"avg_message_length"`
	MessageLengths      []float64  `json:"message_lengths"`
	ResponseTimes       []float64  `json:"response_times"`
	ResponseTimeTrend   Trend      `json:"response_time_trend"`
	LastBreak           *time.Time `json:"last_break,omitempty"`
}

// RecordMessage appends a message length sample and refreshes the running
// average and typing speed. The first observed speed becomes the baseline.
func (m *Interaction) RecordMessage(text string, elapsed time.Duration) {
	m.MessageLengths = appendCapped(m.MessageLengths, float64(len(text)))
	m.AvgMessageLength = Mean(m.MessageLengths)

	speed := TypingSpeed(text, elapsed)
	if speed > 0 {
		if m.TypingSpeedBaseline <= 0 {
			m.TypingSpeedBaseline = speed
		}
		m.CurrentTypingSpeed = speed
	}
}

// RecordResponseTime appends a response latency sample in seconds and
// refreshes the latency trend.
func (m *Interaction) RecordResponseTime(seconds float64) {
	m.ResponseTimes = appendCapped(m.ResponseTimes, seconds)
	m.ResponseTimeTrend = DetectTrend(m.ResponseTimes, DefaultTrendWindow)
}

// MarkBreak records that the user took a break at t.
func (m *Interaction) MarkBreak(t time.Time) {
	m.LastBreak = &t
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > maxSamples {
		s = s[len(s)-maxSamples:]
	}
	return s
}
