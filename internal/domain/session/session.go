// Package session defines the per-turn pipeline state: the session record,
// message log, detected intent and the aggregated sub-states produced by the
// scoring and planning stages.
package session

import (
	"time"

	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/domain/economy"
	"github.com/Strob0t/NeuroFlow/internal/domain/metrics"
	"github.com/Strob0t/NeuroFlow/internal/domain/pattern"
	"github.com/Strob0t/NeuroFlow/internal/domain/task"
)

// Intent classifies what the user wants from this turn.
type Intent string

const (
	IntentStartTask   Intent = "start_task"
	IntentStuck       Intent = "stuck"
	IntentDistracted  Intent = "distracted"
	IntentCheckIn     Intent = "check_in"
	IntentTakeBreak   Intent = "take_break"
	IntentGeneralChat Intent = "general_chat"
)

// NormalizeIntent collapses unknown intent labels to general chat.
func NormalizeIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentStartTask, IntentStuck, IntentDistracted, IntentCheckIn, IntentTakeBreak, IntentGeneralChat:
		return Intent(raw)
	}
	return IntentGeneralChat
}

// Role identifies a message author.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the append-only session transcript.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Preferences carries user-level configuration across sessions.
type Preferences struct {
	WorkStyle               string            `json:"work_style"`
	PreferredBreakDuration  int               `json:"preferred_break_duration"`
	NotificationSensitivity string            `json:"notification_sensitivity"`
	PreferredMusic          map[string]string `json:"preferred_music"`
	BodyDoublePreferred     bool              `json:"body_double_preferred"`
	BodyDoubleName          string            `json:"body_double_name"`
}

// DefaultPreferences returns the stock preference set.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkStyle:               "balanced",
		PreferredBreakDuration:  5,
		NotificationSensitivity: "medium",
		PreferredMusic: map[string]string{
			"coding":   "kpop",
			"writing":  "lo-fi",
			"revision": "upbeat",
		},
		BodyDoublePreferred: true,
		BodyDoubleName:      "Alex",
	}
}

// State is the full pipeline state threaded through every node of a turn.
// It is serializable so a suspended turn can be checkpointed and resumed.
type State struct {
	SessionID        string    `json:"session_id"`
	SessionStart     time.Time `json:"session_start"`
	InteractionCount int       `json:"interaction_count"`
	Messages         []Message `json:"messages"`

	Input    string `json:"user_input"`
	Intent   Intent `json:"intent"`
	Priority bool   `json:"priority"`

	Task        *task.Info          `json:"current_task,omitempty"`
	Cognitive   cognitive.State     `json:"cognitive_state"`
	Metrics     metrics.Interaction `json:"interaction_metrics"`
	Pattern     pattern.Detection   `json:"pattern_detection"`
	Economy     economy.Ledger      `json:"dopamine_economy"`
	Preferences Preferences         `json:"user_preferences"`

	// Stage outputs collected before synthesis, cleared afterwards.
	CognitiveOutput string `json:"cognitive_output"`
	ContextOutput   string `json:"context_output"`
	PatternOutput   string `json:"pattern_output"`
	TimeOutput      string `json:"time_output"`
	FocusOutput     string `json:"focus_output"`
	EconomyOutput   string `json:"dopamine_output"`

	EscalationLevel int     `json:"pattern_escalation_level"`
	RetryCount      int     `json:"response_retry_count"`
	QualityScore    float64 `json:"quality_score"`
	NeedsApproval   bool    `json:"needs_human_approval"`

	Response string `json:"response"`
}

// NewState initializes the state for a fresh session.
func NewState(sessionID string, start time.Time) *State {
	return &State{
		SessionID:    sessionID,
		SessionStart: start,
		Cognitive:    cognitive.Default(),
		Economy:      economy.NewLedger(),
		Preferences:  DefaultPreferences(),
	}
}

// SessionMinutes reports how long the session has been running at now.
func (s *State) SessionMinutes(now time.Time) float64 {
	if s.SessionStart.IsZero() {
		return 0
	}
	return now.Sub(s.SessionStart).Minutes()
}

// AppendMessage adds a transcript entry.
func (s *State) AppendMessage(role Role, content string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content, At: at})
}

// RecentMessages returns up to n of the latest transcript entries.
func (s *State) RecentMessages(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// ClearOutputs wipes all per-stage outputs after synthesis so a later turn
// starts clean.
func (s *State) ClearOutputs() {
	s.CognitiveOutput = ""
	s.ContextOutput = ""
	s.PatternOutput = ""
	s.TimeOutput = ""
	s.FocusOutput = ""
	s.EconomyOutput = ""
}

// ResetTurn prepares carried state for a new user turn.
func (s *State) ResetTurn(input string) {
	s.Input = input
	s.Intent = ""
	s.Priority = false
	s.EscalationLevel = 0
	s.RetryCount = 0
	s.QualityScore = 0
	s.NeedsApproval = false
	s.Response = ""
	s.ClearOutputs()
}
