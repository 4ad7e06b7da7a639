// Package economy models motivation as a depletable daily dopamine budget
// with a fixed transaction table, a clamped running balance, variable-ratio
// reward scheduling and balance-band forecasting.
package economy

import (
	"fmt"
	"math/rand"
	"time"
)

// EventType identifies a scored motivation event.
type EventType string

const (
	TaskStarted         EventType = "task_started"
	TaskCompleted       EventType = "task_completed"
	SmallMilestone      EventType = "small_milestone"
	TookBreakPreCrash   EventType = "took_break_before_crash"
	PatternInterrupted  EventType = "pattern_interrupted"
	HighFive            EventType = "high_five"
	DoomScrolled15Min   EventType = "doom_scrolled_15min"
	MissedPlannedTask   EventType = "missed_planned_task"
	ContextSwitch       EventType = "context_switch"
	SelfCriticism       EventType = "self_criticism"
)

// Points is the fixed scoring table. Positive values are gains.
var Points = map[EventType]int{
	TaskStarted:        +15,
	TaskCompleted:      +10,
	SmallMilestone:     +5,
	TookBreakPreCrash:  +8,
	PatternInterrupted: +12,
	HighFive:           +3,
	DoomScrolled15Min:  -20,
	MissedPlannedTask:  -15,
	ContextSwitch:      -10,
	SelfCriticism:      -8,
}

// maxTransactions bounds the carried transaction log.
const maxTransactions = 20

// Transaction is one scored motivation event.
type Transaction struct {
	EventType   EventType `json:"event_type"`
	Points      int       `json:"points"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// Ledger is the carried daily dopamine budget.
type Ledger struct {
	DailyBalance      int           `json:"daily_balance"`
	Transactions      []Transaction `json:"transactions"`
	Forecast          string        `json:"forecast"`
	NextRewardMinutes int           `json:"next_reward_minutes"`
	RewardSchedule    []int         `json:"reward_schedule"`
}

// NewLedger returns a full daily budget.
func NewLedger() Ledger {
	return Ledger{DailyBalance: 100}
}

// Apply credits or debits the ledger with the given transactions. The balance
// is clamped to [0,100] after summing and the log keeps only the last 20
// entries.
func (l *Ledger) Apply(txs ...Transaction) {
	for _, t := range txs {
		l.DailyBalance += t.Points
	}
	l.DailyBalance = max(0, min(100, l.DailyBalance))
	l.Transactions = append(l.Transactions, txs...)
	if len(l.Transactions) > maxTransactions {
		l.Transactions = l.Transactions[len(l.Transactions)-maxTransactions:]
	}
}

// Schedule generates variable-ratio reward offsets in minutes from now.
// Gaps are uniform in [5, min(30, remaining)]; scheduling stops when fewer
// than five minutes remain. Unpredictable intervals hold attention better
// than a fixed cadence.
func Schedule(totalMinutes int, rng *rand.Rand) []int {
	const minGap, maxGap = 5, 30
	var intervals []int
	t := 0
	for t < totalMinutes {
		remaining := totalMinutes - t
		if remaining < minGap {
			break
		}
		upper := min(maxGap, remaining)
		t += minGap + rng.Intn(upper-minGap+1)
		if t <= totalMinutes {
			intervals = append(intervals, t)
		}
	}
	return intervals
}

// Forecast maps the balance onto an energy outlook.
func Forecast(balance int) string {
	switch {
	case balance < 30:
		return "⛈️ Low energy — plan easy wins to rebuild motivation"
	case balance < 50:
		return "🌥️ Moderate energy — mix easy tasks with one moderate challenge"
	case balance < 70:
		return "⛅ Good energy — you can tackle something meaningful"
	default:
		return "☀️ High energy — perfect time for that hard task you've been avoiding!"
	}
}

var lowBalanceTips = []string{
	"Do something EASY and rewarding to rebuild motivation fuel",
	"Try a quick win — organise one folder, reply to one email",
	"Take a proper break with a specific reward (snack, music, walk)",
}

var highBalanceTips = []string{
	"High energy! Perfect time for that hard task you've been avoiding",
	"Your dopamine tank is full — tackle the most challenging item on your list",
	"Ride this wave! Start the task you've been dreading — you've got the fuel for it",
}

// Recommendation picks budget-appropriate advice. Low and high bands draw a
// random suggestion; the middle bands are fixed.
func Recommendation(balance int, rng *rand.Rand) string {
	switch {
	case balance < 30:
		return lowBalanceTips[rng.Intn(len(lowBalanceTips))]
	case balance < 50:
		return "You have moderate motivation. Try a 15-min sprint on something manageable."
	case balance > 70:
		return highBalanceTips[rng.Intn(len(highBalanceTips))]
	default:
		return "Steady state. Keep going at your current pace."
	}
}

// Summary renders the human-readable economy block shown to the user.
func (l Ledger) Summary(recommendation string, applied []Transaction) string {
	out := fmt.Sprintf("💰 **Dopamine Balance**: %d/100\n📊 **Forecast**: %s\n💡 **Recommendation**: %s",
		l.DailyBalance, l.Forecast, recommendation)
	if len(applied) > 0 {
		out += "\n📝 **Recent**:"
		for _, t := range applied {
			sign := ""
			if t.Points > 0 {
				sign = "+"
			}
			out += fmt.Sprintf("\n   %s%d — %s", sign, t.Points, t.Description)
		}
	}
	if len(l.RewardSchedule) > 0 {
		shown := l.RewardSchedule
		if len(shown) > 4 {
			shown = shown[:4]
		}
		out += "\n🎁 **Next rewards at**: "
		for i, m := range shown {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf("%d min", m)
		}
	}
	return out
}
