package economy_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/domain/economy"
)

func tx(e economy.EventType) economy.Transaction {
	return economy.Transaction{
		EventType: e,
		Points:    economy.Points[e],
		Timestamp: time.Now(),
	}
}

func TestApplyClampsBalance(t *testing.T) {
	l := economy.NewLedger()
	l.Apply(tx(economy.TaskStarted))
	if l.DailyBalance != 100 {
		t.Fatalf("expected clamp at 100, got %d", l.DailyBalance)
	}

	l = economy.Ledger{DailyBalance: 10}
	l.Apply(tx(economy.DoomScrolled15Min))
	if l.DailyBalance != 0 {
		t.Fatalf("expected clamp at 0, got %d", l.DailyBalance)
	}
}

func TestApplySumsDeltas(t *testing.T) {
	l := economy.Ledger{DailyBalance: 50}
	l.Apply(tx(economy.TaskStarted), tx(economy.ContextSwitch))
	if l.DailyBalance != 55 {
		t.Fatalf("expected 55, got %d", l.DailyBalance)
	}
	if len(l.Transactions) != 2 {
		t.Fatalf("expected 2 logged transactions, got %d", len(l.Transactions))
	}
}

func TestApplyBalanceEqualsClampedRunningSum(t *testing.T) {
	l := economy.Ledger{DailyBalance: 50}
	events := []economy.EventType{
		economy.TaskStarted, economy.DoomScrolled15Min, economy.DoomScrolled15Min,
		economy.DoomScrolled15Min, economy.PatternInterrupted, economy.TaskCompleted,
	}
	want := 50
	for _, e := range events {
		l.Apply(tx(e))
		want += economy.Points[e]
		if want < 0 {
			want = 0
		}
		if want > 100 {
			want = 100
		}
		if l.DailyBalance != want {
			t.Fatalf("after %s expected %d, got %d", e, want, l.DailyBalance)
		}
	}
}

func TestTransactionLogCap(t *testing.T) {
	var l economy.Ledger
	for i := 0; i < 30; i++ {
		l.Apply(tx(economy.HighFive))
	}
	if len(l.Transactions) != 20 {
		t.Fatalf("expected log capped at 20, got %d", len(l.Transactions))
	}
}

func TestScheduleBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		sched := economy.Schedule(60, rng)
		if len(sched) == 0 {
			t.Fatal("expected at least one reward in a 60 minute window")
		}
		prev := 0
		for _, m := range sched {
			gap := m - prev
			if gap < 5 || gap > 30 {
				t.Fatalf("gap %d outside [5,30] in %v", gap, sched)
			}
			if m > 60 {
				t.Fatalf("offset %d beyond total duration in %v", m, sched)
			}
			prev = m
		}
	}
}

func TestScheduleTooShort(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if sched := economy.Schedule(4, rng); len(sched) != 0 {
		t.Fatalf("expected empty schedule under 5 minutes, got %v", sched)
	}
}

func TestForecastBands(t *testing.T) {
	cases := []struct {
		balance int
		marker  string
	}{
		{10, "⛈️"},
		{30, "🌥️"},
		{50, "⛅"},
		{70, "☀️"},
		{100, "☀️"},
	}
	for _, c := range cases {
		if got := economy.Forecast(c.balance); !strings.HasPrefix(got, c.marker) {
			t.Fatalf("balance %d: expected forecast starting %q, got %q", c.balance, c.marker, got)
		}
	}
}

func TestRecommendationBands(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if got := economy.Recommendation(40, rng); !strings.Contains(got, "moderate motivation") {
		t.Fatalf("unexpected mid-band recommendation: %q", got)
	}
	if got := economy.Recommendation(60, rng); !strings.Contains(got, "Steady state") {
		t.Fatalf("unexpected steady-state recommendation: %q", got)
	}
	if got := economy.Recommendation(10, rng); got == "" {
		t.Fatal("expected a low-band recommendation")
	}
	if got := economy.Recommendation(90, rng); got == "" {
		t.Fatal("expected a high-band recommendation")
	}
}

func TestSummaryContainsCoreLines(t *testing.T) {
	l := economy.Ledger{DailyBalance: 65, Forecast: economy.Forecast(65), RewardSchedule: []int{8, 21, 40, 55, 60}}
	applied := []economy.Transaction{{EventType: economy.SmallMilestone, Points: 5, Description: "Checked in"}}
	out := l.Summary("keep going", applied)
	for _, want := range []string{"65/100", "Forecast", "keep going", "+5", "8 min"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "60 min") {
		t.Fatal("summary should show at most four reward offsets")
	}
}
