package cognitive

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/NeuroFlow/internal/domain/metrics"
)

// Intervention thresholds. A score at or above resetThreshold triggers the
// full reset protocol, checkinThreshold a gentle nudge. Hyperfocus protection
// kicks in after hyperfocusBreak without a break.
const (
	resetThreshold   = 0.7
	checkinThreshold = 0.45
	hyperfocusBreak  = 60 * time.Minute
)

// Intervention returns the advisory text for the current focus and score, or
// an empty string when no intervention is warranted.
func (sc *Scorer) Intervention(focus FocusLevel, score Score, m metrics.Interaction) string {
	if score.Overall >= resetThreshold {
		return resetProtocol(score)
	}
	if score.Overall >= checkinThreshold {
		return gentleCheckin(score)
	}
	if focus == FocusHyperfocus {
		if due, mins := metrics.MinutesWithoutBreak(sc.Now(), nil, m.LastBreak, hyperfocusBreak); due {
			return hyperfocusNudge(mins)
		}
	}
	return ""
}

// resetProtocol names the top contributing factors as evidence. Factor order
// is stable so the same score always produces the same text.
func resetProtocol(score Score) string {
	var high []string
	for _, k := range factorOrder {
		if score.Factors[k] > 0.5 {
			high = append(high, strings.ReplaceAll(k, "_", " "))
		}
	}
	if len(high) > 2 {
		high = high[:2]
	}
	evidence := strings.Join(high, ", ")
	return fmt.Sprintf(
		"⚠️ **Cognitive Overload Warning**\n\n"+
			"Multiple fatigue indicators are converging (%s). "+
			"Pushing through this state reduces total output compared to taking a break.\n\n"+
			"**Recommended Reset Protocol:**\n"+
			"1. 🧍 Stand up and stretch for 60 seconds\n"+
			"2. 💧 Drink water (dehydration amplifies ADHD symptoms)\n"+
			"3. 👀 Look at something 20+ feet away for 20 seconds\n"+
			"4. 🌬️ Take 3 deep breaths (activates parasympathetic nervous system)\n"+
			"5. ⏱️ Set a 5-minute timer, then come back refreshed",
		evidence)
}

func gentleCheckin(score Score) string {
	return fmt.Sprintf(
		"💡 **Gentle Check-in**\n\n"+
			"Your cognitive metrics are showing early fatigue signs "+
			"(crash likelihood: %d%%). "+
			"This is the optimal time for a micro-break, catching it "+
			"early means you can sustain focus much longer.\n\n"+
			"Quick options:\n"+
			"- 🚶 2-minute walk (resets default mode network)\n"+
			"- 🎵 Listen to one song (dopamine boost)\n"+
			"- ✋ Hand stretches (reduces screen fatigue)",
		int(score.Overall*100))
}

func hyperfocusNudge(minutes int) string {
	return fmt.Sprintf(
		"🟣 **Hyperfocus Detected** — %dmin deep\n\n"+
			"You're in a powerful flow state. I don't want to break it, "+
			"but your brain needs fuel to sustain this. Quick deal: "+
			"finish your current thought, grab water, and come right back. "+
			"Your flow state will survive a 2-minute pause.",
		minutes)
}
