package task

import (
	"fmt"
	"strings"
)

var milestoneEmoji = map[string]string{
	"checkmark":   "☑️",
	"celebration": "🎉",
	"snack_break": "🍫",
	"stretch":     "🧘",
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RenderPlan formats a plan as the rich markdown context package shown to
// the user.
func RenderPlan(description string, p *Plan) string {
	a := p.TaskAnalysis
	est := a.EstimatedMinutes
	realistic := RealisticDuration(est)

	var b strings.Builder
	fmt.Fprintf(&b, "## 🎯 Mission: %s\n\n", description)
	fmt.Fprintf(&b, "**Cognitive Load:** %s | **Type:** %s | **Est. Time:** %d min → **Realistic:** %d min (1.5x ADHD buffer)\n",
		a.CognitiveLoad, titleCase(a.TaskType), est, realistic)
	fmt.Fprintf(&b, "**Environment:** 🎵 %s | ⏱️ %s | 🛠️ %s\n",
		titleCase(p.EnvironmentConfig.MusicStyle), titleCase(p.EnvironmentConfig.TimerMode),
		titleCase(strings.Join(p.EnvironmentConfig.ToolsEnabled, ", ")))

	b.WriteString("\n---\n\n### 🏁 Initiation Ritual (do these NOW)\n")
	for i, step := range p.InitiationRitual.EnvironmentPrep {
		if len(step) > 0 && step[0] >= '0' && step[0] <= '9' {
			b.WriteString(step + "\n")
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if p.InitiationRitual.MentalWarmup != "" {
		fmt.Fprintf(&b, "\n**🧠 Mental Warmup:** %s\n", p.InitiationRitual.MentalWarmup)
	}
	if p.InitiationRitual.FirstRealStep != "" {
		fmt.Fprintf(&b, "\n**🚀 FIRST STEP:** %s\n", p.InitiationRitual.FirstRealStep)
	}

	b.WriteString("\n---\n\n### 📝 Micro-Steps\n")
	for i, s := range p.MicroSteps {
		fmt.Fprintf(&b, "%d. %s (~%d min) → %s\n", i+1, s.Step, s.TimeEstimateMin, s.DopamineReward)
	}

	if len(p.Milestones) > 0 {
		b.WriteString("\n---\n\n### ✅ Milestones\n")
		for _, m := range p.Milestones {
			emoji, ok := milestoneEmoji[m.RewardType]
			if !ok {
				emoji = "⭐"
			}
			fmt.Fprintf(&b, "- ⏱️ %d min — **%s** %s %s\n", m.AtMinutes, m.Label, emoji, m.Message)
		}
	}

	if len(p.DopamineCheckpoints) > 0 {
		b.WriteString("\n---\n\n### 🎁 Dopamine Rewards (Variable Schedule)\n")
		for _, c := range p.DopamineCheckpoints {
			fmt.Fprintf(&b, "- ⏱️ %d min — %s\n", c.Minute, c.Reward)
		}
	}

	b.WriteString("\n---\n\n### ⏱️ Focus Timer\n")
	fmt.Fprintf(&b, "**%d** rounds of **%d** min work / **%d** min break\n",
		p.FocusTimer.TotalRounds, p.FocusTimer.WorkMinutes, p.FocusTimer.BreakMinutes)
	if len(p.FocusTimer.BreakActivities) > 0 {
		b.WriteString("\n💃 **Break Activities** (NOT 'take a break' — specific actions):\n")
		for _, act := range p.FocusTimer.BreakActivities {
			fmt.Fprintf(&b, "- %s\n", act)
		}
	}

	if p.Gamification.Enabled {
		fmt.Fprintf(&b, "\n---\n\n### 🎮 Game Mode: %q\n", p.Gamification.GameName)
		fmt.Fprintf(&b, "**Objective:** %s\n**Scoring:** %s\n**Victory:** %s\n",
			p.Gamification.Objective, p.Gamification.Scoring, p.Gamification.VictoryCondition)
	}

	if len(p.AntiBoredomStrategies) > 0 {
		b.WriteString("\n---\n\n### 🔄 Anti-Boredom Strategies\n")
		for _, s := range p.AntiBoredomStrategies {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	if p.ThoughtParking.Enabled {
		b.WriteString("\n---\n\n### 🧠 Thought Parking Active\n")
		b.WriteString("If random ideas pop up, tell me and I'll park them for later.\n")
		b.WriteString("Categories: Tasks | Ideas | Worries | Random\n")
	}

	if p.RescuePlan != "" {
		fmt.Fprintf(&b, "\n---\n\n### 🆘 If You Get Stuck\n%s\n", p.RescuePlan)
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderEnvironment formats a focus environment as the setup summary shown
// to the user. genre annotates the music line when the user asked for one.
func RenderEnvironment(env Environment, genre string) string {
	var parts []string

	music := fmt.Sprintf("🎵 **Music**: %s", titleCase(env.MusicStyle))
	if genre != "" && genre != "any" {
		music += fmt.Sprintf(" (%s)", genre)
	}
	parts = append(parts, music)
	if env.MusicReasoning != "" {
		parts = append(parts, fmt.Sprintf("   _Why_: %s", env.MusicReasoning))
	}
	parts = append(parts, fmt.Sprintf("⏱️  **Timer**: %d-min %s", env.TimerDuration, titleCase(env.TimerMode)))

	if len(env.AmbientLayers) > 0 {
		layers := make([]string, len(env.AmbientLayers))
		for i, l := range env.AmbientLayers {
			layers[i] = titleCase(l)
		}
		parts = append(parts, fmt.Sprintf("🌊 **Ambient**: %s", strings.Join(layers, ", ")))
	}
	if env.BodyDouble.Enabled {
		parts = append(parts, fmt.Sprintf("👤 **Body Double**: %s — %q", env.BodyDouble.Name, env.BodyDouble.Status))
	}

	if len(env.Playlist) > 0 {
		parts = append(parts, "\n🎶 **Your Focus Playlist** (BPM-mapped to each phase):")
		for _, tr := range env.Playlist {
			parts = append(parts, fmt.Sprintf("   • **%s**: %s (%d BPM) — _%s_", tr.Section, tr.Song, tr.BPM, tr.Reason))
		}
	}

	if len(env.BreakActivities) > 0 {
		parts = append(parts, "\n💃 **Break Activities**:")
		shown := env.BreakActivities
		if len(shown) > 4 {
			shown = shown[:4]
		}
		for _, act := range shown {
			parts = append(parts, fmt.Sprintf("   • %s", act))
		}
	}

	return strings.Join(parts, "\n")
}
