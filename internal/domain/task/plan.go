package task

import (
	"fmt"
	"math/rand"
	"strings"
)

// Analysis is the planner's assessment of a task.
type Analysis struct {
	CognitiveLoad      string `json:"cognitive_load"`
	TaskType           string `json:"task_type"`
	CreativityRequired string `json:"creativity_required"`
	EstimatedMinutes   int    `json:"estimated_duration_minutes"`
	Interruptibility   string `json:"interruptibility"`
	RepetitionFactor   int    `json:"repetition_factor"`
	DopamineDifficulty string `json:"dopamine_difficulty"`
	BiggestBlocker     string `json:"biggest_blocker"`
}

// MicroStep is one small, immediately actionable unit of work.
type MicroStep struct {
	Step           string `json:"step"`
	TimeEstimateMin int    `json:"time_estimate_min"`
	DopamineReward string `json:"dopamine_reward"`
}

// Ritual is the initiation sequence that makes starting frictionless.
type Ritual struct {
	EnvironmentPrep []string `json:"environment_prep"`
	MentalWarmup    string   `json:"mental_warmup"`
	FirstRealStep   string   `json:"first_real_step"`
}

// Milestone is a timed progress marker with its reward.
type Milestone struct {
	AtMinutes  int    `json:"at_minutes"`
	Label      string `json:"label"`
	RewardType string `json:"reward_type"`
	Message    string `json:"message"`
}

// FocusTimer configures work/break cycling.
type FocusTimer struct {
	WorkMinutes     int      `json:"work_minutes"`
	BreakMinutes    int      `json:"break_minutes"`
	TotalRounds     int      `json:"total_rounds"`
	BreakActivities []string `json:"break_activities"`
}

// Checkpoint is a variable-schedule dopamine reward point.
type Checkpoint struct {
	Minute int    `json:"minute"`
	Reward string `json:"reward"`
}

// EnvConfig is the planner's environment suggestion, refined later by the
// environment builder.
type EnvConfig struct {
	MusicStyle      string   `json:"music_style"`
	TimerMode       string   `json:"timer_mode"`
	ToolsEnabled    []string `json:"tools_enabled"`
	VideoSearchTerm string   `json:"video_search_term"`
	Layout          string   `json:"layout"`
}

// Gamification turns a repetitive task into a game.
type Gamification struct {
	Enabled          bool   `json:"enabled"`
	GameName         string `json:"game_name"`
	Objective        string `json:"objective"`
	Scoring          string `json:"scoring"`
	VictoryCondition string `json:"victory_condition"`
}

// ThoughtParking configures intrusive-thought capture.
type ThoughtParking struct {
	Enabled    bool     `json:"enabled"`
	Categories []string `json:"categories"`
}

// Plan is the full context package for a task.
type Plan struct {
	TaskAnalysis          Analysis       `json:"task_analysis"`
	MicroSteps            []MicroStep    `json:"micro_steps"`
	InitiationRitual      Ritual         `json:"initiation_ritual"`
	Milestones            []Milestone    `json:"milestones"`
	FocusTimer            FocusTimer     `json:"focus_timer"`
	DopamineCheckpoints   []Checkpoint   `json:"dopamine_checkpoints"`
	EnvironmentConfig     EnvConfig      `json:"environment_config"`
	Gamification          Gamification   `json:"gamification"`
	AntiBoredomStrategies []string       `json:"anti_boredom_strategies"`
	ThoughtParking        ThoughtParking `json:"thought_parking"`
	RescuePlan            string         `json:"rescue_plan"`
}

// AntiRepetitionMode is a gamified reframing for high-repetition tasks.
type AntiRepetitionMode struct {
	Mode  string
	Rules string
	Why   string
}

// antiRepetitionModes are injected into plans for tasks scoring 7+ on
// repetition.
var antiRepetitionModes = []AntiRepetitionMode{
	{
		Mode:  "Bug Hunter Game",
		Rules: "Find 1 concept you forgot = 1 point. Get 5 points to win.",
		Why:   "Turns passive review into active hunting (dopamine from discovery)",
	},
	{
		Mode:  "Speed Run Challenge",
		Rules: "Review section in 10 min. Beat yesterday's time.",
		Why:   "Competition (even with yourself) = engagement",
	},
	{
		Mode:  "Random Order Dice",
		Rules: "Roll dice to pick which topic to review next.",
		Why:   "Removes choice paralysis + adds unpredictability (ADHD loves novelty)",
	},
	{
		Mode:  "Teach-to-Learn",
		Rules: "Explain concept out loud as if teaching a 5-year-old.",
		Why:   "Different brain mode (verbal) + active recall",
	},
	{
		Mode:  "Meme Creation",
		Rules: "Turn each concept into a meme/joke.",
		Why:   "Creative expression + emotional encoding (better memory)",
	},
}

// breakActivities maps task type to specific break actions. Vague "take a
// break" advice never appears.
var breakActivities = map[Type][]string{
	TypeCoding: {
		"💃 Dance to ONE K-pop song (literally move your body)",
		"🏃 10 jumping jacks or walk to another room",
		"💧 Drink full glass of water while looking outside",
		"🎵 Switch to next playlist song (dopamine from change)",
	},
	TypeWriting: {
		"📖 Read exactly 1 page of any book (verbal mode shift)",
		"✍️ Doodle for 3 minutes (visual creativity)",
		"🗣️ Voice memo your current thoughts (brain dump)",
		"🚶 Walk outside for 5 minutes (nature reset)",
	},
	TypeRevision: {
		"📱 Watch ONE TikTok/YouTube Short (timed reward)",
		"🍿 Snack break (physical reward for boring work)",
		"💬 Text one friend one message (social dopamine)",
		"🎮 2 minutes of mobile game (controlled distraction)",
	},
	TypeGeneral: {
		"💧 Get a glass of water (movement + hydration)",
		"🚶 Walk around for 3 minutes",
		"🧘 30-second stretch",
		"🎵 Listen to one favourite song",
	},
}

// initiationRituals maps task type to a canned environment-prep sequence.
var initiationRituals = map[Type][]string{
	TypeCoding: {
		"1. Put on headphones (even before music)",
		"2. Open Spotify → 'K-pop Coding' playlist",
		"3. Close ALL browser tabs (physical reset)",
		"4. Phone in drawer, face down (out of sight = out of mind)",
		"5. Get cold water (temperature change = alertness boost)",
		"6. Open VS Code to SPECIFIC file (not 'open project')",
		"7. Write one comment: '# Starting: [exact feature name]'",
		"8. Set timer: 25 minutes",
		"9. Type ANYTHING (even wrong code) within 60 seconds",
	},
	TypeWriting: {
		"1. Change location (even just different chair)",
		"2. Lo-fi playlist on",
		"3. Coffee shop ambient sounds (layered audio)",
		"4. Open doc to EXACT section (not 'the document')",
		"5. Write 'DRAFT' at top (permission to be imperfect)",
		"6. Set timer: 15 minutes (shorter for high resistance)",
		"7. Write ONE terrible sentence on purpose",
		"8. Don't edit anything for 15 minutes (bypass perfectionism)",
	},
	TypeRevision: {
		"1. Shuffle materials randomly (break sequence monotony)",
		"2. Get snacks ready (reward for boring work)",
		"3. Set phone timer to 15 minutes (short = achievable)",
		"4. Open notes to a RANDOM page (removes 'where to start')",
		"5. Read the first item out loud (engage verbal brain)",
	},
	TypeGeneral: {
		"1. Close unnecessary tabs/apps",
		"2. Get water on desk",
		"3. Phone on silent",
		"4. Set a 25-minute timer",
		"5. Start with the SMALLEST specific action",
	},
}

// BreakActivities returns the canned break list for a task type.
func BreakActivities(t Type) []string {
	if acts, ok := breakActivities[t]; ok {
		return acts
	}
	return breakActivities[TypeGeneral]
}

// InitiationRitual returns the canned environment prep for a task type.
func InitiationRitual(t Type) []string {
	if steps, ok := initiationRituals[t]; ok {
		return steps
	}
	return initiationRituals[TypeGeneral]
}

// Repair fills structural gaps in a generated plan and returns the chosen
// anti-repetition mode name, if any. Rules:
//   - fewer than two break activities: replace with the per-type canned list
//   - fewer than three environment-prep steps: replace with the canned ritual
//   - repetition factor 7 or higher: prepend one random anti-repetition
//     strategy
func (p *Plan) Repair(rng *rand.Rand) string {
	taskType := NormalizeType(p.TaskAnalysis.TaskType)

	if len(p.FocusTimer.BreakActivities) < 2 {
		p.FocusTimer.BreakActivities = BreakActivities(taskType)
	}
	if len(p.InitiationRitual.EnvironmentPrep) < 3 {
		p.InitiationRitual.EnvironmentPrep = InitiationRitual(taskType)
	}

	if p.TaskAnalysis.RepetitionFactor >= 7 {
		mode := antiRepetitionModes[rng.Intn(len(antiRepetitionModes))]
		strategy := fmt.Sprintf("🎮 %s: %s — %s", mode.Mode, mode.Rules, mode.Why)
		p.AntiBoredomStrategies = append([]string{strategy}, p.AntiBoredomStrategies...)
		return mode.Mode
	}
	return ""
}

// Fallback builds a deterministic plan used when generation fails.
func Fallback(description string) *Plan {
	firstStep := "open your tools"
	if fields := strings.Fields(description); len(fields) > 0 {
		firstStep = fields[0]
	}
	return &Plan{
		TaskAnalysis: Analysis{
			CognitiveLoad:      "medium",
			TaskType:           string(TypeGeneral),
			CreativityRequired: "balanced",
			EstimatedMinutes:   30,
			Interruptibility:   "flexible",
			RepetitionFactor:   3,
			DopamineDifficulty: "medium",
			BiggestBlocker:     "initiation",
		},
		MicroSteps: []MicroStep{
			{Step: "Open what you need", TimeEstimateMin: 2, DopamineReward: "✅ Ready!"},
			{Step: "Do the first small piece", TimeEstimateMin: 10, DopamineReward: "⭐ Rolling!"},
			{Step: "Continue to next section", TimeEstimateMin: 10, DopamineReward: "🔥 Momentum!"},
			{Step: "Wrap up and review", TimeEstimateMin: 8, DopamineReward: "🏆 Done!"},
		},
		InitiationRitual: Ritual{
			EnvironmentPrep: InitiationRitual(TypeGeneral),
			MentalWarmup:    "Write one sentence about what you'll do first",
			FirstRealStep:   "Start with: " + firstStep,
		},
		Milestones: []Milestone{
			{AtMinutes: 10, Label: "Launched!", RewardType: "checkmark", Message: "You started, that's the hardest part!"},
			{AtMinutes: 20, Label: "Halfway!", RewardType: "celebration", Message: "Crushing it!"},
			{AtMinutes: 30, Label: "Victory!", RewardType: "celebration", Message: "Mission complete!"},
		},
		FocusTimer: FocusTimer{
			WorkMinutes:     25,
			BreakMinutes:    5,
			TotalRounds:     2,
			BreakActivities: BreakActivities(TypeGeneral),
		},
		DopamineCheckpoints: []Checkpoint{
			{Minute: 8, Reward: "🎉 First milestone!"},
			{Minute: 20, Reward: "🔥 Halfway there!"},
			{Minute: 30, Reward: "💪 Mission complete!"},
		},
		AntiBoredomStrategies: []string{},
		ThoughtParking: ThoughtParking{
			Enabled:    true,
			Categories: []string{"tasks", "ideas", "worries", "random"},
		},
		RescuePlan: "Take a breath, re-read the last micro-step, and do just that one thing.",
	}
}
