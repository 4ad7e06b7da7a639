// Package task models planned work: the structured context package produced
// by the planner, the focus environment with its BPM-mapped playlist, and the
// deterministic repair rules applied to generated plans.
package task

import (
	"math"
	"time"
)

// Type categorizes a task for ritual, break and music selection.
type Type string

const (
	TypeCoding   Type = "coding"
	TypeWriting  Type = "writing"
	TypeRevision Type = "revision"
	TypeGeneral  Type = "general"
)

// NormalizeType collapses unknown task types to general.
func NormalizeType(raw string) Type {
	switch Type(raw) {
	case TypeCoding, TypeWriting, TypeRevision, TypeGeneral:
		return Type(raw)
	}
	return TypeGeneral
}

// ADHDMultiplier converts a raw time estimate into a realistic one. Time
// blindness makes raw estimates run short by about half.
const ADHDMultiplier = 1.5

// RealisticDuration applies the multiplier to an estimate in minutes,
// rounding to the nearest whole minute.
func RealisticDuration(estimated int) int {
	return int(math.Round(float64(estimated) * ADHDMultiplier))
}

// ThoughtCategory classifies a parked intrusive thought.
type ThoughtCategory string

const (
	ThoughtTask   ThoughtCategory = "task"
	ThoughtIdea   ThoughtCategory = "idea"
	ThoughtWorry  ThoughtCategory = "worry"
	ThoughtRandom ThoughtCategory = "random"
)

// ParkedThought is an intrusive thought captured mid-task so it stops
// occupying working memory.
type ParkedThought struct {
	Thought     string          `json:"thought"`
	Category    ThoughtCategory `json:"category"`
	CapturedAt  time.Time       `json:"captured_at"`
	ResurfaceAt string          `json:"resurface_at"`
}

// Info is the active task with its generated plan and environment.
type Info struct {
	ID                  string          `json:"task_id"`
	Description         string          `json:"description"`
	TaskType            Type            `json:"task_type"`
	StartTime           *time.Time      `json:"start_time,omitempty"`
	EstimatedDuration   int             `json:"estimated_duration"`
	RealisticDuration   int             `json:"realistic_duration"`
	Plan                *Plan           `json:"context_package,omitempty"`
	Environment         Environment     `json:"environment"`
	ProgressMilestones  []string        `json:"progress_milestones"`
	CompletedMilestones []string        `json:"completed_milestones"`
	ProgressPercent     int             `json:"progress_percent"`
	ThoughtParkingLot   []ParkedThought `json:"thought_parking_lot"`
	DopamineCheckpoints []Checkpoint    `json:"dopamine_checkpoints"`
	InitiationRitual    []string        `json:"initiation_ritual"`
	AntiRepetitionMode  string          `json:"anti_repetition_mode"`
}

// ParkThought appends an intrusive thought to the parking lot. Unknown
// categories default to random; thoughts resurface at the next break.
func (t *Info) ParkThought(thought string, category ThoughtCategory, at time.Time) {
	switch category {
	case ThoughtTask, ThoughtIdea, ThoughtWorry, ThoughtRandom:
	default:
		category = ThoughtRandom
	}
	t.ThoughtParkingLot = append(t.ThoughtParkingLot, ParkedThought{
		Thought:     thought,
		Category:    category,
		CapturedAt:  at,
		ResurfaceAt: "next_break",
	})
}

// CompleteMilestone marks a milestone done and refreshes the progress
// percentage. Unknown or repeated labels are ignored.
func (t *Info) CompleteMilestone(label string) {
	known := false
	for _, m := range t.ProgressMilestones {
		if m == label {
			known = true
			break
		}
	}
	if !known {
		return
	}
	for _, m := range t.CompletedMilestones {
		if m == label {
			return
		}
	}
	t.CompletedMilestones = append(t.CompletedMilestones, label)
	t.ProgressPercent = 100 * len(t.CompletedMilestones) / len(t.ProgressMilestones)
}
