package task

import "strings"

// BodyDouble is the virtual co-worker configuration.
type BodyDouble struct {
	Enabled           bool   `json:"enabled"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	CheckInIntervals  []int  `json:"check_in_intervals"`
	PresenceIndicator string `json:"presence_indicator"`
}

// DefaultBodyDouble returns the standard co-worker setup.
func DefaultBodyDouble() BodyDouble {
	return BodyDouble{
		Enabled:           true,
		Name:              "Alex",
		Status:            "Getting ready to work...",
		CheckInIntervals:  []int{15, 30, 45},
		PresenceIndicator: "🟢",
	}
}

// PlaylistTrack is one BPM-mapped playlist entry.
type PlaylistTrack struct {
	Section    string `json:"section"`
	Song       string `json:"song"`
	BPM        int    `json:"bpm"`
	MappedStep string `json:"mapped_step"`
	Reason     string `json:"reason"`
}

// Environment is the focus workspace configuration for a task.
type Environment struct {
	MusicStyle            string          `json:"music_style"`
	MusicReasoning        string          `json:"music_reasoning"`
	TimerMode             string          `json:"timer_mode"`
	TimerDuration         int             `json:"timer_duration"`
	ToolsEnabled          []string        `json:"tools_enabled"`
	VideoURL              string          `json:"video_url"`
	Layout                string          `json:"layout"`
	BodyDouble            BodyDouble      `json:"body_double"`
	AmbientLayers         []string        `json:"ambient_layers"`
	BreakActivities       []string        `json:"break_activities"`
	ThoughtParkingEnabled bool            `json:"thought_parking_enabled"`
	Playlist              []PlaylistTrack `json:"playlist"`
}

// DefaultEnvironment returns the baseline workspace before any generation.
func DefaultEnvironment() Environment {
	return Environment{
		MusicStyle:            "lo-fi",
		TimerMode:             "pomodoro",
		TimerDuration:         25,
		ToolsEnabled:          []string{"notepad"},
		Layout:                "focused",
		BodyDouble:            DefaultBodyDouble(),
		ThoughtParkingEnabled: true,
	}
}

// BPM envelope per playlist phase. Startup and grind must energize, deep
// focus and wind-down must stay calm.
const (
	StartupMinBPM   = 130
	DeepFocusMaxBPM = 90
	GrindMinBPM     = 140
	WindDownMaxBPM  = 80
)

// RepairPlaylist snaps tracks violating the phase BPM envelope to the
// nearest legal bound. Tracks in unrecognized sections are left alone.
func RepairPlaylist(playlist []PlaylistTrack) []PlaylistTrack {
	out := make([]PlaylistTrack, len(playlist))
	for i, tr := range playlist {
		section := strings.ToLower(tr.Section)
		switch {
		case strings.Contains(section, "startup"):
			if tr.BPM < StartupMinBPM {
				tr.BPM = StartupMinBPM
			}
		case strings.Contains(section, "deep focus"):
			if tr.BPM > DeepFocusMaxBPM {
				tr.BPM = DeepFocusMaxBPM
			}
		case strings.Contains(section, "grind"):
			if tr.BPM < GrindMinBPM {
				tr.BPM = GrindMinBPM
			}
		case strings.Contains(section, "wind down"):
			if tr.BPM > WindDownMaxBPM {
				tr.BPM = WindDownMaxBPM
			}
		}
		out[i] = tr
	}
	return out
}

// envDefault captures the per-type fallback environment values.
type envDefault struct {
	musicStyle      string
	timerDuration   int
	breakActivities []string
}

var envDefaults = map[Type]envDefault{
	TypeCoding: {
		musicStyle:      "kpop",
		timerDuration:   25,
		breakActivities: []string{"💃 Dance to one song", "🏃 10 jumping jacks", "💧 Drink water"},
	},
	TypeWriting: {
		musicStyle:      "lo-fi",
		timerDuration:   45,
		breakActivities: []string{"📖 Read one page", "✍️ Doodle 3 min", "🚶 Walk outside"},
	},
	TypeRevision: {
		musicStyle:      "upbeat",
		timerDuration:   15,
		breakActivities: []string{"📱 Watch ONE short video", "🍿 Snack break", "💬 Text a friend"},
	},
	TypeGeneral: {
		musicStyle:      "lo-fi",
		timerDuration:   25,
		breakActivities: []string{"💧 Drink water", "🚶 Walk around"},
	},
}

// FallbackEnvironment builds the per-type default used when environment
// generation fails.
func FallbackEnvironment(t Type, bodyDoubleName string) Environment {
	d, ok := envDefaults[t]
	if !ok {
		d = envDefaults[TypeGeneral]
	}
	env := DefaultEnvironment()
	env.MusicStyle = d.musicStyle
	env.TimerDuration = d.timerDuration
	env.BreakActivities = d.breakActivities
	env.BodyDouble.Status = "Getting ready to work with you!"
	if bodyDoubleName != "" {
		env.BodyDouble.Name = bodyDoubleName
	}
	return env
}
