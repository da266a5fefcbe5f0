// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the selection policy.
type Mode string

// Selection policies.
const (
	ModeNormal      Mode = "normal"
	ModeElimination Mode = "elimination"
	ModeFair        Mode = "fair"
	ModeWeighted    Mode = "weighted"
)

// Modes lists the policies in display order.
var Modes = []Mode{ModeNormal, ModeElimination, ModeFair, ModeWeighted}

// ParseMode converts a config or flag value into a Mode.
func ParseMode(v string) (Mode, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	for _, m := range Modes {
		if string(m) == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (expected normal, elimination, fair or weighted)", v)
}

// Next returns the mode following m in display order.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeNormal
}

// Options defines the merged selector, timer and group settings.
type Options struct {
	Mode          string `validate:"oneof=normal elimination fair weighted"`
	Animation     bool
	Sound         bool
	AutoSession   bool
	RecentWindow  int `validate:"gte=1"`
	WeightCeiling int `validate:"gte=1"`
	FloorPoints   bool

	TimerMinutes int `validate:"gte=0,lte=600"`
	Alarm        bool

	GroupCount int `validate:"gte=0"`
	GroupSize  int `validate:"gte=0"`

	LogLevel string `validate:"oneof=trace debug info warn error disabled"`
}

// Score is a per-student tally for the active session.
type Score struct {
	Correct int
	Wrong   int
	Points  int
}

// Standing is one ranked entry of a finished session.
type Standing struct {
	Place   int
	Name    string
	Correct int
	Wrong   int
	Points  int
}

// Ranking is the end-of-session snapshot: the podium (top 3) and the rest.
type Ranking struct {
	Podium []Standing
	Rest   []Standing
}

// All returns podium and rest in place order.
func (r Ranking) All() []Standing {
	out := make([]Standing, 0, len(r.Podium)+len(r.Rest))
	out = append(out, r.Podium...)
	return append(out, r.Rest...)
}

// SessionRecord captures a finished scoring session for history.
type SessionRecord struct {
	ID        int64
	Profile   string
	Mode      Mode
	StartedAt time.Time
	EndedAt   time.Time
	Picks     int
	Standings []Standing
}
