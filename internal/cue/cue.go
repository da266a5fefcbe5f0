// Package cue emits fire-and-forget sound cues through the terminal bell.
package cue

import (
	"io"
	"strings"
)

// Cue identifies a notification.
type Cue int

// Known cues.
const (
	Tick Cue = iota
	Win
	Alarm
)

// Bell rings the terminal bell. Ticks are silent.
type Bell struct {
	w       io.Writer
	enabled bool
}

// NewBell writes bells to w when enabled.
func NewBell(w io.Writer, enabled bool) *Bell {
	return &Bell{w: w, enabled: enabled}
}

// SetEnabled toggles sound.
func (b *Bell) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Enabled reports whether sound is on.
func (b *Bell) Enabled() bool {
	return b.enabled
}

// Play writes the bell sequence for c when sound is on.
func (b *Bell) Play(c Cue) {
	if !b.enabled || b.w == nil {
		return
	}
	var out string
	switch c {
	case Win:
		out = "\a"
	case Alarm:
		out = strings.Repeat("\a", 3)
	default:
		return
	}
	if _, err := io.WriteString(b.w, out); err != nil {
		// Best-effort cue.
		_ = err
	}
}
