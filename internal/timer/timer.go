// Package timer implements a pausable one-second countdown.
package timer

import "fmt"

// Presets are the quick-pick durations in minutes.
var Presets = []int{1, 3, 5, 10}

// Countdown is the timer state. The owner calls Tick once per second while
// Running reports true.
type Countdown struct {
	duration  int
	remaining int
	running   bool
}

// Set loads a new duration in seconds and stops the countdown.
func (c *Countdown) Set(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.duration = seconds
	c.remaining = seconds
	c.running = false
}

// SetMinutes is Set for whole minutes.
func (c *Countdown) SetMinutes(minutes int) {
	c.Set(minutes * 60)
}

// Start resumes the countdown. It reports false when there is nothing left
// to count or the countdown is already running.
func (c *Countdown) Start() bool {
	if c.remaining <= 0 || c.running {
		return false
	}
	c.running = true
	return true
}

// Pause stops the countdown and keeps the remaining time.
func (c *Countdown) Pause() {
	c.running = false
}

// Reset pauses and rewinds to the configured duration.
func (c *Countdown) Reset() {
	c.running = false
	c.remaining = c.duration
}

// Tick advances one second and reports whether the countdown just expired.
func (c *Countdown) Tick() bool {
	if !c.running {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		return true
	}
	return false
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool {
	return c.running
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Duration returns the configured seconds.
func (c *Countdown) Duration() int {
	return c.duration
}

// Display formats the remaining time as MM:SS.
func (c *Countdown) Display() string {
	return fmt.Sprintf("%02d:%02d", c.remaining/60, c.remaining%60)
}

// Progress returns the elapsed fraction in [0, 1].
func (c *Countdown) Progress() float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.duration-c.remaining) / float64(c.duration)
}
