package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownLifecycle(t *testing.T) {
	var c Countdown
	assert.False(t, c.Start(), "nothing to count")

	c.Set(3)
	assert.Equal(t, "00:03", c.Display())
	assert.True(t, c.Start())
	assert.False(t, c.Start(), "already running")

	assert.False(t, c.Tick())
	c.Pause()
	assert.False(t, c.Tick(), "paused ticks are ignored")
	assert.Equal(t, 2, c.Remaining())

	assert.True(t, c.Start())
	assert.False(t, c.Tick())
	assert.True(t, c.Tick())
	assert.False(t, c.Running())
	assert.Equal(t, 0, c.Remaining())
	assert.InDelta(t, 1.0, c.Progress(), 1e-9)

	c.Reset()
	assert.Equal(t, 3, c.Remaining())
	assert.False(t, c.Running())
}

func TestDisplayMinutes(t *testing.T) {
	var c Countdown
	c.SetMinutes(10)
	assert.Equal(t, "10:00", c.Display())
	c.Start()
	c.Tick()
	assert.Equal(t, "09:59", c.Display())
	assert.InDelta(t, 1.0/600, c.Progress(), 1e-9)
}

func TestSetStopsRunning(t *testing.T) {
	var c Countdown
	c.Set(5)
	c.Start()
	c.Set(-4)
	assert.False(t, c.Running())
	assert.Equal(t, 0, c.Duration())
	assert.Equal(t, 0.0, c.Progress())
}
