package cue

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, true)
	b.Play(Tick)
	b.Play(Win)
	b.Play(Alarm)
	assert.Equal(t, "\a\a\a\a", buf.String())

	buf.Reset()
	b.SetEnabled(false)
	b.Play(Alarm)
	assert.Empty(t, buf.String())
}
