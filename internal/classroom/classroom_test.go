package classroom

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rollcall/internal/groups"
	"github.com/verte-zerg/rollcall/internal/model"
	"github.com/verte-zerg/rollcall/internal/roster"
	"github.com/verte-zerg/rollcall/internal/scoring"
)

func newClassroom(t *testing.T, opts Options) *Classroom {
	t.Helper()
	opts.SelectSource = rand.New(rand.NewSource(11))
	opts.GroupSource = rand.New(rand.NewSource(12))
	clock := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	opts.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return New("IA103", []string{"Imane", "Youssef", "Mohamed", "Ali", "Salma"}, opts)
}

func TestPickRevealSequence(t *testing.T) {
	c := newClassroom(t, Options{Mode: model.ModeNormal})
	pick, err := c.Pick()
	require.NoError(t, err)
	assert.Contains(t, c.Roster().Names(), pick.Name)
	assert.Len(t, pick.Reveal, 5*RevealRepeats)
	assert.Equal(t, 1, c.Roster().Total())
}

func TestSessionFlow(t *testing.T) {
	c := newClassroom(t, Options{Mode: model.ModeFair})
	_, err := c.Pick()
	require.NoError(t, err)

	c.StartSession()
	assert.Equal(t, 0, c.Roster().Total(), "start resets selections")

	_, err = c.MarkCorrect()
	assert.True(t, eris.Is(err, scoring.ErrNothingToMark))

	pick, err := c.Pick()
	require.NoError(t, err)
	name, err := c.MarkCorrect()
	require.NoError(t, err)
	assert.Equal(t, pick.Name, name)
	_, err = c.MarkCorrect()
	assert.True(t, eris.Is(err, scoring.ErrNothingToMark))

	pick2, err := c.Pick()
	require.NoError(t, err)
	_, err = c.MarkWrong()
	require.NoError(t, err)

	ranking, rec, err := c.EndSession()
	require.NoError(t, err)
	assert.Equal(t, pick.Name, ranking.Podium[0].Name)
	assert.Equal(t, pick2.Name, ranking.All()[4].Name)
	assert.Equal(t, 2, rec.Picks)
	assert.Equal(t, "IA103", rec.Profile)
	assert.Equal(t, model.ModeFair, rec.Mode)
	assert.True(t, rec.EndedAt.After(rec.StartedAt))
	assert.Len(t, rec.Standings, 5)

	_, _, err = c.EndSession()
	assert.True(t, eris.Is(err, scoring.ErrNoSession))
}

func TestAutoSession(t *testing.T) {
	c := newClassroom(t, Options{AutoSession: true})
	_, err := c.Pick()
	require.NoError(t, err)
	assert.True(t, c.Scorer().Active())
	_, err = c.MarkCorrect()
	require.NoError(t, err)
}

func TestUndoClearsPendingJudgment(t *testing.T) {
	c := newClassroom(t, Options{})
	c.StartSession()
	_, err := c.Pick()
	require.NoError(t, err)
	_, err = c.Undo()
	require.NoError(t, err)
	_, err = c.MarkCorrect()
	assert.True(t, eris.Is(err, scoring.ErrNothingToMark))

	_, err = c.Undo()
	assert.True(t, eris.Is(err, roster.ErrEmptyHistory))
}

func TestGroupsIgnoreElimination(t *testing.T) {
	c := newClassroom(t, Options{Mode: model.ModeElimination})
	c.ToggleBlock("Ali")
	_, err := c.Pick()
	require.NoError(t, err)

	out, err := c.Groups(2, 0)
	require.NoError(t, err)
	var all []string
	for _, g := range out {
		all = append(all, g...)
	}
	assert.ElementsMatch(t, []string{"Imane", "Youssef", "Mohamed", "Salma"}, all)

	_, err = c.Groups(0, 0)
	assert.True(t, eris.Is(err, groups.ErrInvalidRequest))
}

func TestSwitchRosterDiscardsSession(t *testing.T) {
	c := newClassroom(t, Options{})
	c.StartSession()
	c.ToggleBlock("Ali")
	_, err := c.Pick()
	require.NoError(t, err)

	c.SwitchRoster("IA104", []string{"Salwa", "Hamza"})
	assert.Equal(t, "IA104", c.Profile())
	assert.False(t, c.Scorer().Active())
	assert.Empty(t, c.Roster().Blocked())
	assert.Equal(t, 0, c.Roster().Total())
	assert.Equal(t, []string{"Salwa", "Hamza"}, c.Available())
}

func TestEmptyPoolLeavesStateUntouched(t *testing.T) {
	c := newClassroom(t, Options{AutoSession: true})
	for _, n := range c.Roster().Names() {
		c.ToggleBlock(n)
	}
	_, err := c.Pick()
	assert.True(t, eris.Is(err, roster.ErrEmptyPool))
	assert.False(t, c.Scorer().Active())
}
