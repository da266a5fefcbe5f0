// Package classroom ties the roster, the scorer and the group partitioner
// into the single state object driven by the interfaces.
package classroom

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/rollcall/internal/groups"
	"github.com/verte-zerg/rollcall/internal/model"
	"github.com/verte-zerg/rollcall/internal/roster"
	"github.com/verte-zerg/rollcall/internal/scoring"
)

// RevealRepeats is how many times the available pool is repeated in a reveal sequence.
const RevealRepeats = 3

// Options configures a Classroom.
type Options struct {
	Mode          model.Mode
	AutoSession   bool
	RecentWindow  int
	WeightCeiling int
	FloorPoints   bool

	// Sources default to time-seeded generators; tests inject their own.
	SelectSource roster.Source
	GroupSource  groups.Source
	Now          func() time.Time
	Logger       zerolog.Logger
}

// Pick is the result of a selection handed to the presentation layer.
type Pick struct {
	Name   string
	Reveal []string
}

// Classroom owns all mutable state for one roster.
type Classroom struct {
	profile string
	mode    model.Mode
	opts    Options
	log     zerolog.Logger

	state     *roster.State
	scorer    *scoring.Session
	partition *groups.Partitioner

	sessionStart time.Time
	sessionPicks int
}

// New creates a Classroom for the roster stored under profile.
func New(profile string, names []string, opts Options) *Classroom {
	if opts.Mode == "" {
		opts.Mode = model.ModeNormal
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SelectSource == nil {
		opts.SelectSource = roster.NewSource()
	}
	if opts.GroupSource == nil {
		opts.GroupSource = roster.NewSource()
	}
	rosterOpts := []roster.Option{roster.WithSource(opts.SelectSource)}
	if opts.RecentWindow > 0 {
		rosterOpts = append(rosterOpts, roster.WithRecentWindow(opts.RecentWindow))
	}
	if opts.WeightCeiling > 0 {
		rosterOpts = append(rosterOpts, roster.WithWeightCeiling(opts.WeightCeiling))
	}
	return &Classroom{
		profile:   profile,
		mode:      opts.Mode,
		opts:      opts,
		log:       opts.Logger,
		state:     roster.New(names, rosterOpts...),
		scorer:    scoring.New(scoring.Policy{FloorAtZero: opts.FloorPoints}),
		partition: groups.New(opts.GroupSource),
	}
}

// Profile returns the active profile name.
func (c *Classroom) Profile() string {
	return c.profile
}

// Mode returns the selection mode.
func (c *Classroom) Mode() model.Mode {
	return c.mode
}

// SetMode changes the selection mode. Retained data is untouched.
func (c *Classroom) SetMode(mode model.Mode) {
	c.mode = mode
}

// Roster exposes read access to the selection state.
func (c *Classroom) Roster() *roster.State {
	return c.state
}

// Scorer exposes read access to the session scorer.
func (c *Classroom) Scorer() *scoring.Session {
	return c.scorer
}

// Available returns the names eligible under the current mode.
func (c *Classroom) Available() []string {
	return c.state.Available(c.mode)
}

// Pick selects the next student. The reveal sequence is built from the pool
// as it stands after the pick.
func (c *Classroom) Pick() (Pick, error) {
	if c.opts.AutoSession && !c.scorer.Active() && len(c.state.Available(c.mode)) > 0 {
		c.StartSession()
	}
	name, err := c.state.Select(c.mode)
	if err != nil {
		return Pick{}, err
	}
	c.scorer.Observe(name)
	if c.scorer.Active() {
		c.sessionPicks++
	}
	c.log.Debug().Str("student", name).Str("mode", string(c.mode)).Msg("student selected")
	return Pick{Name: name, Reveal: c.revealSequence(name)}, nil
}

// Undo reverts the last pick.
func (c *Classroom) Undo() (string, error) {
	name, err := c.state.Undo()
	if err != nil {
		return "", err
	}
	c.scorer.Clear(name)
	if c.scorer.Active() && c.sessionPicks > 0 {
		c.sessionPicks--
	}
	return name, nil
}

// Reset clears the selection bookkeeping. Blocked names are kept.
func (c *Classroom) Reset() {
	c.state.Reset()
	if cur, ok := c.scorer.Current(); ok {
		c.scorer.Clear(cur)
	}
}

// ToggleBlock flips the blocked flag for name.
func (c *Classroom) ToggleBlock(name string) bool {
	return c.state.ToggleBlock(name)
}

// StartSession resets the selections and opens a fresh scored session.
func (c *Classroom) StartSession() {
	c.state.Reset()
	c.scorer.Start(c.state.Names())
	c.sessionStart = c.opts.Now()
	c.sessionPicks = 0
	c.log.Info().Str("profile", c.profile).Msg("session started")
}

// EndSession closes the session and returns the ranking with its history record.
func (c *Classroom) EndSession() (model.Ranking, model.SessionRecord, error) {
	ranking, err := c.scorer.End()
	if err != nil {
		return model.Ranking{}, model.SessionRecord{}, err
	}
	rec := model.SessionRecord{
		Profile:   c.profile,
		Mode:      c.mode,
		StartedAt: c.sessionStart,
		EndedAt:   c.opts.Now(),
		Picks:     c.sessionPicks,
		Standings: ranking.All(),
	}
	c.log.Info().Str("profile", c.profile).Int("picks", rec.Picks).Msg("session ended")
	return ranking, rec, nil
}

// MarkCorrect credits the pending student.
func (c *Classroom) MarkCorrect() (string, error) {
	return c.scorer.MarkCorrect()
}

// MarkWrong penalises the pending student.
func (c *Classroom) MarkWrong() (string, error) {
	return c.scorer.MarkWrong()
}

// Standings ranks the roster by the current session scores. Outside a
// session every score is zero and the order falls back to names.
func (c *Classroom) Standings() []model.Standing {
	return scoring.Rank(c.state.Names(), c.scorer.Scores())
}

// Groups partitions the unblocked students. Elimination does not apply.
func (c *Classroom) Groups(numGroups, perGroup int) ([][]string, error) {
	out, err := c.partition.Partition(c.state.Unblocked(), numGroups, perGroup)
	if err != nil {
		return nil, eris.Wrap(err, "failed to build groups")
	}
	return out, nil
}

// SwitchRoster replaces the roster with a profile. Every selection field is
// cleared and an active session is discarded.
func (c *Classroom) SwitchRoster(profile string, names []string) {
	if c.scorer.Active() {
		c.log.Warn().Str("profile", c.profile).Msg("discarding active session on roster switch")
		c.scorer.Discard()
	}
	c.profile = profile
	c.state.SetRoster(names)
	c.sessionPicks = 0
}

func (c *Classroom) revealSequence(final string) []string {
	pool := c.state.Available(c.mode)
	if len(pool) == 0 {
		pool = []string{final}
	}
	out := make([]string, 0, len(pool)*RevealRepeats)
	for i := 0; i < RevealRepeats; i++ {
		out = append(out, pool...)
	}
	return out
}
