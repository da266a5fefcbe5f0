// Package scoring tracks a scored session and ranks students when it ends.
package scoring

import (
	"sort"

	"github.com/rotisserie/eris"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/rollcall/internal/model"
)

// PodiumSize is the number of standings placed on the podium.
const PodiumSize = 3

var (
	// ErrNoSession is returned when scoring is attempted outside an active session.
	ErrNoSession = eris.New("no active session")
	// ErrNothingToMark is returned when there is no fresh selection to judge.
	ErrNothingToMark = eris.New("no selected student to mark")
)

// Policy controls how wrong answers affect points.
type Policy struct {
	// FloorAtZero keeps points from going below zero on a wrong mark.
	FloorAtZero bool
}

// Session is the scorer state machine: inactive until Start, active until End.
type Session struct {
	policy  Policy
	active  bool
	names   []string
	scores  map[string]*model.Score
	current string
}

// New returns an inactive session scorer.
func New(policy Policy) *Session {
	return &Session{policy: policy}
}

// Active reports whether a session is running.
func (s *Session) Active() bool {
	return s.active
}

// Current returns the student awaiting a judgment, if any.
func (s *Session) Current() (string, bool) {
	return s.current, s.current != ""
}

// Start begins a session with zeroed scores for every roster member.
func (s *Session) Start(roster []string) {
	s.active = true
	s.current = ""
	s.names = append([]string(nil), roster...)
	s.scores = make(map[string]*model.Score, len(roster))
	for _, name := range roster {
		s.scores[name] = &model.Score{}
	}
}

// Discard drops an active session without producing a ranking.
func (s *Session) Discard() {
	s.active = false
	s.current = ""
	s.names = nil
	s.scores = nil
}

// Observe records a selection. Outside a session it does nothing.
func (s *Session) Observe(name string) {
	if !s.active {
		return
	}
	if _, ok := s.scores[name]; !ok {
		return
	}
	s.current = name
}

// Clear drops the pending selection, e.g. after it was undone.
func (s *Session) Clear(name string) {
	if s.current == name {
		s.current = ""
	}
}

// MarkCorrect credits the current student with a point.
func (s *Session) MarkCorrect() (string, error) {
	score, name, err := s.pending()
	if err != nil {
		return "", err
	}
	score.Correct++
	score.Points++
	s.current = ""
	return name, nil
}

// MarkWrong records a wrong answer for the current student.
func (s *Session) MarkWrong() (string, error) {
	score, name, err := s.pending()
	if err != nil {
		return "", err
	}
	score.Wrong++
	if !s.policy.FloorAtZero || score.Points > 0 {
		score.Points--
	}
	s.current = ""
	return name, nil
}

// Score returns the tally for name.
func (s *Session) Score(name string) model.Score {
	if sc, ok := s.scores[name]; ok {
		return *sc
	}
	return model.Score{}
}

// Scores returns a copy of every tally.
func (s *Session) Scores() map[string]model.Score {
	out := make(map[string]model.Score, len(s.scores))
	for name, sc := range s.scores {
		out[name] = *sc
	}
	return out
}

// Standings ranks the current tallies without ending the session.
func (s *Session) Standings() []model.Standing {
	return Rank(s.names, s.Scores())
}

// End stops the session and returns the ranking snapshot.
func (s *Session) End() (model.Ranking, error) {
	if !s.active {
		return model.Ranking{}, ErrNoSession
	}
	standings := s.Standings()
	s.Discard()
	return Split(standings), nil
}

func (s *Session) pending() (*model.Score, string, error) {
	if !s.active {
		return nil, "", ErrNoSession
	}
	if s.current == "" {
		return nil, "", ErrNothingToMark
	}
	return s.scores[s.current], s.current, nil
}

// Rank orders names by points desc, wrong asc, then name.
func Rank(names []string, scores map[string]model.Score) []model.Standing {
	col := collate.New(language.Und)
	ordered := append([]string(nil), names...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := scores[ordered[i]], scores[ordered[j]]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wrong != b.Wrong {
			return a.Wrong < b.Wrong
		}
		return col.CompareString(ordered[i], ordered[j]) < 0
	})
	out := make([]model.Standing, len(ordered))
	for i, name := range ordered {
		sc := scores[name]
		out[i] = model.Standing{
			Place:   i + 1,
			Name:    name,
			Correct: sc.Correct,
			Wrong:   sc.Wrong,
			Points:  sc.Points,
		}
	}
	return out
}

// Split partitions ordered standings into the podium and the rest.
func Split(standings []model.Standing) model.Ranking {
	n := PodiumSize
	if n > len(standings) {
		n = len(standings)
	}
	return model.Ranking{
		Podium: standings[:n],
		Rest:   standings[n:],
	}
}
