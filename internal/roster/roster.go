// Package roster owns the student list and the selection policy engine.
package roster

import (
	"math/rand"
	"time"

	"github.com/rotisserie/eris"

	"github.com/verte-zerg/rollcall/internal/model"
)

const (
	// DefaultRecentWindow is how many trailing history entries normal mode avoids.
	DefaultRecentWindow = 5
	// DefaultWeightCeiling is the weight given to a never-picked student in weighted mode.
	DefaultWeightCeiling = 10
)

var (
	// ErrEmptyPool is returned when no student is eligible for selection.
	ErrEmptyPool = eris.New("no student available")
	// ErrEmptyHistory is returned when there is no selection to undo.
	ErrEmptyHistory = eris.New("no selection to undo")
)

// Source yields uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a Source seeded with the current time.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// State holds the roster together with its selection bookkeeping.
type State struct {
	names      []string
	counts     map[string]int
	history    []string
	blocked    map[string]struct{}
	eliminated []string
	total      int

	rnd           Source
	recentWindow  int
	weightCeiling int
}

// Option tweaks a State at construction.
type Option func(*State)

// WithSource overrides the random source.
func WithSource(src Source) Option {
	return func(s *State) {
		s.rnd = src
	}
}

// WithRecentWindow overrides the normal-mode avoidance window.
func WithRecentWindow(n int) Option {
	return func(s *State) {
		if n >= 0 {
			s.recentWindow = n
		}
	}
}

// WithWeightCeiling overrides the weighted-mode ceiling.
func WithWeightCeiling(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.weightCeiling = n
		}
	}
}

// New builds a State for the given names. Duplicates keep their first position.
func New(names []string, opts ...Option) *State {
	s := &State{
		recentWindow:  DefaultRecentWindow,
		weightCeiling: DefaultWeightCeiling,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = NewSource()
	}
	s.SetRoster(names)
	return s
}

// SetRoster replaces the roster and clears every selection field, blocked included.
func (s *State) SetRoster(names []string) {
	s.names = dedupe(names)
	s.counts = make(map[string]int, len(s.names))
	for _, name := range s.names {
		s.counts[name] = 0
	}
	s.history = nil
	s.blocked = map[string]struct{}{}
	s.eliminated = nil
	s.total = 0
}

// Names returns a copy of the roster in order.
func (s *State) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the roster size.
func (s *State) Len() int {
	return len(s.names)
}

// Contains reports whether name is on the roster.
func (s *State) Contains(name string) bool {
	_, ok := s.counts[name]
	return ok
}

// Count returns how many times name has been selected.
func (s *State) Count(name string) int {
	return s.counts[name]
}

// Total returns the running number of selections.
func (s *State) Total() int {
	return s.total
}

// History returns every selection in order.
func (s *State) History() []string {
	return append([]string(nil), s.history...)
}

// Recent returns up to n most recent selections, newest first.
func (s *State) Recent(n int) []string {
	if n <= 0 || len(s.history) == 0 {
		return nil
	}
	if n > len(s.history) {
		n = len(s.history)
	}
	out := make([]string, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		out = append(out, s.history[i])
	}
	return out
}

// Eliminated returns the eliminated names in elimination order.
func (s *State) Eliminated() []string {
	return append([]string(nil), s.eliminated...)
}

// IsEliminated reports whether name was eliminated.
func (s *State) IsEliminated(name string) bool {
	return indexOf(s.eliminated, name) >= 0
}

// IsBlocked reports whether name is blocked.
func (s *State) IsBlocked(name string) bool {
	_, ok := s.blocked[name]
	return ok
}

// Blocked returns blocked names in roster order.
func (s *State) Blocked() []string {
	out := make([]string, 0, len(s.blocked))
	for _, name := range s.names {
		if s.IsBlocked(name) {
			out = append(out, name)
		}
	}
	return out
}

// ToggleBlock flips the blocked flag for name and reports the new value.
// Names outside the roster are ignored.
func (s *State) ToggleBlock(name string) bool {
	if !s.Contains(name) {
		return false
	}
	if s.IsBlocked(name) {
		delete(s.blocked, name)
		return false
	}
	s.blocked[name] = struct{}{}
	return true
}

// Unblocked returns the roster minus blocked names, in roster order.
func (s *State) Unblocked() []string {
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		if !s.IsBlocked(name) {
			out = append(out, name)
		}
	}
	return out
}

// Available returns the names eligible for selection under mode.
func (s *State) Available(mode model.Mode) []string {
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		if s.IsBlocked(name) {
			continue
		}
		if mode == model.ModeElimination && s.IsEliminated(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Select picks the next student under mode and records the pick.
func (s *State) Select(mode model.Mode) (string, error) {
	available := s.Available(mode)
	if len(available) == 0 {
		return "", ErrEmptyPool
	}

	var selected string
	switch mode {
	case model.ModeElimination:
		selected = s.pickUniform(available)
		s.eliminated = append(s.eliminated, selected)
	case model.ModeFair:
		selected = s.pickUniform(s.leastSelected(available))
	case model.ModeWeighted:
		selected = s.pickWeighted(available)
	default:
		selected = s.pickUniform(s.notRecent(available))
	}

	s.history = append(s.history, selected)
	s.counts[selected]++
	s.total++
	return selected, nil
}

// Undo removes the most recent selection and returns it.
func (s *State) Undo() (string, error) {
	if len(s.history) == 0 {
		return "", ErrEmptyHistory
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.counts[last]--
	s.total--
	if idx := indexOf(s.eliminated, last); idx >= 0 {
		s.eliminated = append(s.eliminated[:idx], s.eliminated[idx+1:]...)
	}
	return last, nil
}

// Reset clears history, eliminations and counts. Blocked names stay blocked.
func (s *State) Reset() {
	s.history = nil
	s.eliminated = nil
	s.total = 0
	for _, name := range s.names {
		s.counts[name] = 0
	}
}

// Weight returns the weighted-mode weight for name.
func (s *State) Weight(name string) int {
	w := s.weightCeiling - s.counts[name]
	if w < 1 {
		return 1
	}
	return w
}

func (s *State) notRecent(available []string) []string {
	recent := s.history
	if len(recent) > s.recentWindow {
		recent = recent[len(recent)-s.recentWindow:]
	}
	if s.recentWindow == 0 {
		recent = nil
	}
	pool := make([]string, 0, len(available))
	for _, name := range available {
		if indexOf(recent, name) < 0 {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return available
	}
	return pool
}

func (s *State) leastSelected(available []string) []string {
	minCount := s.counts[available[0]]
	for _, name := range available[1:] {
		if c := s.counts[name]; c < minCount {
			minCount = c
		}
	}
	least := make([]string, 0, len(available))
	for _, name := range available {
		if s.counts[name] == minCount {
			least = append(least, name)
		}
	}
	return least
}

func (s *State) pickUniform(pool []string) string {
	idx := int(s.rnd.Float64() * float64(len(pool)))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx]
}

// pickWeighted walks the pool subtracting weights; the first element that
// brings the remainder to <= 0 wins.
func (s *State) pickWeighted(pool []string) string {
	total := 0
	for _, name := range pool {
		total += s.Weight(name)
	}
	r := s.rnd.Float64() * float64(total)
	for _, name := range pool {
		r -= float64(s.Weight(name))
		if r <= 0 {
			return name
		}
	}
	return pool[len(pool)-1]
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}
