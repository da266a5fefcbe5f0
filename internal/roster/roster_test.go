package roster

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rollcall/internal/model"
)

// scripted replays fixed draws, repeating the last one.
type scripted struct {
	draws []float64
	i     int
}

func (s *scripted) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	v := s.draws[s.i]
	if s.i < len(s.draws)-1 {
		s.i++
	}
	return v
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('A' + i))
	}
	return out
}

type snapshot struct {
	history    []string
	counts     map[string]int
	eliminated []string
	total      int
}

func snap(s *State) snapshot {
	counts := map[string]int{}
	for _, n := range s.Names() {
		counts[n] = s.Count(n)
	}
	return snapshot{history: s.History(), counts: counts, eliminated: s.Eliminated(), total: s.Total()}
}

func TestSelectReturnsAvailableMember(t *testing.T) {
	for _, mode := range model.Modes {
		t.Run(string(mode), func(t *testing.T) {
			s := New(names(8), WithSource(NewSource()))
			s.ToggleBlock("C")
			for i := 0; i < 6; i++ {
				available := s.Available(mode)
				got, err := s.Select(mode)
				require.NoError(t, err)
				assert.Contains(t, available, got)
			}
		})
	}
}

func TestAvailableExcludesBlockedAndEliminated(t *testing.T) {
	s := New(names(4), WithSource(&scripted{draws: []float64{0}}))
	s.ToggleBlock("B")
	got, err := s.Select(model.ModeElimination)
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	assert.Equal(t, []string{"C", "D"}, s.Available(model.ModeElimination))
	assert.Equal(t, []string{"A", "C", "D"}, s.Available(model.ModeNormal))
}

func TestSelectEmptyPool(t *testing.T) {
	s := New([]string{"A"})
	s.ToggleBlock("A")
	_, err := s.Select(model.ModeNormal)
	assert.True(t, eris.Is(err, ErrEmptyPool))
	assert.Equal(t, 0, s.Total())
	assert.Empty(t, s.History())
}

func TestNormalAvoidsRecentWindow(t *testing.T) {
	s := New(names(8), WithSource(NewSource()))
	for i := 0; i < 200; i++ {
		recent := s.Recent(DefaultRecentWindow)
		got, err := s.Select(model.ModeNormal)
		require.NoError(t, err)
		assert.NotContains(t, recent, got)
	}
}

func TestNormalFallsBackWhenEveryoneIsRecent(t *testing.T) {
	s := New(names(3), WithSource(&scripted{draws: []float64{0, 0, 0, 0.99}}))
	for _, want := range []string{"A", "B", "C"} {
		got, err := s.Select(model.ModeNormal)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	// All three are in the last five picks, so the pool falls back to everyone.
	got, err := s.Select(model.ModeNormal)
	require.NoError(t, err)
	assert.Equal(t, "C", got)
}

func TestEliminationAppliesDuringSelect(t *testing.T) {
	s := New(names(3), WithSource(&scripted{draws: []float64{0.5}}))
	got, err := s.Select(model.ModeElimination)
	require.NoError(t, err)
	assert.True(t, s.IsEliminated(got))
	assert.NotContains(t, s.Available(model.ModeElimination), got)

	for i := 0; i < 2; i++ {
		_, err := s.Select(model.ModeElimination)
		require.NoError(t, err)
	}
	_, err = s.Select(model.ModeElimination)
	assert.True(t, eris.Is(err, ErrEmptyPool))
}

func TestFairPicksMinimumCount(t *testing.T) {
	s := New(names(5), WithSource(NewSource()))
	for i := 0; i < 40; i++ {
		minCount := -1
		for _, n := range s.Available(model.ModeFair) {
			if c := s.Count(n); minCount < 0 || c < minCount {
				minCount = c
			}
		}
		before := map[string]int{}
		for _, n := range s.Names() {
			before[n] = s.Count(n)
		}
		got, err := s.Select(model.ModeFair)
		require.NoError(t, err)
		assert.Equal(t, minCount, before[got])
	}
}

func TestWeightFloor(t *testing.T) {
	s := New([]string{"A", "B"}, WithSource(&scripted{draws: []float64{0.99}}))
	for i := 0; i < 12; i++ {
		s.history = append(s.history, "B")
		s.counts["B"]++
		s.total++
	}
	assert.Equal(t, 10, s.Weight("A"))
	assert.Equal(t, 1, s.Weight("B"))
	assert.GreaterOrEqual(t, s.Weight("A"), s.Weight("B"))
}

func TestWeightedCumulativeSubtraction(t *testing.T) {
	// Weights are A=10, B=10, total 20. r = 0.5*20 = 10 lands exactly on
	// the first boundary, which is inclusive, so A wins.
	s := New([]string{"A", "B"}, WithSource(&scripted{draws: []float64{0.5}}))
	got, err := s.Select(model.ModeWeighted)
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	// Now A=9, B=10, total 19. r = 0.5*19 = 9.5 passes A and lands on B.
	got, err = s.Select(model.ModeWeighted)
	require.NoError(t, err)
	assert.Equal(t, "B", got)
}

func TestUndoRoundTrip(t *testing.T) {
	for _, mode := range model.Modes {
		t.Run(string(mode), func(t *testing.T) {
			s := New(names(6), WithSource(NewSource()))
			for i := 0; i < 3; i++ {
				_, err := s.Select(mode)
				require.NoError(t, err)
			}
			before := snap(s)
			picked, err := s.Select(mode)
			require.NoError(t, err)

			undone, err := s.Undo()
			require.NoError(t, err)
			assert.Equal(t, picked, undone)
			assert.Equal(t, before, snap(s))
		})
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	s := New(names(2))
	_, err := s.Undo()
	assert.True(t, eris.Is(err, ErrEmptyHistory))
}

func TestResetKeepsBlocked(t *testing.T) {
	s := New(names(4), WithSource(NewSource()))
	s.ToggleBlock("D")
	for i := 0; i < 3; i++ {
		_, err := s.Select(model.ModeElimination)
		require.NoError(t, err)
	}
	s.Reset()
	assert.Equal(t, 0, s.Total())
	assert.Empty(t, s.History())
	assert.Empty(t, s.Eliminated())
	for _, n := range s.Names() {
		assert.Equal(t, 0, s.Count(n))
	}
	assert.Equal(t, []string{"D"}, s.Blocked())
}

func TestSetRosterHardReset(t *testing.T) {
	s := New(names(3), WithSource(NewSource()))
	s.ToggleBlock("A")
	_, err := s.Select(model.ModeElimination)
	require.NoError(t, err)

	s.SetRoster([]string{"X", "Y", "X"})
	assert.Equal(t, []string{"X", "Y"}, s.Names())
	assert.Empty(t, s.Blocked())
	assert.Empty(t, s.History())
	assert.Empty(t, s.Eliminated())
	assert.Equal(t, 0, s.Total())
}

func TestRecentNewestFirst(t *testing.T) {
	s := New(names(3), WithSource(&scripted{draws: []float64{0}}))
	for i := 0; i < 3; i++ {
		_, err := s.Select(model.ModeElimination)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"C", "B"}, s.Recent(2))
}
