package groups

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func students(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func sizes(groups [][]string) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func flatten(groups [][]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	sort.Strings(out)
	return out
}

func TestPartitionByCount(t *testing.T) {
	p := New(rand.New(rand.NewSource(7)))
	groups, err := p.Partition(students(10), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 3}, sizes(groups))
	assert.Equal(t, students(10), flatten(groups))
}

func TestPartitionBySize(t *testing.T) {
	p := New(rand.New(rand.NewSource(7)))
	groups, err := p.Partition(students(10), 0, 4)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, 4, len(groups[0]))
	assert.Equal(t, 4, len(groups[1]))
	assert.Equal(t, 2, len(groups[2]))
	assert.Equal(t, students(10), flatten(groups))
}

func TestCountTakesPrecedence(t *testing.T) {
	p := New(rand.New(rand.NewSource(1)))
	groups, err := p.Partition(students(6), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, sizes(groups))
}

func TestMoreGroupsThanStudents(t *testing.T) {
	p := New(rand.New(rand.NewSource(1)))
	groups, err := p.Partition(students(2), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 0}, sizes(groups))
}

func TestPartitionErrors(t *testing.T) {
	p := New(rand.New(rand.NewSource(1)))
	_, err := p.Partition(nil, 3, 0)
	assert.True(t, eris.Is(err, ErrEmptyPool))
	_, err = p.Partition(students(3), 0, 0)
	assert.True(t, eris.Is(err, ErrInvalidRequest))
	_, err = p.Partition(students(3), -1, -2)
	assert.True(t, eris.Is(err, ErrInvalidRequest))
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	p := New(rand.New(rand.NewSource(3)))
	in := students(6)
	out := p.Shuffle(in)
	assert.Equal(t, students(6), in)
	assert.ElementsMatch(t, in, out)
}
