// Package groups partitions students into random groups.
package groups

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrEmptyPool is returned when there is nobody to partition.
	ErrEmptyPool = eris.New("no student available")
	// ErrInvalidRequest is returned when neither a group count nor a group size is given.
	ErrInvalidRequest = eris.New("enter a number of groups or students per group")
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Partitioner shuffles and splits students using its own random source.
type Partitioner struct {
	rnd Source
}

// New returns a Partitioner drawing from rnd.
func New(rnd Source) *Partitioner {
	return &Partitioner{rnd: rnd}
}

// Partition splits available into numGroups groups dealt round-robin, or,
// when numGroups is not positive, into consecutive chunks of perGroup.
func (p *Partitioner) Partition(available []string, numGroups, perGroup int) ([][]string, error) {
	if len(available) == 0 {
		return nil, ErrEmptyPool
	}
	if numGroups <= 0 && perGroup <= 0 {
		return nil, ErrInvalidRequest
	}

	shuffled := p.Shuffle(available)
	if numGroups > 0 {
		groups := make([][]string, numGroups)
		for i := range groups {
			groups[i] = []string{}
		}
		for i, name := range shuffled {
			groups[i%numGroups] = append(groups[i%numGroups], name)
		}
		return groups, nil
	}

	groups := make([][]string, 0, (len(shuffled)+perGroup-1)/perGroup)
	for i := 0; i < len(shuffled); i += perGroup {
		end := i + perGroup
		if end > len(shuffled) {
			end = len(shuffled)
		}
		groups = append(groups, shuffled[i:end:end])
	}
	return groups, nil
}

// Shuffle returns a Fisher-Yates permutation of names.
func (p *Partitioner) Shuffle(names []string) []string {
	out := append([]string(nil), names...)
	for i := len(out) - 1; i > 0; i-- {
		j := int(p.rnd.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}
