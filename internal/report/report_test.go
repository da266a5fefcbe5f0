package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rollcall/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Points", "Wrong"}
	rows := [][]string{
		{"Ali", "12", "0"},
		{"Fatimzahra", "-3", "4"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Name        Points  Wrong", lines[0])
	assert.Equal(t, "Ali             12      0", lines[1])
	assert.Equal(t, "Fatimzahra      -3      4", lines[2])
}

func TestDisplayWidthWide(t *testing.T) {
	assert.Equal(t, 4, displayWidth("李明"))
	assert.Equal(t, "李明  ", padCell("李明", 6, false))
}

func TestRenderRanking(t *testing.T) {
	ranking := model.Ranking{
		Podium: []model.Standing{
			{Place: 1, Name: "C", Points: 5},
			{Place: 2, Name: "A", Points: 3},
			{Place: 3, Name: "B", Points: 3, Wrong: 1},
		},
		Rest: []model.Standing{{Place: 4, Name: "D", Points: -1, Wrong: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderRanking(&buf, ranking, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Podium", lines[0])
	assert.Equal(t, "#1  C  5 pts · 0 ✗", lines[1])
	assert.Equal(t, "#4  D  -1 pts · 1 ✗", lines[4])
}

func TestRenderGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGroups(&buf, [][]string{{"A", "B"}, {"C"}}, false))
	assert.Equal(t, "Group 1 (2 students)\n  A, B\nGroup 2 (1 student)\n  C\n", buf.String())
}

func TestRenderProfilesMarksLast(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderProfiles(&buf, []string{"IA103", "IA104"}, map[string]int{"IA103": 20, "IA104": 3}, "IA104"))
	out := buf.String()
	assert.Contains(t, out, "*  IA104")
	assert.Contains(t, out, "   IA103")
}

func TestRenderHistory(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := RenderHistory(&buf, []model.SessionRecord{{
		Profile:   "IA103",
		Mode:      model.ModeFair,
		StartedAt: start,
		EndedAt:   start.Add(25 * time.Minute),
		Picks:     1,
		Standings: []model.Standing{
			{Place: 1, Name: "C", Points: 1},
			{Place: 2, Name: "A"},
			{Place: 3, Name: "B"},
			{Place: 4, Name: "D"},
		},
	}}, false)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "IA103  fair mode  1 pick  25m0s")
	assert.Contains(t, out, "#3  B")
	assert.NotContains(t, out, "#4")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, nil, false))
	require.NoError(t, RenderRanking(&buf, model.Ranking{}, false))
	assert.Equal(t, "No sessions found.\nNo students ranked.\n", buf.String())
}
