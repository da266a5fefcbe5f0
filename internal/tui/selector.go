package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"

	"github.com/verte-zerg/rollcall/internal/cue"
	"github.com/verte-zerg/rollcall/internal/model"
	"github.com/verte-zerg/rollcall/internal/report"
	"github.com/verte-zerg/rollcall/internal/roster"
	"github.com/verte-zerg/rollcall/internal/scoring"
)

const recentStrip = 5

func (m *Model) initStudentTable() {
	m.studentTable = table.New(
		table.WithColumns(studentColumns(40)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.studentTable.SetStyles(studentTableStyles())
}

func studentColumns(width int) []table.Column {
	nameWidth := maxInt(10, width-34)
	return []table.Column{
		{Title: "Student", Width: nameWidth},
		{Title: "Picks", Width: 5},
		{Title: "Score", Width: 16},
		{Title: "Status", Width: 9},
	}
}

func studentTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) setStudentTableSize(width, height int) {
	width = maxInt(30, width)
	m.studentTable.SetColumns(studentColumns(width))
	m.studentTable.SetWidth(width)
	// Header and its border take two lines.
	m.studentTable.SetHeight(maxInt(1, height-2))
}

// refreshStudents rebuilds the rows in standing order.
func (m *Model) refreshStudents() {
	state := m.room.Roster()
	scorer := m.room.Scorer()
	standings := m.room.Standings()
	rows := make([]table.Row, 0, len(standings))
	for _, st := range standings {
		score := "-"
		if scorer.Active() {
			score = report.ScoreLine(st.Points, st.Wrong)
		}
		status := ""
		switch {
		case state.IsBlocked(st.Name):
			status = "blocked"
		case state.IsEliminated(st.Name):
			status = "out"
		case st.Name == m.selected:
			status = "picked"
		}
		rows = append(rows, table.Row{st.Name, fmt.Sprintf("%d", state.Count(st.Name)), score, status})
	}
	m.studentTable.SetRows(rows)
	if cursor := m.studentTable.Cursor(); cursor >= len(rows) {
		m.studentTable.SetCursor(maxInt(0, len(rows)-1))
	}
}

func (m *Model) highlighted() (string, bool) {
	row := m.studentTable.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

func (m *Model) updateSelector(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeySpace || msg.String() == "enter" {
		return m.pick()
	}
	switch msg.String() {
	case "c":
		m.mark(true)
	case "w":
		m.mark(false)
	case "u":
		m.undo()
	case "r":
		if !m.revealing {
			m.ask(confirmReset, "Reset all selections? Blocked students stay blocked.", "")
		}
	case "s":
		if m.room.Scorer().Active() {
			m.setStatus("A session is already running.")
			return nil
		}
		m.startSession()
	case "e":
		m.endSession()
	case "m":
		m.room.SetMode(m.room.Mode().Next())
		m.refreshStudents()
		m.setStatus(fmt.Sprintf("Mode: %s", m.room.Mode()))
	case "b":
		name, ok := m.highlighted()
		if !ok {
			return nil
		}
		if m.room.ToggleBlock(name) {
			m.setStatus(fmt.Sprintf("%s is blocked.", name))
		} else {
			m.setStatus(fmt.Sprintf("%s is unblocked.", name))
		}
		m.refreshStudents()
	case "a":
		m.opts.Animation = !m.opts.Animation
		m.setStatus(fmt.Sprintf("Animation %s.", onOff(m.opts.Animation)))
	case "v":
		m.bell.SetEnabled(!m.bell.Enabled())
		m.setStatus(fmt.Sprintf("Sound %s.", onOff(m.bell.Enabled())))
	default:
		var cmd tea.Cmd
		m.studentTable, cmd = m.studentTable.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) pick() tea.Cmd {
	if m.revealing {
		return nil
	}
	p, err := m.room.Pick()
	if err != nil {
		if eris.Is(err, roster.ErrEmptyPool) {
			m.setError("No students available. Reset or unblock someone.")
			return nil
		}
		m.setError(err.Error())
		return nil
	}
	m.selected = p.Name
	m.status = ""
	if !m.opts.Animation || len(p.Reveal) == 0 {
		m.revealShown = p.Name
		m.refreshStudents()
		m.bell.Play(cue.Win)
		return nil
	}
	m.revealing = true
	m.revealSeq = p.Reveal
	m.revealFrame = 0
	m.revealGen++
	m.revealShown = p.Reveal[m.rnd.Intn(len(p.Reveal))]
	return revealTick(m.revealGen)
}

func revealTick(gen int) tea.Cmd {
	return tea.Tick(revealInterval, func(_ time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func (m *Model) advanceReveal(msg revealTickMsg) tea.Cmd {
	if !m.revealing || msg.gen != m.revealGen {
		return nil
	}
	m.revealFrame++
	if m.revealFrame >= revealFrames {
		m.revealing = false
		m.revealShown = m.selected
		m.refreshStudents()
		m.bell.Play(cue.Win)
		return nil
	}
	m.revealShown = m.revealSeq[m.rnd.Intn(len(m.revealSeq))]
	m.bell.Play(cue.Tick)
	return revealTick(m.revealGen)
}

// stopReveal cancels an animation in flight. Pending ticks become stale.
func (m *Model) stopReveal() {
	if m.revealing {
		m.revealing = false
		m.revealGen++
	}
}

func (m *Model) mark(correct bool) {
	if m.revealing {
		return
	}
	var (
		name string
		err  error
	)
	if correct {
		name, err = m.room.MarkCorrect()
	} else {
		name, err = m.room.MarkWrong()
	}
	switch {
	case eris.Is(err, scoring.ErrNoSession):
		m.setError("Start a session to score answers.")
		return
	case eris.Is(err, scoring.ErrNothingToMark):
		m.setError("Pick a student first.")
		return
	case err != nil:
		m.setError(err.Error())
		return
	}
	score := m.room.Scorer().Score(name)
	verdict := "correct"
	if !correct {
		verdict = "wrong"
	}
	m.setStatus(fmt.Sprintf("%s: %s (%s)", name, verdict, report.ScoreLine(score.Points, score.Wrong)))
	m.refreshStudents()
}

func (m *Model) undo() {
	m.stopReveal()
	name, err := m.room.Undo()
	if err != nil {
		m.setError("Nothing to undo.")
		return
	}
	if m.selected == name {
		m.selected = ""
		m.revealShown = ""
	}
	m.refreshStudents()
	m.setStatus(fmt.Sprintf("Undid %s.", name))
}

func (m *Model) startSession() {
	m.stopReveal()
	m.room.StartSession()
	m.selected = ""
	m.revealShown = ""
	m.refreshStudents()
	m.setStatus("Session started.")
}

func (m *Model) endSession() {
	if m.revealing {
		return
	}
	ranking, rec, err := m.room.EndSession()
	if err != nil {
		m.setError("No session is running.")
		return
	}
	m.podium = &ranking
	m.selected = ""
	m.refreshStudents()
	if m.sessions == nil {
		return
	}
	if _, err := m.sessions.InsertSession(context.Background(), rec); err != nil {
		m.log.Error().Err(err).Str("profile", rec.Profile).Msg("failed to save session")
		m.setError("Session ended but could not be saved.")
		return
	}
	m.setStatus("Session saved.")
}

func (m *Model) renderSelector() string {
	left := m.studentTable.View()
	rightWidth := maxInt(20, m.width-lipgloss.Width(left)-2)
	right := m.renderSelectorCard(rightWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m *Model) renderSelectorCard(width int) string {
	state := m.room.Roster()
	scorer := m.room.Scorer()

	lines := []string{
		headerStyle.Render(fmt.Sprintf("%s · %s mode", m.room.Profile(), m.room.Mode())),
		"",
	}
	switch {
	case m.revealing:
		lines = append(lines, spinStyle.Render(truncateLine(m.revealShown, width-4)))
	case m.revealShown != "":
		lines = append(lines, nameStyle.Render(truncateLine(m.revealShown, width-4)))
	default:
		lines = append(lines, mutedStyle.Render("Press space to pick"))
	}
	lines = append(lines, "")

	if scorer.Active() {
		pending := "waiting for a pick"
		if cur, ok := scorer.Current(); ok {
			pending = "judging " + cur
		}
		lines = append(lines, infoStyle.Render("Session running"), mutedStyle.Render(pending))
	} else {
		lines = append(lines, mutedStyle.Render("No session"))
	}
	lines = append(lines, "")

	recent := state.Recent(recentStrip)
	if len(recent) > 0 {
		parts := make([]string, 0, len(recent))
		for i, name := range recent {
			if i == 0 {
				parts = append(parts, recentStyle.Render(name))
			} else {
				parts = append(parts, mutedStyle.Render(name))
			}
		}
		lines = append(lines, "Recent: "+strings.Join(parts, mutedStyle.Render(" · ")))
	}
	lines = append(lines,
		fmt.Sprintf("Picks: %d", state.Total()),
		fmt.Sprintf("Available: %d of %d", len(m.room.Available()), state.Len()),
	)
	if n := len(state.Eliminated()); n > 0 {
		lines = append(lines, fmt.Sprintf("Eliminated: %d", n))
	}
	if n := len(state.Blocked()); n > 0 {
		lines = append(lines, fmt.Sprintf("Blocked: %d", n))
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("animation %s · sound %s", onOff(m.opts.Animation), onOff(m.bell.Enabled()))))
	return cardStyle.Width(maxInt(10, width-4)).Render(strings.Join(lines, "\n"))
}

func renderPodium(ranking model.Ranking) string {
	if len(ranking.Podium) == 0 {
		return "Nobody was ranked."
	}
	lines := []string{headerStyle.Render("Session results"), ""}
	for i, st := range ranking.Podium {
		line := fmt.Sprintf("#%d %s  %s", st.Place, st.Name, report.ScoreLine(st.Points, st.Wrong))
		lines = append(lines, podiumStyles[i%len(podiumStyles)].Render(line))
	}
	if len(ranking.Rest) > 0 {
		lines = append(lines, "")
		for _, st := range ranking.Rest {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("#%d %s  %s", st.Place, st.Name, report.ScoreLine(st.Points, st.Wrong))))
		}
	}
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
