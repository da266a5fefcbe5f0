package tui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"github.com/verte-zerg/rollcall/internal/groups"
	"github.com/verte-zerg/rollcall/internal/report"
)

const (
	groupCountField = iota
	groupSizeField
)

func (m *Model) initGroupInputs() {
	m.groupInputs = []textinput.Model{
		newInput("Groups: ", "number of groups", 3),
		newInput("Per group: ", "students per group", 3),
	}
	if m.opts.GroupCount > 0 {
		m.groupInputs[groupCountField].SetValue(strconv.Itoa(m.opts.GroupCount))
	}
	if m.opts.GroupSize > 0 {
		m.groupInputs[groupSizeField].SetValue(strconv.Itoa(m.opts.GroupSize))
	}
	m.groupFocus = -1
}

func (m *Model) focusGroupInput(i int) tea.Cmd {
	m.blurGroupInputs()
	m.groupFocus = i
	return m.groupInputs[i].Focus()
}

func (m *Model) blurGroupInputs() {
	for i := range m.groupInputs {
		m.groupInputs[i].Blur()
	}
	m.groupFocus = -1
}

func (m *Model) updateGroups(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.blurGroupInputs()
		m.makeGroups()
		return nil
	case "up":
		return m.focusGroupInput(groupCountField)
	case "down":
		return m.focusGroupInput(groupSizeField)
	case "esc":
		m.blurGroupInputs()
		return nil
	}
	if m.groupFocus < 0 {
		var cmd tea.Cmd
		m.groupsView, cmd = m.groupsView.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	m.groupInputs[m.groupFocus], cmd = m.groupInputs[m.groupFocus].Update(msg)
	return cmd
}

func (m *Model) makeGroups() {
	count, err := parseGroupField(m.groupInputs[groupCountField].Value())
	if err != nil {
		m.setError("Group count must be a whole number.")
		return
	}
	size, err := parseGroupField(m.groupInputs[groupSizeField].Value())
	if err != nil {
		m.setError("Group size must be a whole number.")
		return
	}
	out, err := m.room.Groups(count, size)
	switch {
	case eris.Is(err, groups.ErrEmptyPool):
		m.setError("No unblocked students to group.")
		return
	case eris.Is(err, groups.ErrInvalidRequest):
		m.setError("Enter a group count or a group size.")
		return
	case err != nil:
		m.setError(err.Error())
		return
	}
	m.groups = out
	m.renderGroupsView()
	m.setStatus(fmt.Sprintf("Made %d groups. Press enter to shuffle again.", len(out)))
}

func parseGroupField(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid number %q", value)
	}
	return n, nil
}

func (m *Model) renderGroupsView() {
	if len(m.groups) == 0 {
		m.groupsView.SetContent(mutedStyle.Render("No groups yet."))
		return
	}
	var buf bytes.Buffer
	if err := report.RenderGroups(&buf, m.groups, true); err != nil {
		m.groupsView.SetContent(errorStyle.Render(err.Error()))
		return
	}
	m.groupsView.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.groupsView.GotoTop()
}

func (m *Model) renderGroups() string {
	lines := []string{
		m.groupInputs[groupCountField].View(),
		m.groupInputs[groupSizeField].View(),
		headerStyle.Render("The group count wins when both are set."),
		"",
		m.groupsView.View(),
	}
	return strings.Join(lines, "\n")
}
