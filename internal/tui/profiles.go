package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateProfiles(msg tea.KeyMsg) tea.Cmd {
	if m.profiles == nil {
		return nil
	}
	names := m.profiles.Names()
	if len(names) == 0 {
		return nil
	}
	if m.profileCursor >= len(names) {
		m.profileCursor = len(names) - 1
	}
	switch msg.String() {
	case "up", "k":
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case "down", "j":
		if m.profileCursor < len(names)-1 {
			m.profileCursor++
		}
	case "enter":
		name := names[m.profileCursor]
		if name == m.room.Profile() {
			m.setStatus(fmt.Sprintf("%s is already loaded.", name))
			return nil
		}
		if m.room.Scorer().Active() {
			m.ask(confirmSwitchProfile, fmt.Sprintf("Switch to %s? The running session will be discarded.", name), name)
			return nil
		}
		m.switchProfile(name)
	case "d":
		name := names[m.profileCursor]
		m.ask(confirmDeleteProfile, fmt.Sprintf("Delete profile %s?", name), name)
	}
	return nil
}

func (m *Model) switchProfile(name string) {
	students, err := m.profiles.Use(context.Background(), name)
	if err != nil {
		m.log.Error().Err(err).Str("profile", name).Msg("failed to switch profile")
		m.setError(fmt.Sprintf("Could not load %s.", name))
		return
	}
	m.stopReveal()
	m.room.SwitchRoster(name, students)
	m.selected = ""
	m.revealShown = ""
	m.groups = nil
	m.renderGroupsView()
	m.refreshStudents()
	m.setStatus(fmt.Sprintf("Loaded %s (%d students).", name, len(students)))
}

func (m *Model) deleteProfile(name string) {
	if err := m.profiles.Delete(context.Background(), name); err != nil {
		m.log.Error().Err(err).Str("profile", name).Msg("failed to delete profile")
		m.setError(fmt.Sprintf("Could not delete %s.", name))
		return
	}
	if m.profileCursor > 0 && m.profileCursor >= len(m.profiles.Names()) {
		m.profileCursor--
	}
	if name == m.room.Profile() {
		m.setStatus(fmt.Sprintf("Deleted %s. Its roster stays loaded until you switch.", name))
		return
	}
	m.setStatus(fmt.Sprintf("Deleted %s.", name))
}

func (m *Model) renderProfiles() string {
	if m.profiles == nil || len(m.profiles.Names()) == 0 {
		return mutedStyle.Render("No profiles. Import one with: rollcall import <name> <file>")
	}
	names := m.profiles.Names()
	lines := make([]string, 0, len(names)+2)
	lines = append(lines, headerStyle.Render("Profiles"), "")
	for i, name := range names {
		students, _ := m.profiles.Get(name)
		marker := "  "
		if i == m.profileCursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s (%d)", marker, name, len(students))
		switch {
		case name == m.room.Profile():
			lines = append(lines, nameStyle.Render(line+" · loaded"))
		case i == m.profileCursor:
			lines = append(lines, recentStyle.Render(line))
		default:
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
