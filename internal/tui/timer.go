package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rollcall/internal/cue"
	"github.com/verte-zerg/rollcall/internal/timer"
)

const maxCustomMinutes = 600

var clockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4).
	Border(lipgloss.DoubleBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))

func (m *Model) initTimerInput() {
	m.customInput = newInput("Minutes: ", "15", 3)
}

func timerTick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

func (m *Model) updateTimer(msg tea.KeyMsg) tea.Cmd {
	if m.customMode {
		return m.updateCustomMinutes(msg)
	}
	if msg.Type == tea.KeySpace {
		return m.toggleTimer()
	}
	switch msg.String() {
	case "r":
		m.countdown.Reset()
		m.timerGen++
		m.setStatus("Timer reset.")
	case "1", "3", "5":
		minutes, _ := strconv.Atoi(msg.String())
		m.setTimer(minutes)
	case "0":
		m.setTimer(timer.Presets[len(timer.Presets)-1])
	case "c":
		m.customMode = true
		m.customInput.SetValue("")
		return m.customInput.Focus()
	case "l":
		m.alarm = !m.alarm
		m.setStatus(fmt.Sprintf("Alarm %s.", onOff(m.alarm)))
	}
	return nil
}

func (m *Model) updateCustomMinutes(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.customMode = false
		m.customInput.Blur()
		return nil
	case "enter":
		value := strings.TrimSpace(m.customInput.Value())
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 || minutes > maxCustomMinutes {
			m.setError(fmt.Sprintf("Enter between 1 and %d minutes.", maxCustomMinutes))
			return nil
		}
		m.customMode = false
		m.customInput.Blur()
		m.setTimer(minutes)
		return nil
	}
	var cmd tea.Cmd
	m.customInput, cmd = m.customInput.Update(msg)
	return cmd
}

func (m *Model) setTimer(minutes int) {
	m.countdown.SetMinutes(minutes)
	m.timerGen++
	m.setStatus(fmt.Sprintf("Timer set to %d min.", minutes))
}

func (m *Model) toggleTimer() tea.Cmd {
	if m.countdown.Running() {
		m.countdown.Pause()
		m.timerGen++
		m.setStatus("Timer paused.")
		return nil
	}
	if !m.countdown.Start() {
		m.setError("Pick a duration first.")
		return nil
	}
	m.timerGen++
	m.status = ""
	return timerTick(m.timerGen)
}

func (m *Model) handleTimerTick(msg timerTickMsg) tea.Cmd {
	if msg.gen != m.timerGen || !m.countdown.Running() {
		return nil
	}
	if m.countdown.Tick() {
		if m.alarm {
			m.bell.Play(cue.Alarm)
		}
		m.setStatus("Time is up!")
		return nil
	}
	return timerTick(m.timerGen)
}

func (m *Model) renderTimer(height int) string {
	state := "paused"
	if m.countdown.Running() {
		state = "running"
	} else if m.countdown.Remaining() == 0 {
		state = "done"
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = maxInt(10, minInt(m.width-4, 60))

	presets := make([]string, 0, len(timer.Presets))
	for _, p := range timer.Presets {
		presets = append(presets, fmt.Sprintf("%d min", p))
	}
	lines := []string{
		clockStyle.Render(m.countdown.Display()),
		"",
		bar.ViewAs(m.countdown.Progress()),
		"",
		mutedStyle.Render(fmt.Sprintf("%s · alarm %s", state, onOff(m.alarm))),
		headerStyle.Render("Presets: " + strings.Join(presets, ", ")),
	}
	if m.customMode {
		lines = append(lines, "", m.customInput.View())
	}
	content := strings.Join(lines, "\n")
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}
