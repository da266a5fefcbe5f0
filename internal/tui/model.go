// Package tui provides the Bubble Tea classroom interface.
package tui

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/rollcall/internal/classroom"
	"github.com/verte-zerg/rollcall/internal/cue"
	"github.com/verte-zerg/rollcall/internal/model"
	"github.com/verte-zerg/rollcall/internal/timer"
)

// Page identifies a tab.
type Page int

// Tabs in display order.
const (
	PageSelector Page = iota
	PageTimer
	PageGroups
	PageProfiles
)

var pageTitles = []string{"Selector", "Timer", "Groups", "Profiles"}

const (
	revealFrames   = 20
	revealInterval = 80 * time.Millisecond
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FBF6A"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	spinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	recentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 2)
	podiumStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#E8C547")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#CD7F32")).Bold(true),
	}
)

// Profiles is the profile book as seen by the UI.
type Profiles interface {
	Names() []string
	Get(name string) ([]string, bool)
	Use(ctx context.Context, name string) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// SessionSaver persists finished sessions.
type SessionSaver interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// Deps are the collaborators the UI drives.
type Deps struct {
	Room     *classroom.Classroom
	Profiles Profiles
	Sessions SessionSaver
	Bell     *cue.Bell
	Logger   zerolog.Logger
}

type confirmAction int

const (
	confirmReset confirmAction = iota
	confirmDeleteProfile
	confirmSwitchProfile
)

// confirmRequest is a pending yes/no decision; the action runs only after
// the user answers yes.
type confirmRequest struct {
	action confirmAction
	prompt string
	target string
}

type revealTickMsg struct {
	gen int
}

type timerTickMsg struct {
	gen int
}

// Model implements the Bubble Tea classroom UI.
type Model struct {
	room     *classroom.Classroom
	profiles Profiles
	sessions SessionSaver
	bell     *cue.Bell
	log      zerolog.Logger
	opts     model.Options
	rnd      *rand.Rand

	width  int
	height int
	page   Page

	status    string
	statusErr bool
	confirm   *confirmRequest
	podium    *model.Ranking

	studentTable table.Model
	selected     string
	revealing    bool
	revealSeq    []string
	revealFrame  int
	revealShown  string
	revealGen    int

	countdown   timer.Countdown
	timerGen    int
	alarm       bool
	customInput textinput.Model
	customMode  bool

	groupInputs []textinput.Model
	groupFocus  int
	groupsView  viewport.Model
	groups      [][]string

	profileCursor int
}

// New constructs the classroom UI model starting on page.
func New(deps Deps, opts model.Options, page Page) *Model {
	m := &Model{
		room:     deps.Room,
		profiles: deps.Profiles,
		sessions: deps.Sessions,
		bell:     deps.Bell,
		log:      deps.Logger,
		opts:     opts,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		page:     page,
		alarm:    opts.Alarm,
	}
	if m.bell == nil {
		m.bell = cue.NewBell(nil, false)
	}
	m.countdown.SetMinutes(opts.TimerMinutes)
	m.initStudentTable()
	m.initTimerInput()
	m.initGroupInputs()
	m.groupsView = viewport.New(0, 0)
	m.refreshStudents()
	if m.profiles != nil {
		for i, name := range m.profiles.Names() {
			if name == m.room.Profile() {
				m.profileCursor = i
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case revealTickMsg:
		return m, m.advanceReveal(msg)
	case timerTickMsg:
		return m, m.handleTimerTick(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m, m.updateConfirm(msg)
		}
		if m.podium != nil {
			return m, m.updatePodium(msg)
		}
		switch msg.String() {
		case "tab":
			m.movePage(1)
			return m, nil
		case "shift+tab":
			m.movePage(-1)
			return m, nil
		case "q":
			if !m.inputFocused() {
				return m, tea.Quit
			}
		}
		return m, m.updatePage(msg)
	}
	return m, nil
}

func (m *Model) updatePage(msg tea.KeyMsg) tea.Cmd {
	switch m.page {
	case PageTimer:
		return m.updateTimer(msg)
	case PageGroups:
		return m.updateGroups(msg)
	case PageProfiles:
		return m.updateProfiles(msg)
	default:
		return m.updateSelector(msg)
	}
}

func (m *Model) inputFocused() bool {
	switch m.page {
	case PageTimer:
		return m.customMode
	case PageGroups:
		return m.groupFocus >= 0
	}
	return false
}

func (m *Model) movePage(delta int) {
	next := int(m.page) + delta
	if next < 0 {
		next = len(pageTitles) - 1
	}
	if next >= len(pageTitles) {
		next = 0
	}
	m.page = Page(next)
	m.blurGroupInputs()
	m.customMode = false
	m.customInput.Blur()
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *Model) ask(action confirmAction, prompt, target string) {
	m.confirm = &confirmRequest{action: action, prompt: prompt, target: target}
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	req := m.confirm
	switch msg.String() {
	case "y", "Y", "enter":
		m.confirm = nil
		m.runConfirmed(*req)
	case "n", "N", "esc":
		m.confirm = nil
	}
	return nil
}

func (m *Model) runConfirmed(req confirmRequest) {
	switch req.action {
	case confirmReset:
		m.room.Reset()
		m.selected = ""
		m.refreshStudents()
		m.setStatus("Selections reset.")
	case confirmDeleteProfile:
		m.deleteProfile(req.target)
	case confirmSwitchProfile:
		m.switchProfile(req.target)
	}
}

func (m *Model) updatePodium(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "n":
		m.podium = nil
		m.startSession()
	case "esc", "enter", "q":
		m.podium = nil
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirm != nil {
		return m.renderModal(m.confirm.prompt, "y: confirm  n/esc: cancel")
	}
	if m.podium != nil {
		return m.renderModal(renderPodium(*m.podium), "n: new session  enter/esc: close")
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight = 2
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	m.setStudentTableSize(m.width/2, bodyHeight)
	m.groupsView.Width = m.width
	m.groupsView.Height = maxInt(1, bodyHeight-4)
	m.renderGroupsView()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(pageTitles))
	for i, title := range pageTitles {
		if Page(i) == m.page {
			parts = append(parts, activeNavStyle.Render(title))
		} else {
			parts = append(parts, inactiveNavStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody(height int) string {
	switch m.page {
	case PageTimer:
		return m.renderTimer(height)
	case PageGroups:
		return m.renderGroups()
	case PageProfiles:
		return m.renderProfiles()
	default:
		return m.renderSelector()
	}
}

func (m *Model) renderFooter() string {
	var help string
	switch m.page {
	case PageTimer:
		help = "space: start/pause  r: reset  1/3/5/0: preset  c: custom  l: alarm  tab: next page  q: quit"
	case PageGroups:
		help = "up/down: field  enter: generate/shuffle  esc: leave field  tab: next page  q: quit"
	case PageProfiles:
		help = "up/down: move  enter: switch  d: delete  tab: next page  q: quit"
	default:
		help = "space: pick  c/w: correct/wrong  u: undo  r: reset  s/e: start/end session  b: block  m: mode  a: anim  v: sound  q: quit"
	}
	lines := []string{headerStyle.Render(truncateLine(help, m.width))}
	if m.status != "" {
		style := infoStyle
		if m.statusErr {
			style = errorStyle
		}
		lines = append(lines, style.Render(truncateLine(m.status, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderModal(content, help string) string {
	body := content + "\n\n" + headerStyle.Render(help)
	box := modalStyle.Width(modalWidth(m.width)).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
