package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/rollcall/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	podiumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// UseColor reports whether f is a terminal worth styling.
func UseColor(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func style(s lipgloss.Style, text string, useColor bool) string {
	if !useColor {
		return text
	}
	return s.Render(text)
}

// ScoreLine formats a tally the way the selector shows it.
func ScoreLine(points, wrong int) string {
	return fmt.Sprintf("%d pts · %d ✗", points, wrong)
}

// RenderRanking prints the podium followed by the remaining standings.
func RenderRanking(w io.Writer, ranking model.Ranking, useColor bool) error {
	if len(ranking.Podium) == 0 {
		_, err := fmt.Fprintln(w, "No students ranked.")
		return err
	}
	if _, err := fmt.Fprintln(w, style(titleStyle, "Podium", useColor)); err != nil {
		return err
	}
	for _, line := range standingLines(ranking.Podium) {
		if _, err := fmt.Fprintln(w, style(podiumStyle, line, useColor)); err != nil {
			return err
		}
	}
	if len(ranking.Rest) == 0 {
		return nil
	}
	for _, line := range standingLines(ranking.Rest) {
		if _, err := fmt.Fprintln(w, style(mutedStyle, line, useColor)); err != nil {
			return err
		}
	}
	return nil
}

func standingLines(standings []model.Standing) []string {
	rows := make([][]string, 0, len(standings))
	for _, st := range standings {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", st.Place),
			st.Name,
			ScoreLine(st.Points, st.Wrong),
		})
	}
	return formatTable(nil, rows, map[int]bool{0: true, 2: true})
}

// RenderGroups prints each group with its members.
func RenderGroups(w io.Writer, groups [][]string, useColor bool) error {
	for i, group := range groups {
		header := fmt.Sprintf("Group %d (%s)", i+1, plural(len(group), "student"))
		if _, err := fmt.Fprintln(w, style(titleStyle, header, useColor)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(group, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderPicks prints numbered picks.
func RenderPicks(w io.Writer, picks []string) error {
	rows := make([][]string, 0, len(picks))
	for i, name := range picks {
		rows = append(rows, []string{fmt.Sprintf("%d.", i+1), name})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderProfiles lists profiles with their sizes, marking the last used one.
func RenderProfiles(w io.Writer, names []string, sizes map[string]int, last string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No profiles. Import one with: rollcall import <name> <file>")
		return err
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		marker := ""
		if name == last {
			marker = "*"
		}
		rows = append(rows, []string{marker, name, fmt.Sprintf("%d", sizes[name])})
	}
	for _, line := range formatTable([]string{"", "Profile", "Students"}, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints past sessions newest first.
func RenderHistory(w io.Writer, records []model.SessionRecord, useColor bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
		header := fmt.Sprintf("%s  %s  %s mode  %s  %s",
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			rec.Profile,
			rec.Mode,
			plural(rec.Picks, "pick"),
			rec.EndedAt.Sub(rec.StartedAt).Round(time.Second),
		)
		if _, err := fmt.Fprintln(w, style(titleStyle, header, useColor)); err != nil {
			return err
		}
		podium := rec.Standings
		if len(podium) > 3 {
			podium = podium[:3]
		}
		for _, line := range standingLines(podium) {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
