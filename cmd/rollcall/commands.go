package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/rollcall/internal/profile"
	"github.com/verte-zerg/rollcall/internal/report"
	"github.com/verte-zerg/rollcall/internal/roster"
	"github.com/verte-zerg/rollcall/internal/tui"
)

var (
	pickCount    int
	deleteYes    bool
	historyLast  int
	historyAll   bool
	errNoProfile = errors.New("no profiles yet; import one with: rollcall import <name> <file>")
)

func newPickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick students from the current profile",
		Args:  cobra.NoArgs,
		RunE:  runPickCmd,
	}
	cmd.Flags().IntVarP(&pickCount, "count", "n", 1, "number of picks")
	return cmd
}

func runPickCmd(cmd *cobra.Command, _ []string) error {
	if pickCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	name, students, err := e.resolveProfile(cmd.Context())
	if err != nil {
		return err
	}
	if name == "" {
		return errNoProfile
	}
	room := e.classroom(name, students)
	picks := make([]string, 0, pickCount)
	for i := 0; i < pickCount; i++ {
		p, err := room.Pick()
		if eris.Is(err, roster.ErrEmptyPool) {
			e.log.Warn().Int("picked", len(picks)).Msg("ran out of students")
			break
		}
		if err != nil {
			return fmt.Errorf("failed to pick: %w", err)
		}
		picks = append(picks, p.Name)
	}
	if len(picks) == 0 {
		return fmt.Errorf("no students available in %s", name)
	}
	return report.RenderPicks(cmd.OutOrStdout(), picks)
}

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Split the current profile into random groups",
		Args:  cobra.NoArgs,
		RunE:  runGroupsCmd,
	}
	cmd.Flags().IntVarP(&flagGroupCount, "groups", "g", 0, "number of groups (wins over --size)")
	cmd.Flags().IntVarP(&flagGroupSize, "size", "s", 0, "students per group")
	return cmd
}

func runGroupsCmd(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	name, students, err := e.resolveProfile(cmd.Context())
	if err != nil {
		return err
	}
	if name == "" {
		return errNoProfile
	}
	out, err := e.classroom(name, students).Groups(e.opts.GroupCount, e.opts.GroupSize)
	if err != nil {
		return err
	}
	return report.RenderGroups(cmd.OutOrStdout(), out, report.UseColor(os.Stdout))
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> <file|->",
		Short: "Create or replace a profile from a JSON or plain-text roster",
		Args:  cobra.ExactArgs(2),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	text, err := profile.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read roster: %w", err)
	}
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	students, err := e.book.Import(cmd.Context(), args[0], text)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d students into %s.\n", len(students), strings.TrimSpace(args[0]))
	return err
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesCmd,
	}
}

func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	names := e.book.Names()
	sizes := make(map[string]int, len(names))
	for _, name := range names {
		students, _ := e.book.Get(name)
		sizes[name] = len(students)
	}
	last, _ := e.book.Last()
	return report.RenderProfiles(cmd.OutOrStdout(), names, sizes, last)
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the default",
		Args:  cobra.ExactArgs(1),
		RunE:  runUseCmd,
	}
}

func runUseCmd(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	students, err := e.book.Use(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to switch profile: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Using %s (%d students).\n", args[0], len(students))
	return err
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
	cmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	name := args[0]
	if _, ok := e.book.Get(name); !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	if !deleteYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete profile %s?", name))
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return err
		}
	}
	if err := e.book.Delete(cmd.Context(), name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", name)
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past session podiums",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 10, "limit to last N sessions (0 for all)")
	cmd.Flags().BoolVar(&historyAll, "all-profiles", false, "include every profile")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	name := strings.TrimSpace(flagProfile)
	if name == "" && !historyAll {
		name, _ = e.book.Last()
	}
	records, err := e.store.ListSessions(cmd.Context(), name, historyLast)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), records, report.UseColor(os.Stdout))
}

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer [minutes]",
		Short: "Open the countdown timer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTimerCmd,
	}
	addUIFlags(cmd)
	return cmd
}

func runTimerCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid minutes %q", args[0])
		}
		if err := cmd.Flags().Set("minutes", strconv.Itoa(minutes)); err != nil {
			return fmt.Errorf("failed to set minutes: %w", err)
		}
	}
	return runTUI(cmd, tui.PageTimer)
}
