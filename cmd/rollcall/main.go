// Package main provides the CLI entrypoint for rollcall.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/rollcall/internal/classroom"
	"github.com/verte-zerg/rollcall/internal/config"
	"github.com/verte-zerg/rollcall/internal/cue"
	"github.com/verte-zerg/rollcall/internal/logging"
	"github.com/verte-zerg/rollcall/internal/model"
	"github.com/verte-zerg/rollcall/internal/profile"
	"github.com/verte-zerg/rollcall/internal/roster"
	"github.com/verte-zerg/rollcall/internal/store"
	"github.com/verte-zerg/rollcall/internal/tui"
)

const (
	defaultMode          = "normal"
	defaultRecentWindow  = roster.DefaultRecentWindow
	defaultWeightCeiling = roster.DefaultWeightCeiling
	defaultTimerMinutes  = 5
	defaultLogLevel      = "info"
)

var (
	flagProfile       string
	flagDBPath        string
	flagMode          string
	flagRecentWindow  int
	flagWeightCeiling int
	flagFloorPoints   bool
	flagLogLevel      string

	flagAnimation   bool
	flagSound       bool
	flagAutoSession bool
	flagMinutes     int
	flagAlarm       bool
	flagGroupCount  int
	flagGroupSize   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rollcall",
		Short:         "Classroom student picker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, tui.PageSelector)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProfile, "profile", "", "roster profile (default: last used)")
	pf.StringVar(&flagDBPath, "db", "", "database path (default: XDG data dir)")
	pf.StringVar(&flagMode, "mode", defaultMode, "selection mode: normal, elimination, fair or weighted")
	pf.IntVar(&flagRecentWindow, "recent-window", defaultRecentWindow, "recent picks avoided in normal mode")
	pf.IntVar(&flagWeightCeiling, "weight-ceiling", defaultWeightCeiling, "weight of a never-picked student in weighted mode")
	pf.BoolVar(&flagFloorPoints, "floor-points", false, "never let wrong answers push points below zero")
	pf.StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level: trace, debug, info, warn, error or disabled")

	addUIFlags(rootCmd)

	rootCmd.AddCommand(newPickCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newUseCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTimerCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addUIFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagAnimation, "animation", true, "animate the reveal")
	cmd.Flags().BoolVar(&flagSound, "sound", true, "ring the terminal bell on picks")
	cmd.Flags().BoolVar(&flagAutoSession, "auto-session", true, "start a scored session on the first pick")
	cmd.Flags().IntVar(&flagMinutes, "minutes", defaultTimerMinutes, "timer duration in minutes")
	cmd.Flags().BoolVar(&flagAlarm, "alarm", true, "ring when the timer runs out")
}

// loadOptions merges the config file under the flags. Flags set on the
// command line win.
func loadOptions(cmd *cobra.Command) (model.Options, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Options{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &flagMode, fileCfg.Selector.Mode)
	applyBoolConfig(cmd, "animation", &flagAnimation, fileCfg.Selector.Animation)
	applyBoolConfig(cmd, "sound", &flagSound, fileCfg.Selector.Sound)
	applyBoolConfig(cmd, "auto-session", &flagAutoSession, fileCfg.Selector.AutoSession)
	applyIntConfig(cmd, "recent-window", &flagRecentWindow, fileCfg.Selector.RecentWindow)
	applyIntConfig(cmd, "weight-ceiling", &flagWeightCeiling, fileCfg.Selector.WeightCeiling)
	applyBoolConfig(cmd, "floor-points", &flagFloorPoints, fileCfg.Selector.FloorPoints)
	applyIntConfig(cmd, "minutes", &flagMinutes, fileCfg.Timer.Minutes)
	applyBoolConfig(cmd, "alarm", &flagAlarm, fileCfg.Timer.Alarm)
	applyIntConfig(cmd, "groups", &flagGroupCount, fileCfg.Groups.Count)
	applyIntConfig(cmd, "size", &flagGroupSize, fileCfg.Groups.Size)
	applyStringConfig(cmd, "log-level", &flagLogLevel, fileCfg.Log.Level)

	opts := model.Options{
		Mode:          strings.ToLower(strings.TrimSpace(flagMode)),
		Animation:     flagAnimation,
		Sound:         flagSound,
		AutoSession:   flagAutoSession,
		RecentWindow:  flagRecentWindow,
		WeightCeiling: flagWeightCeiling,
		FloorPoints:   flagFloorPoints,
		TimerMinutes:  flagMinutes,
		Alarm:         flagAlarm,
		GroupCount:    flagGroupCount,
		GroupSize:     flagGroupSize,
		LogLevel:      strings.ToLower(strings.TrimSpace(flagLogLevel)),
	}
	if err := config.NewValidator().Options(opts); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

// env holds what every command needs once options are merged.
type env struct {
	opts  model.Options
	log   zerolog.Logger
	store *store.Store
	book  *profile.Book
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Error().Err(err).Msg("failed to close db")
	}
}

func openEnv(ctx context.Context, opts model.Options, log zerolog.Logger) (*env, error) {
	path := flagDBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	book, err := profile.Load(ctx, st, log)
	if err != nil {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &env{opts: opts, log: log, store: st, book: book}, nil
}

// cliEnv opens the environment with a console logger on stderr.
func cliEnv(cmd *cobra.Command) (*env, error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	log := logging.New(cmd.ErrOrStderr(), opts.LogLevel)
	return openEnv(cmd.Context(), opts, log)
}

// resolveProfile picks --profile, then the last used profile. An empty name
// means no profile exists yet.
func (e *env) resolveProfile(ctx context.Context) (string, []string, error) {
	name := strings.TrimSpace(flagProfile)
	if name == "" {
		last, ok := e.book.Last()
		if !ok {
			names := e.book.Names()
			if len(names) == 0 {
				return "", nil, nil
			}
			last = names[0]
		}
		name = last
	}
	students, err := e.book.Use(ctx, name)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return name, students, nil
}

func (e *env) classroom(name string, students []string) *classroom.Classroom {
	mode, _ := model.ParseMode(e.opts.Mode)
	return classroom.New(name, students, classroom.Options{
		Mode:          mode,
		AutoSession:   e.opts.AutoSession,
		RecentWindow:  e.opts.RecentWindow,
		WeightCeiling: e.opts.WeightCeiling,
		FloorPoints:   e.opts.FloorPoints,
		Logger:        e.log,
	})
}

func runTUI(cmd *cobra.Command, page tui.Page) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	log, logCloser, err := logging.NewFile(config.DefaultLogPath(), opts.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	e, err := openEnv(ctx, opts, log)
	if err != nil {
		return err
	}
	defer e.close()

	name, students, err := e.resolveProfile(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		log.Info().Msg("starting without a profile")
	}

	m := tui.New(tui.Deps{
		Room:     e.classroom(name, students),
		Profiles: e.book,
		Sessions: e.store,
		Bell:     cue.NewBell(os.Stderr, opts.Sound),
		Logger:   log,
	}, opts, page)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rollcall configuration
# Uncomment a value to enable it. CLI flags override config values.

[selector]
# mode = %q           # normal, elimination, fair or weighted
# animation = true         # Animate the reveal
# sound = true             # Ring the terminal bell on picks
# auto-session = true      # Start a scored session on the first pick
# recent-window = %d        # Recent picks avoided in normal mode
# weight-ceiling = %d      # Weight of a never-picked student in weighted mode
# floor-points = false     # Keep points at zero or above

[timer]
# minutes = %d              # Default countdown
# alarm = true             # Ring when the timer runs out

[groups]
# count = 0                # Number of groups (wins over size)
# size = 0                 # Students per group

[log]
# level = %q           # trace, debug, info, warn, error or disabled
`,
		defaultMode,
		defaultRecentWindow,
		defaultWeightCeiling,
		defaultTimerMinutes,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
