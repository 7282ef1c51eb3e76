// Package main provides the CLI entrypoint for highlights.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/highlights/internal/config"
	"github.com/verte-zerg/highlights/internal/haptics"
	"github.com/verte-zerg/highlights/internal/model"
	"github.com/verte-zerg/highlights/internal/session"
	"github.com/verte-zerg/highlights/internal/stats"
	"github.com/verte-zerg/highlights/internal/store"
	"github.com/verte-zerg/highlights/internal/tui"
)

const (
	defaultBell     = true
	defaultLogLevel = "info"
)

var (
	runBell     bool
	runLogLevel string
	runLogFile  string

	summarizeElapsed  int
	summarizeComments string
	summarizeFormat   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "highlights",
		Short:         "Talk and comments timer for lightning sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().BoolVar(&runBell, "bell", defaultBell, "ring the terminal bell on alerts")
	rootCmd.Flags().StringVar(&runLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&runLogFile, "log-file", "", "log file (default: discard)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSummarizeCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "bell", &runBell, fileCfg.Alerts.Bell)
	applyStringConfig(cmd, "log-level", &runLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &runLogFile, fileCfg.Log.File)

	cfg := model.Config{
		Bell:     runBell,
		LogLevel: runLogLevel,
		LogFile:  runLogFile,
	}
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		logOut = f
	}
	logger := newLogger(logOut, level)

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return fmt.Errorf("failed to open talk history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("close talk history", "error", cerr)
		}
	}()

	clock := tui.NewClock()
	flash := tui.NewFlash()
	face := tui.NewFace()
	alerters := haptics.Multi{flash, haptics.NewLog(logger)}
	if cfg.Bell {
		alerters = append(alerters, haptics.NewBell(os.Stderr))
	}
	sess := session.New(clock, alerters,
		session.WithLogger(logger),
		session.WithDisplayObserver(face.Observe),
	)

	logger.Info("timer started", "bell", cfg.Bell)
	program := tea.NewProgram(tui.NewModel(sess, clock, flash, face, st, logger), tea.WithAltScreen())
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Compute a talk summary from recorded comment times",
		Args:  cobra.NoArgs,
		RunE:  runSummarizeCmd,
	}
	cmd.Flags().IntVar(&summarizeElapsed, "elapsed", 0, "total elapsed seconds")
	cmd.Flags().StringVar(&summarizeComments, "comments", "", "comma-separated elapsed seconds of each comment")
	cmd.Flags().StringVar(&summarizeFormat, "format", "text", "output format (text, yaml)")
	return cmd
}

func runSummarizeCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
	comments, err := parseComments(summarizeComments)
	if err != nil {
		return err
	}
	if err := validateTimes(summarizeElapsed, comments); err != nil {
		return err
	}

	report, stored := summarize(summarizeElapsed, comments)
	if report.Dropped > 0 {
		logger.Warn("comment list exceeds the log capacity",
			"count", len(comments), "capacity", session.CommentCapacity, "dropped", report.Dropped)
	}
	return writeReport(cmd.OutOrStdout(), report, stored, summarizeFormat, isTerminal(cmd.OutOrStdout()))
}

// summarize keeps comments the way a live session does: the first
// CommentCapacity are timed, the rest only counted.
func summarize(elapsed int, comments []int) (model.SummaryReport, []int) {
	clog := session.NewCommentLog(session.CommentCapacity)
	for _, c := range comments {
		clog.Push(c)
	}
	stored := clog.Values()
	report := stats.ComputeSummary(elapsed, stored, session.CommentOverheadSeconds)
	report.Dropped = clog.Dropped()
	return report, stored
}

func writeReport(w io.Writer, report model.SummaryReport, comments []int, format string, tty bool) error {
	switch format {
	case "yaml":
		return stats.WriteYAML(w, report)
	case "text", "":
		if err := stats.RenderSummary(w, report); err != nil {
			return err
		}
		if !tty {
			return nil
		}
		if spark := stats.GapSparkline(report.TotalElapsed, comments); spark != "" {
			if _, err := fmt.Fprintf(w, "Gaps     [%s]\n", spark); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("--format must be text or yaml")
	}
}

func parseComments(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid --comments value %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func validateTimes(elapsed int, comments []int) error {
	if elapsed < 0 {
		return fmt.Errorf("--elapsed must be >= 0")
	}
	prev := 0
	for _, c := range comments {
		if c < prev {
			return fmt.Errorf("--comments must be non-decreasing and >= 0")
		}
		if c > elapsed {
			return fmt.Errorf("--comments must not exceed --elapsed")
		}
		prev = c
	}
	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("--log-level must be debug, info, warn or error")
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
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
	return fmt.Sprintf(`# highlights configuration
# Uncomment a value to enable it. CLI flags override config values.

[alerts]
# bell = %t               # Ring the terminal bell on alerts

[log]
# level = %q          # debug, info, warn or error
# file = %q
`,
		defaultBell,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}
