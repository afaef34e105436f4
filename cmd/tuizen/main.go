// Package main provides the CLI entrypoint for tuizen.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/tuizen/internal/config"
	"github.com/verte-zerg/tuizen/internal/logging"
	"github.com/verte-zerg/tuizen/internal/meditation"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/stats"
	"github.com/verte-zerg/tuizen/internal/statsui"
	"github.com/verte-zerg/tuizen/internal/store"
	"github.com/verte-zerg/tuizen/internal/telemetry"
	"github.com/verte-zerg/tuizen/internal/tone"
	"github.com/verte-zerg/tuizen/internal/tui"
)

const (
	defaultDifficulty = "normal"
	defaultTheme      = "sand"
	defaultAPITimeout = 3 * time.Second
	defaultLogLevel   = "info"
)

var (
	rootDifficulty string
	rootTheme      string
	rootSound      bool
	rootNarration  bool
	rootSpeechCmd  string
	rootAPI        string
	rootAPITimeout string
	rootUser       string
	rootLogLevel   string

	historySince    string
	historyActivity string
	historyDays     int
	historyPlain    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuizen",
		Short:         "Guided breathing, meditation and calm mini-games in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}
	addSharedFlags(rootCmd)
	rootCmd.Flags().StringVar(&rootDifficulty, "difficulty", defaultDifficulty, "mini-game difficulty (easy, normal, hard)")
	rootCmd.Flags().StringVar(&rootTheme, "theme", defaultTheme, "color theme ("+strings.Join(model.Themes, ", ")+")")
	rootCmd.Flags().BoolVar(&rootSound, "sound", true, "play chimes")
	rootCmd.Flags().BoolVar(&rootNarration, "narration", false, "speak meditation prompts")
	rootCmd.Flags().StringVar(&rootSpeechCmd, "speech-command", "", "text-to-speech command (default: say or espeak-ng)")
	rootCmd.Flags().StringVar(&rootLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newGardensCmd())
	rootCmd.AddCommand(newDeviceCmd())

	return rootCmd
}

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rootAPI, "api", "", "games API root, e.g. http://127.0.0.1:5001/api (empty: offline)")
	cmd.Flags().StringVar(&rootAPITimeout, "api-timeout", defaultAPITimeout.String(), "games API request timeout")
	cmd.Flags().StringVar(&rootUser, "user", "", "user id reported to the games API (default: device id)")
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg, logLevel, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tuizen needs an interactive terminal (try: tuizen history)")
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger, err := logging.NewOrNop(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if cfg.UserID == "" {
		id, err := st.DeviceID(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load device id: %w", err)
		}
		cfg.UserID = id
	}

	client := telemetry.New(telemetry.Options{
		Endpoint: cfg.APIEndpoint,
		Timeout:  cfg.APITimeout,
		Logger:   logger.Named("telemetry"),
	})
	defer client.Close()

	speechCmd := cfg.SpeechCmd
	if speechCmd == "" {
		speechCmd = meditation.DefaultSpeechCommand()
	}
	shell := tui.NewShell(tui.Options{
		Config:    cfg,
		Store:     st,
		Telemetry: client,
		Sound:     tone.NewSynth(tone.OpenOto, logger.Named("tone")),
		Narrator:  meditation.NewSpeechQueue(speechCmd, logger.Named("speech")),
		Logger:    logger,
	})
	logger.Info("starting",
		zap.String("user", cfg.UserID),
		zap.Bool("online", client.Enabled()),
		zap.String("difficulty", string(cfg.Prefs.Difficulty)),
		zap.String("theme", cfg.Prefs.Theme))

	program := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := program.Run()
	shell.Close()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// loadConfig reads the config file and overlays the environment.
func loadConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv(config.DefaultEnvPath())
	if err != nil {
		return config.FileConfig{}, err
	}
	return config.Merge(fileCfg, envCfg), nil
}

// resolveConfig applies file and environment values to every flag that was
// not set on the command line and validates the result.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, string, error) {
	applyStringConfig(cmd, "difficulty", &rootDifficulty, fileCfg.Preferences.Difficulty)
	applyStringConfig(cmd, "theme", &rootTheme, fileCfg.Preferences.Theme)
	applyBoolConfig(cmd, "sound", &rootSound, fileCfg.Preferences.Sound)
	applyBoolConfig(cmd, "narration", &rootNarration, fileCfg.Meditation.Narration)
	applyStringConfig(cmd, "speech-command", &rootSpeechCmd, fileCfg.Meditation.SpeechCmd)
	applyStringConfig(cmd, "api", &rootAPI, fileCfg.Telemetry.Endpoint)
	applyStringConfig(cmd, "api-timeout", &rootAPITimeout, fileCfg.Telemetry.Timeout)
	applyStringConfig(cmd, "user", &rootUser, fileCfg.Telemetry.UserID)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)

	difficulty, err := model.ParseDifficulty(rootDifficulty)
	if err != nil {
		return model.Config{}, "", fmt.Errorf("--difficulty: %w", err)
	}
	if !validTheme(rootTheme) {
		return model.Config{}, "", fmt.Errorf("--theme must be one of %s", strings.Join(model.Themes, ", "))
	}
	timeout, err := time.ParseDuration(strings.TrimSpace(rootAPITimeout))
	if err != nil || timeout <= 0 {
		return model.Config{}, "", fmt.Errorf("--api-timeout must be a positive duration such as 3s")
	}

	cfg := model.Config{
		Prefs: model.Preferences{
			Difficulty:   difficulty,
			Theme:        rootTheme,
			SoundEnabled: rootSound,
		},
		UserID:      strings.TrimSpace(rootUser),
		Narration:   rootNarration,
		SpeechCmd:   strings.TrimSpace(rootSpeechCmd),
		APIEndpoint: strings.TrimSpace(rootAPI),
		APITimeout:  timeout,
	}
	return cfg, rootLogLevel, nil
}

func validTheme(name string) bool {
	for _, t := range model.Themes {
		if t == name {
			return true
		}
	}
	return false
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

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show local activity history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&historyActivity, "activity", "", "activity filter ("+strings.Join(model.Activities, ", ")+")")
	cmd.Flags().IntVar(&historyDays, "days", 28, "days shown in the daily-minutes curve (browser only)")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a plain report instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	activity := strings.ToLower(strings.TrimSpace(historyActivity))
	if activity != "" && !knownActivity(activity) {
		return fmt.Errorf("--activity must be one of %s", strings.Join(model.Activities, ", "))
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if !historyPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		browser := statsui.NewModel(st, model.HistoryConfig{Since: sinceTime, Activity: activity, Days: historyDays})
		program := tea.NewProgram(browser, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, sinceTime)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return writeHistory(cmd.OutOrStdout(), report.ForActivity(activity), time.Now(), 0)
}

func knownActivity(name string) bool {
	for _, a := range model.Activities {
		if a == name {
			return true
		}
	}
	return false
}

func writeHistory(w io.Writer, report stats.Report, now time.Time, width int) error {
	title := lipgloss.NewStyle().Bold(true)
	if _, err := fmt.Fprintln(w, title.Render("Activity history")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSummary(w, report.Aggregates); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nBest bubble score: %d\n", report.BestBubble); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderActivityCurve(w, report.Records, now, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newGardensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gardens",
		Short: "List saved zen gardens",
		Args:  cobra.NoArgs,
		RunE:  runGardensCmd,
	}
	addSharedFlags(cmd)
	return cmd
}

func runGardensCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "api", &rootAPI, fileCfg.Telemetry.Endpoint)
	applyStringConfig(cmd, "api-timeout", &rootAPITimeout, fileCfg.Telemetry.Timeout)
	applyStringConfig(cmd, "user", &rootUser, fileCfg.Telemetry.UserID)

	if strings.TrimSpace(rootAPI) == "" {
		return fmt.Errorf("no games API configured (use --api or TUIZEN_API_URL)")
	}
	timeout, err := time.ParseDuration(strings.TrimSpace(rootAPITimeout))
	if err != nil || timeout <= 0 {
		return fmt.Errorf("--api-timeout must be a positive duration such as 3s")
	}

	user := strings.TrimSpace(rootUser)
	if user == "" {
		st, err := openStore()
		if err != nil {
			return err
		}
		user, err = st.DeviceID(cmd.Context())
		closeStore(st)
		if err != nil {
			return fmt.Errorf("failed to load device id: %w", err)
		}
	}

	client := telemetry.New(telemetry.Options{Endpoint: rootAPI, Timeout: timeout})
	defer client.Close()
	gardens, ok := client.ListZen(cmd.Context(), user)
	if !ok {
		return fmt.Errorf("failed to list gardens from %s", rootAPI)
	}
	return writeGardens(cmd.OutOrStdout(), gardens)
}

func writeGardens(w io.Writer, gardens []telemetry.ZenSummary) error {
	if len(gardens) == 0 {
		_, err := fmt.Fprintln(w, "No gardens saved yet.")
		return err
	}
	for _, g := range gardens {
		created := "unknown"
		if t := g.Created(); !t.IsZero() {
			created = t.Local().Format("2006-01-02 15:04")
		}
		if _, err := fmt.Fprintf(w, "%s  %-16s  %-6s  rake %d\n", created, g.ID, g.Theme, g.RakeWidth); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Print the anonymous device id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)
			id, err := st.DeviceID(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load device id: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
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
	return fmt.Sprintf(`# tuizen configuration
# Uncomment a value to enable it. Environment variables (TUIZEN_*) override
# these values and CLI flags override both.

[preferences]
# difficulty = %q       # easy, normal or hard
# theme = %q              # %s
# sound = true              # Play chimes

[meditation]
# narration = false         # Speak prompts aloud
# speech-command = %q

[telemetry]
# endpoint = "http://127.0.0.1:5001/api"   # Games API root; empty stays offline
# timeout = %q
# user-id = ""              # Defaults to the device id

[log]
# level = %q             # debug, info, warn or error
`,
		defaultDifficulty,
		defaultTheme,
		strings.Join(model.Themes, ", "),
		meditation.DefaultSpeechCommand(),
		defaultAPITimeout.String(),
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
