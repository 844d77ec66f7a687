// Package main provides the CLI entrypoint for typevelocity.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Shamsear/typevelocity/internal/api"
	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/config"
	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/profile"
	"github.com/Shamsear/typevelocity/internal/prompt"
	"github.com/Shamsear/typevelocity/internal/session"
	"github.com/Shamsear/typevelocity/internal/stats"
	"github.com/Shamsear/typevelocity/internal/statsui"
	"github.com/Shamsear/typevelocity/internal/store"
	"github.com/Shamsear/typevelocity/internal/tui"
	"github.com/Shamsear/typevelocity/internal/wordlist"
)

const (
	defaultSource      = prompt.SourceDynamic
	defaultWords       = 25
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultCurveWindow = 5
	defaultAddr        = "127.0.0.1:8080"
	defaultKeyEnv      = "TYPEVELOCITY_API_KEY"
	defaultEndpoint    = "https://api.openai.com/v1/chat/completions"
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.7
	defaultMaxTokens   = 100
	defaultTimeoutSec  = 10
)

const defaultPunctSet = ".,!?;:'\"-"

var (
	practiceSource     string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceWordList   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64

	logLevel string

	statsText   bool
	statsLast   int
	statsWindow int

	boardName string
	serveAddr string
	resetYes  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typevelocity",
		Short:         "Typing practice with levels, streaks and achievements",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&practiceSource, "source", defaultSource, "prompt source (dynamic, words, static)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per generated prompt")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "path to a word list (default: built-in)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias word prompts toward often mistyped keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newHeatmapCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// app holds everything a command needs to talk to the engine.
type app struct {
	fileCfg config.FileConfig
	log     *logging.Logger
	store   *store.Store
	engine  *session.Engine
}

// openApp loads config and secrets, opens the store and builds the engine.
// When toFile is set, logs go to the log file so they do not draw over a TUI.
func openApp(cmd *cobra.Command, toFile bool) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	level := logging.ParseLevel(logLevel)

	log := logging.Stderr(level)
	if toFile {
		fileLog, err := logging.OpenFile(config.DefaultLogPath(), level)
		if err != nil {
			return nil, err
		}
		log = fileLog
	}

	if err := godotenv.Load(config.DefaultEnvPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to load env file: %v", err)
	}

	blend, err := leaderboard.ParseBlend(config.StringOr(fileCfg.Leaderboard.AccuracyBlend, ""))
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	clk := clock.System{}
	goals := profile.Goals{
		Words: config.IntOr(fileCfg.Goals.DailyWords, 0),
		XP:    config.IntOr(fileCfg.Goals.DailyXP, 0),
	}
	engine := session.New(cmd.Context(), session.Deps{
		Clock:        clk,
		Log:          log,
		Profiles:     profile.NewRepository(st, log, clk, goals),
		Leaderboards: leaderboard.NewRepository(st, log),
		Heatmap:      heatmap.NewRepository(st, log),
		Blend:        blend,
		PlayerName:   config.StringOr(fileCfg.Leaderboard.Name, leaderboard.DefaultName),
	})
	return &app{fileCfg: fileCfg, log: log, store: st, engine: engine}, nil
}

func (a *app) close() {
	if cerr := a.store.Close(); cerr != nil {
		a.log.Errorf("failed to close db: %v", cerr)
	}
	if cerr := a.log.Close(); cerr != nil {
		// Best-effort close of the log file.
		_ = cerr
	}
}

func practiceConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	p := fileCfg.Practice
	applyStringConfig(cmd, "source", &practiceSource, p.Source)
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, p.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, p.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, p.PunctSet)
	applyStringConfig(cmd, "wordlist", &practiceWordList, p.WordList)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)

	cfg := model.Config{
		Source:     practiceSource,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		WordList:   practiceWordList,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
	}
	return cfg, validateConfig(cfg)
}

// apiConfig resolves the chat endpoint settings. The key is read from the
// environment; the endpoint is enabled by default whenever a key is present.
func apiConfig(fileCfg config.FileConfig) model.APIConfig {
	c := fileCfg.API
	key := strings.TrimSpace(os.Getenv(config.StringOr(c.KeyEnv, defaultKeyEnv)))
	return model.APIConfig{
		Enabled:     config.BoolOr(c.Enabled, key != ""),
		Endpoint:    config.StringOr(c.Endpoint, defaultEndpoint),
		Model:       config.StringOr(c.Model, defaultModel),
		APIKey:      key,
		Temperature: config.FloatOr(c.Temperature, defaultTemperature),
		MaxTokens:   config.IntOr(c.MaxTokens, defaultMaxTokens),
		Timeout:     time.Duration(config.IntOr(c.TimeoutSec, defaultTimeoutSec)) * time.Second,
	}
}

func buildProvider(a *app, cfg model.Config) (*prompt.Provider, error) {
	filter := wordlist.LowerASCII
	if cfg.WordList != "" {
		filter = wordlist.Any
	}
	words, err := wordlist.Resolve(cfg.WordList, filter)
	if err != nil {
		return nil, err
	}
	var weak func() map[rune]struct{}
	if cfg.FocusWeak {
		top := cfg.WeakTop
		weak = func() map[rune]struct{} { return a.engine.WeakKeys(top) }
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return prompt.Build(cfg, apiConfig(a.fileCfg), words, weak, rnd, a.log), nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, err := practiceConfig(cmd, a.fileCfg)
	if err != nil {
		return err
	}
	provider, err := buildProvider(a, cfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(cmd.Context(), a.engine, provider)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress, trends, trophies and boards",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsText, "text", false, "print a plain text report instead of the TUI")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit history to the last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window for trends")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	interactive := !statsText && isTerminal(cmd.OutOrStdout())
	a, err := openApp(cmd, interactive)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	load := func() stats.Report {
		return stats.BuildReport(a.engine.Profile(), a.engine.Leaderboards(ctx), a.engine.KeyErrors(), statsLast)
	}
	if !interactive {
		if err := stats.RenderReport(cmd.OutOrStdout(), load(), statsWindow, stats.TerminalWidth()-12); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(load, statsWindow), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the player profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileShowCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show level, progress and preferences",
		Args:  cobra.NoArgs,
		RunE:  runProfileShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <preference> <value>",
		Short: "Set a preference (" + strings.Join(profile.PreferenceNames, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE:  runProfileSetCmd,
	})
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all progress",
		Args:  cobra.NoArgs,
		RunE:  runProfileResetCmd,
	}
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	cmd.AddCommand(resetCmd)
	return cmd
}

func runProfileShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	p := a.engine.Profile()
	if err := stats.RenderProfile(out, p); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return writePreferences(out, p)
}

func writePreferences(w io.Writer, p model.Profile) error {
	if _, err := fmt.Fprintln(w, "Preferences"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, name := range profile.PreferenceNames {
		value, err := profile.Preference(p, name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-16s %s\n", name, value); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runProfileSetCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.engine.SetPreference(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	value, err := profile.Preference(p, args[0])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runProfileResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset without --yes")
	}
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.engine.ResetProfile(cmd.Context()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Profile reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHeatmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show or reset the key error heatmap",
		Args:  cobra.NoArgs,
		RunE:  runHeatmapShowCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Draw the keyboard coloured by error count",
		Args:  cobra.NoArgs,
		RunE:  runHeatmapShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear all key error counts",
		Args:  cobra.NoArgs,
		RunE:  runHeatmapResetCmd,
	})
	return cmd
}

func runHeatmapShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	t := heatmap.NewTable(a.engine.KeyErrors())
	out := strings.Join([]string{
		heatmap.RenderKeyboard(t),
		"",
		heatmap.RenderLegend(),
		"",
		heatmap.RenderTopList(t, 10),
	}, "\n")
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runHeatmapResetCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.engine.ResetKeyErrors(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset heatmap: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Heatmap cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show a leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardName, "board", leaderboard.AllTime, "board to show ("+strings.Join(leaderboard.Names, ", ")+")")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	boards := a.engine.Leaderboards(cmd.Context())
	board, err := leaderboard.Select(&boards, boardName)
	if err != nil {
		return err
	}
	if err := stats.RenderBoard(cmd.OutOrStdout(), "Leaderboard ("+boardName+")", *board); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&practiceSource, "source", defaultSource, "prompt source for GET /prompt (dynamic, words, static)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, err := practiceConfig(cmd, a.fileCfg)
	if err != nil {
		return err
	}
	provider, err := buildProvider(a, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := api.New(api.NewHandler(a.engine, provider, a.log), logging.ParseLevel(logLevel) <= logging.LevelInfo)
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(serveAddr)
	}()
	a.log.Infof("serving API on %s", serveAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# typevelocity configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# source = %q        # Prompt source: dynamic, words or static
# words = %d              # Words per generated prompt
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q   # Punctuation set
# wordlist = ""           # Path to a word list, one word per line
# focus-weak = false      # Bias word prompts toward often mistyped keys
# weak-top = %d            # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak keys

[api]
# enabled = true          # Defaults to true when the key variable is set
# endpoint = %q
# model = %q
# key-env = %q   # Environment variable holding the key; may be set in %s
# temperature = %.1f
# max-tokens = %d
# timeout = %d            # Seconds

[goals]
# daily-words = 500
# daily-xp = 200

[leaderboard]
# name = "You"
# accuracy-blend = "mean" # mean (count weighted) or pairwise

[log]
# level = "info"
`,
		defaultSource,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultEndpoint,
		defaultModel,
		defaultKeyEnv,
		config.DefaultEnvPath(),
		defaultTemperature,
		defaultMaxTokens,
		defaultTimeoutSec,
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Source {
	case prompt.SourceDynamic, prompt.SourceWords, prompt.SourceStatic:
	default:
		return fmt.Errorf("--source must be one of %s, %s, %s", prompt.SourceDynamic, prompt.SourceWords, prompt.SourceStatic)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
