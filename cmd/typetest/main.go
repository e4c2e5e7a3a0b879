// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/accounts"
	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/scores"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/texts"
	"github.com/verte-zerg/typetest/internal/tui"
)

const (
	defaultDuration    = session.DefaultDuration
	defaultStartPolicy = string(model.StartExplicit)
	defaultGuestScores = true
	maxDuration        = 3600
)

var (
	practiceDuration    int
	practiceStart       string
	practiceGuestScores bool
	practiceTextsFile   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "session length in seconds")
	rootCmd.Flags().StringVar(&practiceStart, "start", defaultStartPolicy, "countdown start: explicit or first-keystroke")
	rootCmd.Flags().BoolVar(&practiceGuestScores, "guest-scores", defaultGuestScores, "record scores when not logged in")
	rootCmd.Flags().StringVar(&practiceTextsFile, "texts-file", "", "file with one passage per line")

	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newRecoverCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTextsCmd())

	return rootCmd
}

// app bundles the persistent services shared by the commands.
type app struct {
	store    *store.Store
	accounts *accounts.Directory
	scores   *scores.Store
}

func openApp() (*app, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger := slog.Default()
	dir := accounts.NewDirectory(st, accounts.WithLogger(logger))
	return &app{
		store:    st,
		accounts: dir,
		scores:   scores.New(st, dir).WithLogger(logger),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close db", "error", err)
	}
}

// identity returns the current account, or the guest identity.
func (a *app) identity(ctx context.Context) (id, name string, err error) {
	acct, ok, err := a.accounts.Current(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to load current user: %w", err)
	}
	if !ok {
		return model.GuestID, model.GuestName, nil
	}
	return acct.ID, acct.Username, nil
}

// startFileLogging keeps log output off a full-screen UI.
func startFileLogging() func() {
	closeLog, err := logging.SetupFile(config.DefaultLogPath())
	if err != nil {
		logging.Setup()
		slog.Warn("logging to stderr", "error", err)
		return func() {}
	}
	return func() {
		_ = closeLog()
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyStringConfig(cmd, "start", &practiceStart, fileCfg.Practice.Start)
	applyBoolConfig(cmd, "guest-scores", &practiceGuestScores, fileCfg.Practice.GuestScores)
	applyStringConfig(cmd, "texts-file", &practiceTextsFile, fileCfg.Practice.TextsFile)

	settings := model.Settings{
		Duration:    practiceDuration,
		StartPolicy: model.StartPolicy(practiceStart),
		GuestScores: practiceGuestScores,
		TextsFile:   practiceTextsFile,
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	provider, err := loadProvider(settings.TextsFile)
	if err != nil {
		return err
	}

	stopLog := startFileLogging()
	defer stopLog()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	userID, username, err := a.identity(ctx)
	if err != nil {
		return err
	}

	engine := session.New(provider, a.scores,
		session.WithDuration(settings.Duration),
		session.WithStartPolicy(settings.StartPolicy),
		session.WithGuestScores(settings.GuestScores),
		session.WithLogger(slog.Default()),
	)
	if userID != model.GuestID {
		engine.SetUser(userID)
	}
	slog.Info("practice started", "user_id", userID, "duration", settings.Duration, "start", settings.StartPolicy)

	screen := tui.NewModel(ctx, engine, a.scores, username, slog.Default())
	program := tea.NewProgram(screen, tea.WithAltScreen(), tea.WithContext(ctx))
	engine.SetListener(func(snap session.Snapshot) {
		program.Send(tui.SnapshotMsg(snap))
	})
	defer engine.Reset()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadProvider(path string) (*texts.Provider, error) {
	if path == "" {
		return texts.New(nil), nil
	}
	passages, err := texts.LoadPassages(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load passages: %w", err)
	}
	return texts.New(passages), nil
}

func validateSettings(s model.Settings) error {
	if s.Duration <= 0 || s.Duration > maxDuration {
		return fmt.Errorf("--duration must be between 1 and %d", maxDuration)
	}
	switch s.StartPolicy {
	case model.StartExplicit, model.StartFirstKeystroke:
	default:
		return fmt.Errorf("--start must be %q or %q", model.StartExplicit, model.StartFirstKeystroke)
	}
	if s.LeaderboardLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	return nil
}
