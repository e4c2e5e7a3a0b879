package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/scores"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/statsui"
)

var (
	leaderboardLimit int
	statsLimit       int
)

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show the personal best of the current account",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	userID, username, err := a.identity(ctx)
	if err != nil {
		return err
	}
	best, err := a.scores.BestFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load best score: %w", err)
	}
	if best == (model.Best{}) {
		return printf(cmd, "%s has no scores yet.\n", username)
	}
	return printf(cmd, "%s: %d WPM · %d%% accuracy\n", username, best.WPM, best.Accuracy)
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().IntVar(&leaderboardLimit, "limit", scores.DefaultLimit, "number of entries")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	limit, err := resolveLimit(cmd, &leaderboardLimit)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.scores.Leaderboard(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return stats.RenderLeaderboard(cmd.OutOrStdout(), entries)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse the leaderboard and your history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLimit, "limit", scores.DefaultLimit, "number of leaderboard entries")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	limit, err := resolveLimit(cmd, &statsLimit)
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
	board := statsui.NewModel(ctx, a.scores, userID, username, limit)
	program := tea.NewProgram(board, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

// resolveLimit applies the config file to an unchanged --limit flag and validates it.
func resolveLimit(cmd *cobra.Command, limit *int) (int, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return 0, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "limit", limit, fileCfg.Leaderboard.Limit)
	if err := validateSettings(model.Settings{
		Duration:         defaultDuration,
		StartPolicy:      model.StartExplicit,
		LeaderboardLimit: *limit,
	}); err != nil {
		return 0, err
	}
	return *limit, nil
}
