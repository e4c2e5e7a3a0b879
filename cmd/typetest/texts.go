package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/logging"
)

func newTextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "texts",
		Short: "List the active passages",
		Args:  cobra.NoArgs,
		RunE:  runTextsCmd,
	}
}

func runTextsCmd(cmd *cobra.Command, _ []string) error {
	logging.Setup()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path := ""
	if fileCfg.Practice.TextsFile != nil {
		path = *fileCfg.Practice.TextsFile
	}
	provider, err := loadProvider(path)
	if err != nil {
		return err
	}

	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	for i, p := range provider.Passages() {
		if err := printf(cmd, "%2d. %s\n", i+1, fitWidth(p, width-4)); err != nil {
			return err
		}
	}
	return nil
}

// fitWidth truncates s to width terminal cells. Non-positive width keeps s.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
