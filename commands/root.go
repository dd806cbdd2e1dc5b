package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"market-scraper/browser"
	"market-scraper/config"
	"market-scraper/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "market-scraper",
	Short: "market-scraper collects item prices and trade activity from a market listing.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger = utils.NewLogger(cfg.LogLevel)
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func chromeLauncher(cfg *config.Config) browser.Launcher {
	return func(ctx context.Context) (browser.Page, error) {
		session, err := browser.LaunchChrome(ctx, cfg.ChromeOptions())
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}
