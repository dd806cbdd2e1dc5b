package commands

import (
	"github.com/spf13/cobra"

	"market-scraper/scraper/market"
	"market-scraper/storage"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape of the listing and store the records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		startURL, _ := cmd.Flags().GetString("url")
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		if startURL == "" {
			startURL = cfg.StartURL
		}

		ctx := cmd.Context()
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		s := market.New(market.OptionsFromConfig(cfg), chromeLauncher(cfg), store, logger)
		res, err := s.Run(ctx, cfg.ProxiedURL(startURL), maxPages)
		if err != nil {
			return err
		}
		logger.Info("Done: %d records saved from %d pages (%s)", res.RecordsSaved, res.Pages, res.Status)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("url", "", "listing URL to start from (default: SCRAPER_URL)")
	scrapeCmd.Flags().Int("max-pages", 0, "maximum listing pages to visit (default: SCRAPER_MAX_PAGES)")
	rootCmd.AddCommand(scrapeCmd)
}
