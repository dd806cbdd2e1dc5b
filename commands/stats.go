package commands

import (
	"github.com/spf13/cobra"

	"market-scraper/services"
	"market-scraper/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregates over the stored records.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.All(ctx)
		if err != nil {
			return err
		}

		insights := services.NewInsightService(logger)
		insights.Render(cmd.OutOrStdout(), insights.Generate(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
