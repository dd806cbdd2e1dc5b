package commands

import (
	"github.com/spf13/cobra"

	"market-scraper/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all stored records to a CSV file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

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

		w, err := storage.NewCSVWriter(out)
		if err != nil {
			return err
		}
		if err := w.WriteRecords(records); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		logger.Info("Exported %d records to %s", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "./output/products.csv", "CSV file to write")
	rootCmd.AddCommand(exportCmd)
}
