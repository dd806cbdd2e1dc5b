package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"market-scraper/api"
	"market-scraper/scraper/market"
	"market-scraper/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scrape and products HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		s := market.New(market.OptionsFromConfig(cfg), chromeLauncher(cfg), store, logger)
		server := api.NewServer(s, store, api.Options{
			DefaultURL:   cfg.StartURL,
			DefaultPages: cfg.MaxPages,
			RewriteURL:   cfg.ProxiedURL,
		}, logger)

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("[api] Listening on %s", cfg.HTTPAddr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("[api] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
