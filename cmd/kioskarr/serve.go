package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/kioskarr/internal/auth"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the status server and keep the request list refreshed",
		Long: `Serve exposes /health, /status and /metrics on SERVER_PORT while the
request list is refreshed every REFRESH_INTERVAL. Admins refresh every
user's requests, other users their own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.HomePath)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := a.Logger
			logger.Info().Str("api_url", a.Config.APIURL).Msg("Starting kioskarr")

			a.Refresher.SetAdminMode(a.Gate.IsAdmin())
			if err := a.Refresher.Mount(); err != nil {
				return fmt.Errorf("failed to start refresher: %w", err)
			}
			defer a.Refresher.Unmount()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			serverErrChan := make(chan error, 1)
			go func() {
				serverErrChan <- a.Server.Start(ctx)
			}()

			a.Gate.OnForcedLogout(func() {
				logger.Warn().Msg("Session expired, refreshes will fail until 'kioskarr login' is run again")
			})

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			logger.Info().Msg("kioskarr is running")

			select {
			case err := <-serverErrChan:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			case sig := <-sigChan:
				logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
				cancel()
				if err := <-serverErrChan; err != nil {
					logger.Error().Err(err).Msg("Error during server shutdown")
				}
			}

			logger.Info().Msg("kioskarr stopped")
			return nil
		},
	}
}
