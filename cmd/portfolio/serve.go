package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-portfolio/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery JSON API and image renditions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			logger := logging.HTTPLogger(module.Container().LoggerProvider())
			server := &http.Server{
				Addr:              addr,
				Handler:           module.HTTPHandler(),
				ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
				ReadTimeout:       cfg.HTTP.ReadTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http.listening", "addr", addr, "api_prefix", cfg.HTTP.APIPrefix, "asset_prefix", cfg.HTTP.AssetPrefix)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				logger.Info("http.shutdown")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.addr)")
	return cmd
}
