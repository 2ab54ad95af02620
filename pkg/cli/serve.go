package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/EngrShabir135/koboimg/pkg/cli/config"
	controller "github.com/EngrShabir135/koboimg/pkg/controller/http"
	"github.com/EngrShabir135/koboimg/pkg/infra/kobo"
	"github.com/EngrShabir135/koboimg/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		fetcherCfg config.Fetcher
	)

	flags := append(serverCfg.Flags(), fetcherCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the interactive web UI",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting koboimg server",
				slog.String("addr", serverCfg.Addr),
				slog.Duration("fetch_timeout", fetcherCfg.Timeout),
			)

			// Create use case
			fetcher := kobo.NewClient(kobo.WithTimeout(fetcherCfg.Timeout))
			pipelineUC := usecase.NewPipeline(fetcher)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				pipelineUC,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
