package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var rtCfg runtimeConfig
	var addr string
	var reportDir string
	var topK int

	flags := rtCfg.Flags()
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "report-dir",
			Usage:       "Directory reports of API assessments are written to. No report files if omitted",
			Sources:     cli.EnvVars("THEMIS_REPORT_DIR"),
			Destination: &reportDir,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Regulation chunks retrieved per compliance area",
			Value:       usecase.DefaultTopK,
			Sources:     cli.EnvVars("THEMIS_TOP_K"),
			Destination: &topK,
		},
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"srv"},
		Usage:   "Serve the classification and assessment HTTP API",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := rtCfg.build(ctx, reportDir)
			if err != nil {
				return err
			}
			defer rt.Close()

			dispatcher := async.NewDispatcher()
			httpHandler, err := httpctrl.New(rt.uc,
				httpctrl.WithDispatcher(dispatcher),
				httpctrl.WithTopK(topK),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Running assessments still write to the repository
				if err := dispatcher.Wait(shutdownCtx); err != nil {
					return goerr.Wrap(err, "background assessments were interrupted")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
