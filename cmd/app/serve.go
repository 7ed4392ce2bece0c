package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survival-index/internal/adapter/httpapi"
	"survival-index/internal/logging"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			e := httpapi.NewServer(a.services(), httpapi.Options{
				FrontendURL: c.cfg.Server.FrontendURL,
				Environment: c.cfg.Server.Environment,
				DemoMode:    a.judge.DemoMode(),
				Debug:       !c.cfg.IsProduction(),
			})

			errCh := make(chan error, 1)
			go func() {
				logging.Info(ctx, "server listening",
					slog.String("addr", addr),
					slog.String("environment", c.cfg.Server.Environment),
					slog.Bool("demo", a.judge.DemoMode()))
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logging.Info(context.Background(), "shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
