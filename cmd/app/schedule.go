package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"survival-index/internal/common"
	"survival-index/internal/logging"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const (
	defaultReevaluateSpec = "0 3 * * *"
	defaultCleanupSpec    = "@hourly"
)

// cronLogger 把 cron 的日志转到 slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}

func (c *cli) scheduleCmd() *cobra.Command {
	var (
		reevaluateSpec string
		cleanupSpec    string
		runNow         bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Periodically re-evaluate stale projects and purge expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range []string{reevaluateSpec, cleanupSpec} {
				if _, err := cron.ParseStandard(spec); err != nil {
					return common.InvalidInput("invalid cron spec %q: %v", spec, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			reevaluate := func() {
				res, err := a.evaluation.ReevaluateStale(ctx, c.cfg.Evaluation.StaleDays)
				if err != nil {
					logging.Error(ctx, "scheduled re-evaluation failed", slog.Any("error", err))
					return
				}
				printBatch(out, res)
			}
			cleanup := func() {
				n, err := a.auth.CleanupExpiredSessions(ctx)
				if err != nil {
					logging.Error(ctx, "session cleanup failed", slog.Any("error", err))
					return
				}
				logging.Info(ctx, "expired sessions removed", slog.Int64("count", n))
			}

			logger := cronLogger{}
			scheduler := cron.New(
				cron.WithLogger(logger),
				cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
			)
			if _, err := scheduler.AddFunc(reevaluateSpec, reevaluate); err != nil {
				return err
			}
			if _, err := scheduler.AddFunc(cleanupSpec, cleanup); err != nil {
				return err
			}

			fmt.Fprintf(out, "⏰ scheduler started: re-evaluate %q, session cleanup %q\n", reevaluateSpec, cleanupSpec)
			fmt.Fprintln(out, "press Ctrl+C to stop")

			if runNow {
				reevaluate()
			}
			scheduler.Start()

			<-ctx.Done()
			fmt.Fprintln(out, "\n👋 stopping scheduler...")
			// 等待正在执行的任务结束
			<-scheduler.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&reevaluateSpec, "cron", defaultReevaluateSpec, "cron spec for stale re-evaluation")
	cmd.Flags().StringVar(&cleanupSpec, "cleanup-cron", defaultCleanupSpec, "cron spec for expired session cleanup")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run one re-evaluation immediately on start")
	return cmd
}
