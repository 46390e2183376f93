package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/jsongen/display"
	"github.com/teranos/jsongen/logger"
	"github.com/teranos/jsongen/watch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [flags] <paths...>",
		Short: "Generate, then regenerate whenever a source file changes",
		Long: `Generate companions once, then watch the given paths and run again
after a quiet period (watch.debounce_ms) whenever a Swift source changes.
Writes of generated companions never trigger a run. Failed runs are
reported and watching continues. Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := newGenerator(cfg)
			if err != nil {
				return err
			}
			opts := options(cfg, args, false)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := func(ctx context.Context) error {
				result, err := g.Run(ctx, opts)
				if err != nil {
					display.ReportError(cmd.ErrOrStderr(), err)
					return err
				}
				return report(cmd, result, false)
			}
			_ = run(ctx)

			w, err := watch.New(args, opts.Naming.IsInput, cfg.Watch.Debounce(), logger.ComponentLogger("watch"))
			if err != nil {
				return err
			}
			defer w.Close()

			logger.Infow("Watching for changes", logger.FieldCount, len(args))
			return w.Run(ctx, run)
		},
	}
}
