package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cpm/config"
	"github.com/kilianp07/cpm/core/metrics"
	"github.com/kilianp07/cpm/infra/logger"
	_ "github.com/kilianp07/cpm/infra/metrics"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     logger.Logger
	sink    metrics.MetricsSink
}

// NewRootCmd builds the cpm command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cpm",
		Short:         "Critical path scheduling with Microsoft Project or Primavera P6 semantics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(newScheduleCmd(a), newPathsCmd(a), newCompareCmd(a))
	return root
}

// Execute runs the CLI until it completes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	sink, err := metrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	a.cfg, a.sink = cfg, sink
	a.log = logger.New("cli")
	return nil
}

// release pushes buffered metrics and closes the sinks.
func (a *app) release(ctx context.Context) {
	if a.sink == nil {
		return
	}
	if err := metrics.Flush(ctx, a.sink); err != nil {
		a.log.Errorf("metrics flush: %v", err)
	}
	if err := metrics.Close(a.sink); err != nil {
		a.log.Errorf("metrics close: %v", err)
	}
}
