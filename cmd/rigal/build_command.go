package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rigal/internal/config"
	"rigal/internal/filesystem"
	"rigal/internal/logging"
	"rigal/internal/memory"
	"rigal/internal/metrics"
	"rigal/internal/pipeline"
	"rigal/internal/report"
	"rigal/internal/startup"
	"rigal/internal/thumbnail"
)

type buildFlags struct {
	strict     bool
	workers    int
	logLevel   string
	noProgress bool
	watch      bool
}

func newBuildCommand(configPath *string) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBuildConfig(cmd, *configPath, flags)
			if err != nil {
				return err
			}
			if cfg.Logging.Level != "" {
				if err := logging.SetLevel(cfg.Logging.Level); err != nil {
					return err
				}
			}

			startup.LogBanner()
			startup.LogSystemInfo()
			memory.ConfigureFromEnv()
			startup.LogConfiguration(cfg)

			filesystem.SetObserver(metrics.NewFilesystemObserver())
			filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
				"input":  cfg.Input,
				"output": cfg.Output,
				"theme":  cfg.Theme,
			}))
			defer thumbnail.ShutdownVips()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := pipeline.Options{
				Progress: !flags.noProgress,
				Stderr:   cmd.ErrOrStderr(),
			}
			if flags.watch {
				return runWatch(ctx, cfg, opts, cmd.OutOrStdout())
			}

			summary, err := pipeline.Run(ctx, cfg, opts)
			pipeline.WriteSummary(cmd.OutOrStdout(), summary)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Treat template failures as fatal")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "Parallel workers (0 picks a value from the available CPUs)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable progress bars")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Rebuild whenever the input or theme changes")
	return cmd
}

// loadBuildConfig loads the configuration file and applies the flags the
// user set explicitly.
func loadBuildConfig(cmd *cobra.Command, path string, flags buildFlags) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("strict") {
		cfg.Strict = flags.strict
	}
	if changed("workers") {
		cfg.Workers = flags.workers
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWatch(ctx context.Context, cfg *config.Config, opts pipeline.Options, out io.Writer) error {
	err := pipeline.Watch(ctx, cfg, opts, func(s *report.Summary, err error) {
		if err != nil {
			logging.Error("Build %s failed: %v", s.BuildID, err)
		}
		fmt.Fprintf(out, "build %s: %s\n", s.BuildID, pipeline.SummaryLine(s))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
