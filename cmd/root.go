// Package cmd defines and implements the CLI commands for the
// pagewatch executable.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/config"
	"github.com/anastasiapeachy/pagewatch/internal/logging"
	"github.com/anastasiapeachy/pagewatch/internal/metrics"
)

var (
	cfgFile string

	// Shared services built once in PersistentPreRunE.
	cfg    config.Config
	logger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagewatch",
		Short: "One-way sync from a Notion page tree to Slack.",
		Long: `pagewatch walks a Notion page tree, extracts page metadata, and posts
a one-time Slack notification for every newly-eligible public page.
Durable state is a single JSON file of already-notified page ids, so
the job can run as a stateless scheduled task.`,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err = logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			metrics.Init()
			if cfg.Metrics.Listen != "" {
				go serveMetrics(cfg.Metrics.Listen, logger)
			}
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				// Best-effort flush; stderr sync errors are expected on
				// some platforms.
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment only)")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newReportCmd())

	return cmd
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}

// Execute is the main entry point. A top-level failure terminates the
// process with a non-zero status after logging; state persisted before
// the failure remains valid for the next run.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "pagewatch:", err)
		}
		os.Exit(1)
	}
}
