package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/segyhp/equipment-lease/internal/app"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "leasectl",
	Short: "Operate the equipment lease engine",
	Long: `leasectl runs one-off maintenance tasks against the lease database:
schema migrations and single runs of the invoice reconciler passes.

Configuration is read from the environment (and .env) exactly like the
server and scheduler.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// loadApp builds the application for one command run. The returned cleanup
// closes connections and flushes the logger.
func loadApp() (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}

	application, err := app.New(cfg, zl, prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	return application, func() {
		if err := application.Close(); err != nil {
			zl.Warn("close connections", zap.Error(err))
		}
		_ = zl.Sync()
	}, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
