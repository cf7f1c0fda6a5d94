package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"reguguard-backend/app"
	"reguguard-backend/config"
	"reguguard-backend/logging"

	"github.com/spf13/cobra"
)

var debugMode bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reguguard",
		Short:         "ReguGuard - SOP compliance analyzer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	root.AddCommand(
		newAnalyzeCmd(),
		newClassifyCmd(),
		newCompareCmd(),
		newSourcesCmd(),
		newHistoryCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// buildApp loads configuration and wires the services for one command run
func buildApp(ctx context.Context) (*app.App, error) {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(debugMode || cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.New(ctx, cfg, logger)
}

func writeJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
