package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"batcli/internal/dataset"
	apperrors "batcli/internal/errors"
	"batcli/internal/exporter"
	"batcli/internal/infrastructure"
	"batcli/internal/services"
)

// NewAnalyzeCommand creates and returns the analyze subcommand
func NewAnalyzeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the analysis once and print the report",
		Long: `Run the full pipeline: load both datasets, drop rows with unparseable
dates, derive rat_presence_duration, print the three EDA sections and the
t-test, then write plots, CSV tables, the Excel workbook and report.json
into the output directory.

Exit code: 0 on success or when an input file is missing (the missing file
is reported), 1 on any other error`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}
}

func runAnalyze(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, providers, err := setupTelemetry(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc := services.NewAnalysisService(services.OptionsFromConfig(cfg), logger, providers.Tracer, metrics)
	console := exporter.NewConsole(cmd.OutOrStdout())

	res, err := svc.Run(ctx)
	if res != nil {
		printLoads(console, res.Loads)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrFileNotFound) {
			return nil
		}
		if res != nil && res.Report != nil && res.Report.Clean.OriginalRows > 0 {
			// cleaning ran before the failure
			console.Clean(res.Report.Clean)
		}
		return err
	}

	console.Report(res.Report)

	paths, err := svc.WriteArtifacts(ctx, res)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "analysis artifacts ready",
		slog.String("dir", cfg.Output.Dir),
		slog.Any("files", paths))
	return nil
}

// printLoads prints one line per dataset load attempt
func printLoads(console *exporter.Console, loads []dataset.LoadStatus) {
	for _, st := range loads {
		switch {
		case st.Loaded():
			console.Loaded(st.Path)
		case errors.Is(st.Err, apperrors.ErrFileNotFound):
			console.Missing(st.Path)
		}
	}
}
