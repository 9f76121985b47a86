package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"batcli/internal/config"
	"batcli/internal/infrastructure"
	"batcli/pkg/contracts"
)

// globalOptions holds the flags shared by every subcommand
type globalOptions struct {
	configPath    string
	landingsPath  string
	intervalsPath string
	outDir        string
	alpha         float64
	welch         bool
	noPlots       bool
}

// NewRootCommand creates and returns the root cobra command for batcli.
// Without a subcommand it runs analyze.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "batcli",
		Short: "Exploratory analysis of bat foraging behaviour around rats",
		Long: `batcli loads the bat landing observations (dataset1) and the 30-minute
interval counts (dataset2), cleans them, and reports vigilance by risk,
habits by risk, bat activity with and without rats, and a two-sample t-test
on vigilance between risk groups.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $BAT_CONFIG or ./batcli.yaml)")
	flags.StringVar(&opts.landingsPath, "landings", "", "landing observations CSV (dataset1)")
	flags.StringVar(&opts.intervalsPath, "intervals", "", "interval counts CSV (dataset2)")
	flags.StringVar(&opts.outDir, "out", "", "directory for plots and exported tables")
	flags.Float64Var(&opts.alpha, "alpha", 0, "significance level for the t-test")
	flags.BoolVar(&opts.welch, "welch", false, "use Welch's t-test instead of the pooled-variance test")
	flags.BoolVar(&opts.noPlots, "no-plots", false, "skip box plot rendering")

	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// loadConfig loads the config file and environment, then applies any flag
// the user set explicitly
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("landings") {
		cfg.Input.LandingsPath = o.landingsPath
	}
	if flags.Changed("intervals") {
		cfg.Input.IntervalsPath = o.intervalsPath
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.outDir
	}
	if flags.Changed("alpha") {
		cfg.Analysis.Alpha = o.alpha
	}
	if flags.Changed("welch") {
		cfg.Analysis.EqualVar = !o.welch
	}
	if flags.Changed("no-plots") {
		cfg.Output.Plots = !o.noPlots
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupTelemetry initializes logging and OpenTelemetry. Spans go to
// traceOut so they never mix with the report on stdout.
func setupTelemetry(cfg *config.Config, traceOut io.Writer) (*slog.Logger, *infrastructure.OTelProviders, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, traceOut, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return logger, providers, nil
}
