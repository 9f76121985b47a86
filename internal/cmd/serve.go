package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"batcli/internal/app"
	"batcli/internal/services"
)

// NewServeCommand creates and returns the serve subcommand
func NewServeCommand(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest report over HTTP",
		Long: `Run the analysis once, then serve the report, its sections and the box
plots under /api, with Prometheus metrics on /metrics. POST
/api/report/refresh reruns the analysis. Stops on SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger, providers, err := setupTelemetry(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			application, err := app.NewApplication(cfg, services.OptionsFromConfig(cfg), logger, providers)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application.Warmup(ctx)
			return application.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}
