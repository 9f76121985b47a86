// Package app assembles the batcli HTTP server.
//
// NewApplication wires the analysis and health services, the middleware
// chain and the chi router from a loaded config and initialized telemetry
// providers. Warmup runs the first analysis; Run serves until its context
// is cancelled and then shuts the server and telemetry down.
//
//	application, err := app.NewApplication(cfg, opts, logger, providers)
//	if err != nil {
//	    return err
//	}
//	application.Warmup(ctx)
//	return application.Run(ctx)
package app
