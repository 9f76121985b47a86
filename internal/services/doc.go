// Package services implements the batcli application layer between the
// CLI/HTTP surfaces and the analysis packages.
//
// AnalysisService runs the pipeline end to end:
//
//	load -> clean -> features -> vigilance -> habits -> avoidance -> ttest
//
// Every stage runs inside an OpenTelemetry span and records its duration on
// the pipeline metrics. A successful run is kept as the latest result so the
// HTTP handlers can serve report sections and render plots on demand.
//
// HealthService reports liveness and readiness for the server.
//
// # Common Service Pattern
//
//	svc := services.NewAnalysisService(opts, logger, tracer, metrics)
//	res, err := svc.Run(ctx)
//	if errors.Is(err, apperrors.ErrFileNotFound) {
//	    // res.Loads says which files were found
//	}
//	paths, err := svc.WriteArtifacts(ctx, res)
package services
