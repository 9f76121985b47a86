package http

import (
	"context"

	"batcli/internal/plots"
	"batcli/internal/services"
)

// ReportServiceInterface is the part of the analysis service the report
// handler depends on
type ReportServiceInterface interface {
	Run(ctx context.Context) (*services.Result, error)
	Last() (*services.Result, error)
	PlotSpec(name string) (plots.BoxSpec, error)
}

var _ ReportServiceInterface = (*services.AnalysisService)(nil)
