package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"batcli/pkg/contracts/domain"
)

// EncodeReport writes report as indented JSON
func EncodeReport(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteReportJSON writes report to path, creating the directory
func WriteReportJSON(path string, report *domain.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report json: %w", err)
	}
	if err := EncodeReport(f, report); err != nil {
		f.Close()
		return fmt.Errorf("encode report json: %w", err)
	}
	return f.Close()
}
