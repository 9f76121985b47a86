package exporter

import (
	"math"
	"strconv"

	"batcli/pkg/contracts/domain"
)

// formatNumber formats a statistic for file output. NaN becomes an empty
// cell, matching how missing values are written.
func formatNumber(n domain.Number) string {
	f := n.Float()
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed formats a statistic with prec decimals for display
func formatFixed(n domain.Number, prec int) string {
	f := n.Float()
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// formatInt formats a count
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// blankNaN replaces gota's NaN markers with empty cells
func blankNaN(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v != "NaN" {
			out[i] = v
		}
	}
	return out
}
