package exporter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"batcli/pkg/contracts/domain"
)

// Console renders the run transcript for a terminal
type Console struct {
	out     io.Writer
	header  *color.Color
	success *color.Color
	failure *color.Color
}

// NewConsole creates a console writing to out. Colour follows fatih/color's
// terminal detection; set color.NoColor to force plain text.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
}

// Loaded prints the successful load line for path
func (c *Console) Loaded(path string) {
	fmt.Fprintf(c.out, "Successfully loaded %s\n", path)
}

// Missing prints the missing file line for path
func (c *Console) Missing(path string) {
	c.failure.Fprintf(c.out, "Error: The file '%s' was not found. Please check the file path.\n", path)
}

// Report prints every analysis section of r followed by the completion line
func (c *Console) Report(r *domain.Report) {
	c.Clean(r.Clean)
	c.Features(r.Clean.Features)
	c.Vigilance(r.Vigilance)
	c.Habits(r.Habits)
	c.Avoidance(r.Avoidance)
	c.TTest(r.TTest)
	c.section("Analysis Complete")
}

// Clean prints the cleaning section
func (c *Console) Clean(cr domain.CleanReport) {
	c.section("Cleaning and Preparing dataset1")
	fmt.Fprintf(c.out, "Data cleaned. %d rows with invalid dates removed.\n", cr.RemovedRows)
}

// Features prints the feature engineering section
func (c *Console) Features(features []string) {
	c.section("Engineering New Features")
	for _, f := range features {
		fmt.Fprintf(c.out, "New feature '%s' created.\n", f)
	}
}

// Vigilance prints the risk group summary of time to approach food
func (c *Console) Vigilance(stats []domain.GroupStats) {
	c.section("EDA 1: Analyzing Bat Vigilance vs. Risk")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Statistical Summary of Time to Approach Food (seconds):")

	tw := c.table()
	fmt.Fprintln(tw, "risk\tmean\tmedian\tstd")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Group,
			formatFixed(s.Mean, 6), formatFixed(s.Median, 6), formatFixed(s.Std, 6))
	}
	tw.Flush()
}

// Habits prints the habit by risk frequency table
func (c *Console) Habits(h domain.HabitTable) {
	c.section("EDA 2: Analyzing Habit Frequencies by Risk Group")

	tw := c.table()
	fmt.Fprintf(tw, "habit\t%s\n", strings.Join(h.Groups, "\t"))
	for _, r := range h.Rows {
		counts := make([]string, len(r.Counts))
		for i, n := range r.Counts {
			counts[i] = formatInt(n)
		}
		fmt.Fprintf(tw, "%s\t%s\n", r.Habit, strings.Join(counts, "\t"))
	}
	tw.Flush()
}

// Avoidance prints mean bat landings per rat presence group
func (c *Console) Avoidance(stats []domain.GroupStats) {
	c.section("EDA 3: Analyzing Colony-Wide Avoidance")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Average Bat Landings per 30-min Interval:")

	tw := c.table()
	fmt.Fprintln(tw, "rat_presence\tbat_landing_number")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\n", s.Group, formatFixed(s.Mean, 6))
	}
	tw.Flush()
}

// TTest prints the hypothesis test and its coloured conclusion
func (c *Console) TTest(r domain.TTestResult) {
	c.section("Hypothesis Test: Validating Vigilance Findings")
	tstat := "nan"
	if !r.T.IsNaN() {
		tstat = formatFixed(r.T, 4)
	}
	fmt.Fprintf(c.out, "T-statistic: %s\n", tstat)
	fmt.Fprintf(c.out, "P-value: %s\n", formatP(r.P))

	verdict := c.failure
	if r.Significant {
		verdict = c.success
	}
	fmt.Fprint(c.out, "Conclusion: ")
	verdict.Fprintln(c.out, r.Conclusion())
}

func (c *Console) section(title string) {
	fmt.Fprintln(c.out)
	c.header.Fprintf(c.out, "--- %s ---\n", title)
}

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

// formatP prints p in shortest round-trip form
func formatP(p domain.Number) string {
	f := p.Float()
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
