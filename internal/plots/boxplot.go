// Package plots renders the analysis box plots as PNG with gonum/plot.
package plots

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"batcli/internal/analytics"
	"batcli/internal/config"
	"batcli/internal/dataset"
)

// Plot names accepted by Spec
const (
	Vigilance = "vigilance"
	Avoidance = "avoidance"
)

// Names lists the available plots in output order
var Names = []string{Vigilance, Avoidance}

// BoxSpec describes one box plot of a measure split by group
type BoxSpec struct {
	Name     string
	Title    string
	XLabel   string
	YLabel   string
	Groups   []analytics.Group
	WidthIn  float64
	HeightIn float64
}

// VigilanceSpec plots time to approach food by risk behavior
func VigilanceSpec(landings dataframe.DataFrame) (BoxSpec, error) {
	groups, err := analytics.GroupValues(landings, dataset.ColRisk, dataset.ColBatLandingToFood)
	if err != nil {
		return BoxSpec{}, fmt.Errorf("vigilance plot: %w", err)
	}
	return BoxSpec{
		Name:     Vigilance,
		Title:    "Bat Vigilance: Time to Approach Food by Risk Behavior",
		XLabel:   "Risk Behavior (0 = Avoidance, 1 = Taking)",
		YLabel:   "Time from Landing to Food (seconds)",
		Groups:   groups,
		WidthIn:  10,
		HeightIn: 7,
	}, nil
}

// AvoidanceSpec plots bat landings per interval by rat presence. The
// interval frame must carry the rat_presence label.
func AvoidanceSpec(intervals dataframe.DataFrame) (BoxSpec, error) {
	groups, err := analytics.GroupValues(intervals, dataset.ColRatPresence, dataset.ColBatLandingNumber)
	if err != nil {
		return BoxSpec{}, fmt.Errorf("avoidance plot: %w", err)
	}
	return BoxSpec{
		Name:     Avoidance,
		Title:    "Colony-Wide Avoidance: Bat Landings vs. Rat Presence",
		XLabel:   "Rat Presence in Interval",
		YLabel:   "Number of Bat Landings",
		Groups:   groups,
		WidthIn:  10,
		HeightIn: 7,
	}, nil
}

// FileName returns the PNG file name for the spec
func (s BoxSpec) FileName() string {
	switch s.Name {
	case Vigilance:
		return config.VigilancePlotFile
	case Avoidance:
		return config.AvoidancePlotFile
	default:
		return s.Name + "_boxplot.png"
	}
}

// Build assembles the plot. Groups without values are left out; when no
// group has values the axes are drawn empty.
func (s BoxSpec) Build() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = s.XLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = s.YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Add(plotter.NewGrid())

	var names []string
	for _, g := range s.Groups {
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(60), float64(len(names)), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("box %q: %w", g.Key, err)
		}
		box.FillColor = plotutil.Color(len(names))
		p.Add(box)
		names = append(names, g.Key)
	}
	if len(names) == 0 {
		// no values in any group: titled, labelled axes without boxes
		for _, g := range s.Groups {
			names = append(names, g.Key)
		}
		if len(names) == 0 {
			return p, nil
		}
		p.X.Min, p.X.Max = -0.5, float64(len(names))-0.5
	}
	p.NominalX(names...)
	return p, nil
}

// Render writes the plot as PNG to w
func Render(s BoxSpec, w io.Writer) error {
	p, err := s.Build()
	if err != nil {
		return err
	}

	width, height := s.WidthIn, s.HeightIn
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 7
	}

	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render %s plot: %w", s.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s plot: %w", s.Name, err)
	}
	return nil
}

// Save renders the plot into dir and returns the file path
func Save(s BoxSpec, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create plot dir: %w", err)
	}

	path := filepath.Join(dir, s.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create plot file: %w", err)
	}
	if err := Render(s, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close plot file: %w", err)
	}
	return path, nil
}

// SaveAll saves each spec into dir, returning the written paths in order
func SaveAll(dir string, specs ...BoxSpec) ([]string, error) {
	paths := make([]string, 0, len(specs))
	for _, s := range specs {
		path, err := Save(s, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
