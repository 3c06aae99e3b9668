// Command agreement-plot renders a grouped bar chart PNG from an agreement
// report JSON file (as served by /api/agreement or written by the CLI).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/manip-survey-data/agreement.report/internal/agreement"
)

func main() {
	input := flag.String("i", "report.json", "agreement report JSON file")
	output := flag.String("o", "agreement.png", "output PNG path")
	flag.Parse()

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read report: %v", err)
	}
	var report agreement.Report
	if err := json.Unmarshal(data, &report); err != nil {
		log.Fatalf("failed to parse report: %v", err)
	}

	if err := renderBars(&report, *output); err != nil {
		log.Fatalf("failed to render plot: %v", err)
	}
	log.Printf("✓ Created: %s", *output)
}

// renderBars draws one bar group per scope with a bar per coefficient kind.
// Undefined coefficients plot as zero-height bars; the JSON stays the source
// of truth for which scopes were actually computable.
func renderBars(report *agreement.Report, path string) error {
	scopes := make([]string, 0, len(report.Coefficients[agreement.KindKrippendorff]))
	for scope := range report.Coefficients[agreement.KindKrippendorff] {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	if len(scopes) == 0 {
		return fmt.Errorf("report has no scopes to plot")
	}

	p := plot.New()
	p.Title.Text = "Inter-Annotator Agreement"
	p.Y.Label.Text = "coefficient"
	p.Y.Min = -1
	p.Y.Max = 1
	p.NominalX(scopes...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.4

	kinds := []agreement.CoefficientKind{
		agreement.KindKrippendorff, agreement.KindGwetAC1, agreement.KindMASI,
	}
	barWidth := vg.Points(8)
	for i, kind := range kinds {
		values := make(plotter.Values, len(scopes))
		for j, scope := range scopes {
			if res := report.Coefficients[kind][scope]; res.Value != nil {
				values[j] = *res.Value
			}
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build %s bars: %w", kind, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Points(float64(i-1) * 9)
		p.Add(bars)
		p.Legend.Add(string(kind), bars)
	}
	p.Legend.Top = true

	width := vg.Length(len(scopes)) * vg.Inch * 0.8
	if width < 6*vg.Inch {
		width = 6 * vg.Inch
	}
	return p.Save(width, 5*vg.Inch, path)
}
