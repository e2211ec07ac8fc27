package plot

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/agbru/friedmann/internal/format"
)

// Default PNG size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

const maxAxisTicks = 12

// Size is a raster size in pixels. Zero fields take the defaults.
type Size struct {
	Width, Height int
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Chart converts the figure into a go-chart chart with power-of-ten tick
// labels.
func (f *Figure) Chart(size Size) chart.Chart {
	size = size.orDefault()

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    f.Curve.Name,
			XValues: f.Curve.X,
			YValues: f.Curve.Y,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(f.Curve.Color),
				StrokeWidth: 2.5,
			},
		},
	}
	for _, g := range f.Guides {
		series = append(series, chart.ContinuousSeries{
			Name:    g.Name,
			XValues: g.X,
			YValues: g.Y,
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex(g.Color),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
		})
	}
	if len(f.Markers) > 0 {
		annotations := make([]chart.Value2, len(f.Markers))
		for i, m := range f.Markers {
			annotations[i] = chart.Value2{XValue: m.X, YValue: m.Y, Label: m.Label}
			series = append(series, chart.ContinuousSeries{
				Name:    m.Label,
				XValues: []float64{m.X},
				YValues: []float64{m.Y},
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    drawing.ColorFromHex(m.Color),
				},
			})
		}
		series = append(series, chart.AnnotationSeries{Annotations: annotations})
	}

	graph := chart.Chart{
		Title:  f.Title,
		Width:  size.Width,
		Height: size.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  f.XLabel,
			Range: &chart.ContinuousRange{Min: f.X.Min, Max: f.X.Max},
			Ticks: decadeTicks(f.X, maxAxisTicks),
		},
		YAxis: chart.YAxis{
			Name:  f.YLabel,
			Range: &chart.ContinuousRange{Min: f.Y.Min, Max: f.Y.Max},
			Ticks: decadeTicks(f.Y, maxAxisTicks),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	return graph
}

func decadeTicks(r Range, maxTicks int) []chart.Tick {
	exps := DecadeTicks(r, maxTicks)
	ticks := make([]chart.Tick, len(exps))
	for i, e := range exps {
		ticks[i] = chart.Tick{Value: e, Label: format.FormatPowerOfTen(e)}
	}
	return ticks
}

// RenderPNG writes the figure as a PNG image.
func RenderPNG(w io.Writer, f *Figure, size Size) error {
	graph := f.Chart(size)
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering png: %w", err)
	}
	return nil
}

// WritePNGFile renders the figure to path.
func WritePNGFile(path string, f *Figure, size Size) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderPNG(file, f, size)
}
