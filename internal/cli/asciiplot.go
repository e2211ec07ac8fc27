package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/plot"
	"github.com/agbru/friedmann/internal/ui"
)

const (
	// DefaultPlotHeight is the number of rows of the ASCII plot.
	DefaultPlotHeight = 18
	// minPlotColumns is the narrowest plot that is still readable.
	minPlotColumns = 30
	// plotMargin is the width taken by the y labels and the axis.
	plotMargin = 10
)

// ansiColors maps the raster colors of the figure to the 256-color palette
// used by the dark theme.
var ansiColors = map[string]asciigraph.AnsiColor{
	ui.CurveHex:        asciigraph.DodgerBlue,
	ui.ComponentHex[0]: asciigraph.DarkOrange,
	ui.ComponentHex[1]: asciigraph.AnsiColor(75),
	ui.ComponentHex[2]: asciigraph.AnsiColor(114),
	ui.ComponentHex[3]: asciigraph.AnsiColor(177),
}

// FormatASCIIPlot draws the figure with asciigraph. Both axes are log10
// values; the curve and the guides are resampled onto the plot columns and
// every marker becomes a one-column series. width is the terminal width.
func FormatASCIIPlot(fig *plot.Figure, width, height int) string {
	cols := max(width-plotMargin, minPlotColumns)
	if height <= 0 {
		height = DefaultPlotHeight
	}

	all := append([]plot.Series{fig.Curve}, fig.Guides...)
	data := make([][]float64, 0, len(all)+len(fig.Markers))
	colors := make([]asciigraph.AnsiColor, 0, cap(data))
	legends := make([]string, 0, len(all))
	for _, s := range all {
		data = append(data, plot.Resample(s, fig.X, cols))
		colors = append(colors, ansiColors[s.Color])
		legends = append(legends, s.Name)
	}
	for _, m := range fig.Markers {
		col := int(math.Round((m.X - fig.X.Min) / fig.X.Span() * float64(cols-1)))
		if col < 0 || col >= cols {
			continue
		}
		row := nanSeries(cols)
		row[col] = m.Y
		data = append(data, row)
		colors = append(colors, ansiColors[m.Color])
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.LowerBound(fig.Y.Min),
		asciigraph.UpperBound(fig.Y.Max),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("log10 a  vs  log10 t from %s to %s  (%s)",
			format.FormatFloat(fig.X.Min, 3), format.FormatFloat(fig.X.Max, 3), fig.XLabel)),
	}
	colored := ui.GetCurrentTheme().Name != ui.NoColorTheme.Name
	if colored {
		opts = append(opts, asciigraph.SeriesColors(colors...), asciigraph.SeriesLegends(legends...))
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(data, opts...))
	b.WriteString("\n")
	if !colored {
		b.WriteString("\nSeries: " + strings.Join(legends, ", ") + "\n")
	}
	for _, m := range fig.Markers {
		fmt.Fprintf(&b, "  ╴ %-8s time axis %s, a = %s\n", m.Label,
			format.FormatFloat(math.Pow(10, m.X), 4), format.FormatFloat(math.Pow(10, m.Y), 4))
	}
	return b.String()
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// DisplayASCIIPlot prints the log-log plot of sol sized to the terminal.
func DisplayASCIIPlot(out io.Writer, sol *cosmo.Solution) error {
	fig, err := plot.NewFigure(sol)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold(), fig.Title, ui.ColorReset())
	fmt.Fprint(out, FormatASCIIPlot(fig, TerminalWidth(out), DefaultPlotHeight))
	return nil
}
