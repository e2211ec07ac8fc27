package plot

import (
	plt "github.com/phil-mansfield/pyplot"
)

// pyplotStyle maps a series to a matplotlib format string.
func pyplotStyle(s Series) string {
	if s.Dashed {
		return "--"
	}
	return "-"
}

// ShowPyplot opens an interactive matplotlib window with the figure. It
// needs python with matplotlib on PATH and blocks until the window closes.
func ShowPyplot(f *Figure) {
	plt.Reset()
	plt.Figure(plt.Num(0), plt.FigSize(10, 6))
	plt.Title(f.Title + "  [log10 a vs log10 t]")

	plt.Plot(f.Curve.X, f.Curve.Y, pyplotStyle(f.Curve), plt.Label(f.Curve.Name), plt.LW(3), plt.C(f.Curve.Color))
	for _, g := range f.Guides {
		plt.Plot(g.X, g.Y, pyplotStyle(g), plt.Label(g.Name), plt.LW(1.5), plt.C(g.Color))
	}
	for _, m := range f.Markers {
		plt.Plot([]float64{m.X}, []float64{m.Y}, "o", plt.Label(m.Label), plt.C(m.Color))
	}

	plt.Legend(plt.Loc("lower right"), plt.FrameOn(false))
	plt.Show()
}
