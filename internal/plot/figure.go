package plot

import (
	"errors"
	"fmt"
	"math"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/ui"
)

// ErrEmptySolution is returned for a solution with fewer than two samples.
var ErrEmptySolution = errors.New("plot: solution has fewer than two samples")

// yMargin is the margin, in decades, added above and below the curve.
const yMargin = 0.25

// Series is a polyline in log10 coordinates.
type Series struct {
	Name   string
	X, Y   []float64
	Color  string // "#rrggbb"
	Dashed bool
}

// Len returns the number of vertices.
func (s Series) Len() int { return len(s.X) }

// Marker is a labelled point in log10 coordinates.
type Marker struct {
	Label string
	X, Y  float64
	Color string
}

// Range is a closed interval of log10 values.
type Range struct {
	Min, Max float64
}

// Span returns Max − Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Figure is a log-log diagram of a(t). All coordinates are log10 values.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	// Origin is subtracted from t before taking the logarithm: TBang when
	// the model has a Big Bang, just before the first sample otherwise.
	Origin  float64
	Curve   Series
	Guides  []Series
	Markers []Marker
	X, Y    Range
}

// NewFigure builds the diagram of sol. The x axis is cosmic time t − t_bang
// when the history starts with a Big Bang, otherwise time since the first
// sample. Guides are clipped to the extent of the curve.
func NewFigure(sol *cosmo.Solution) (*Figure, error) {
	if sol == nil || len(sol.Points) < 2 {
		return nil, ErrEmptySolution
	}
	f := &Figure{
		Title:  fmt.Sprintf("%s  (ΩR=%.3g ΩM=%.3g ΩΛ=%.3g ΩK=%.3g)", sol.Model.Name, sol.Model.OmegaR, sol.Model.OmegaM, sol.Model.OmegaL, sol.Model.OmegaK()),
		YLabel: "scale factor a",
	}
	if sol.HasBigBang() {
		f.Origin = sol.TBang
		f.XLabel = "cosmic time t − t_bang [1/H0]"
	} else {
		first := sol.Points[0].T
		f.Origin = first - (sol.Points[1].T - first)
		f.XLabel = "time since a = a_min [1/H0]"
	}

	f.Curve = f.series("a(t)", sol.Points, ui.CurveHex, false)
	if f.Curve.Len() < 2 {
		return nil, ErrEmptySolution
	}
	f.X = extent(f.Curve.X)
	f.Y = extent(f.Curve.Y)
	f.Y.Min -= yMargin
	f.Y.Max += yMargin

	for _, g := range sol.Guides {
		name := fmt.Sprintf("%s a∝t^%.3g", g.Component, g.Exponent)
		if g.Exponential {
			name = fmt.Sprintf("%s a∝exp(t)", g.Component)
		}
		s := f.clip(f.series(name, g.Points, ui.ComponentHex[g.Component], true))
		if s.Len() >= 2 {
			f.Guides = append(f.Guides, s)
		}
	}

	for _, eq := range sol.Equalities {
		if !eq.Reached {
			continue
		}
		x, ok := f.logTime(eq.T)
		if !ok {
			continue
		}
		f.Markers = append(f.Markers, Marker{
			Label: fmt.Sprintf("%s=%s", eq.First.Symbol(), eq.Second.Symbol()),
			X:     x,
			Y:     math.Log10(eq.A),
			Color: ui.ComponentHex[eq.First],
		})
	}
	if x, ok := f.logTime(0); ok {
		f.Markers = append(f.Markers, Marker{Label: "today", X: x, Y: 0, Color: ui.CurveHex})
	}
	return f, nil
}

func (f *Figure) logTime(t float64) (float64, bool) {
	d := t - f.Origin
	if !(d > 0) || math.IsInf(d, 0) {
		return 0, false
	}
	return math.Log10(d), true
}

func (f *Figure) series(name string, pts []cosmo.Point, color string, dashed bool) Series {
	s := Series{Name: name, Color: color, Dashed: dashed}
	s.X = make([]float64, 0, len(pts))
	s.Y = make([]float64, 0, len(pts))
	for _, p := range pts {
		x, ok := f.logTime(p.T)
		if !ok || !(p.A > 0) {
			continue
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, math.Log10(p.A))
	}
	return s
}

// clip drops the vertices outside the figure's ranges.
func (f *Figure) clip(s Series) Series {
	out := Series{Name: s.Name, Color: s.Color, Dashed: s.Dashed}
	for i := range s.X {
		if f.X.Contains(s.X[i]) && f.Y.Contains(s.Y[i]) {
			out.X = append(out.X, s.X[i])
			out.Y = append(out.Y, s.Y[i])
		}
	}
	return out
}

func extent(v []float64) Range {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, x := range v {
		r.Min = math.Min(r.Min, x)
		r.Max = math.Max(r.Max, x)
	}
	if r.Span() == 0 {
		r.Min -= 0.5
		r.Max += 0.5
	}
	return r
}

// DecadeTicks returns the integer exponents within r, thinned so that at
// most maxTicks remain.
func DecadeTicks(r Range, maxTicks int) []float64 {
	lo, hi := math.Ceil(r.Min), math.Floor(r.Max)
	if hi < lo {
		return []float64{math.Round((r.Min + r.Max) / 2)}
	}
	step := 1.0
	if maxTicks > 0 {
		for (hi-lo)/step+1 > float64(maxTicks) {
			step++
		}
	}
	var ticks []float64
	for v := lo; v <= hi; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

// Resample evaluates s at n evenly spaced x values across r by linear
// interpolation. Columns outside the series are NaN. The series must have
// increasing X, or be the curve of a recollapsing history whose X is still
// increasing in cosmic time.
func Resample(s Series, r Range, n int) []float64 {
	out := make([]float64, n)
	j := 0
	for i := range out {
		x := r.Min
		if n > 1 {
			x += r.Span() * float64(i) / float64(n-1)
		}
		for j+1 < s.Len() && s.X[j+1] < x {
			j++
		}
		switch {
		case s.Len() == 0 || x < s.X[0] || x > s.X[s.Len()-1]:
			out[i] = math.NaN()
		case j+1 >= s.Len():
			out[i] = s.Y[s.Len()-1]
		default:
			x0, x1 := s.X[j], s.X[j+1]
			if x1 == x0 {
				out[i] = s.Y[j]
				continue
			}
			w := (x - x0) / (x1 - x0)
			out[i] = s.Y[j] + w*(s.Y[j+1]-s.Y[j])
		}
	}
	return out
}
