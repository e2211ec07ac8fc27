package cosmo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultGuideSamples is the number of samples of each guide line.
const DefaultGuideSamples = 64

// Guide is a reference line drawn next to the solution. For a power law
// a ∝ t^Exponent the times are cosmic times shifted back by TBang so that
// guides share the solution's time axis.
type Guide struct {
	Component Component `json:"component"`
	// Exponent is p in a ∝ t^p; zero for an exponential guide.
	Exponent    float64 `json:"exponent"`
	Exponential bool    `json:"exponential"`
	Points      []Point `json:"points"`
}

// Guides returns a reference line for every component with a positive
// density. A component with exponent n > 0 gets its single-component
// solution
//
//	a(τ) = (n/2 · sqrt(Ω) · τ)^(2/n),  τ = t − t_bang
//
// which the solution follows while that component dominates. Dark energy with
// n = 0 gets a = a_end · exp(sqrt(ΩΛ) (t − t_end)) anchored at the last
// sample of the expanding branch. Phantom dark energy (n < 0) has no guide.
func Guides(sol *Solution, samples int) []Guide {
	branch := sol.Expanding()
	if len(branch) < 2 || samples < 2 {
		return nil
	}
	first, last := branch[0], branch[len(branch)-1]
	m := sol.Model

	var out []Guide
	for _, c := range Components {
		omega := m.Omega(c)
		if omega <= 0 {
			continue
		}
		n := m.Exponent(c)
		switch {
		case n > 0 && sol.HasBigBang():
			lo, hi := first.T-sol.TBang, last.T-sol.TBang
			if !(lo > 0 && hi > lo) {
				continue
			}
			taus := floats.LogSpan(make([]float64, samples), lo, hi)
			pts := make([]Point, samples)
			coef := n / 2 * math.Sqrt(omega)
			for i, tau := range taus {
				pts[i] = Point{T: tau + sol.TBang, A: math.Pow(coef*tau, 2/n), H: 2 / (n * tau)}
			}
			out = append(out, Guide{Component: c, Exponent: 2 / n, Points: pts})
		case n == 0:
			ts := floats.Span(make([]float64, samples), first.T, last.T)
			h := math.Sqrt(omega)
			pts := make([]Point, samples)
			for i, t := range ts {
				pts[i] = Point{T: t, A: last.A * math.Exp(h*(t-last.T)), H: h}
			}
			out = append(out, Guide{Component: c, Exponential: true, Points: pts})
		}
	}
	return out
}
