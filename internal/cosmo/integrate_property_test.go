package cosmo

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// propertyOpts trades accuracy for speed; the properties below are
// structural and hold for any step size.
func propertyOpts() Options {
	opts := DefaultOptions()
	opts.Epsilon = 1e-2
	return opts
}

// TestIntegrate_SeriesInvariants_PropertyBased checks, for random mixtures,
// that the merged series is strictly ordered in time, contains the present
// exactly once and only holds positive finite scale factors.
func TestIntegrate_SeriesInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("merged series is well-formed", prop.ForAll(
		func(omegaR, omegaM, omegaL float64) bool {
			m := NewModel("random", omegaR, omegaM, omegaL)
			sol, err := Integrate(context.Background(), m, propertyOpts(), nil)
			if err != nil {
				t.Logf("Integrate(%+v): %v", m, err)
				return false
			}
			present := 0
			for i, p := range sol.Points {
				if !(p.A > 0) || math.IsInf(p.A, 0) || math.IsNaN(p.T) {
					return false
				}
				if i > 0 && !(p.T > sol.Points[i-1].T) {
					return false
				}
				if p.T == 0 {
					present++
				}
			}
			return present == 1 &&
				sol.Steps.Forward <= sol.Options.MaxSteps &&
				sol.Steps.Backward <= sol.Options.MaxSteps
		},
		gen.Float64Range(0, 0.01),
		gen.Float64Range(0, 2),
		gen.Float64Range(-0.5, 2),
	))

	properties.TestingRun(t)
}

// TestEqualityPoints_PropertyBased checks that every reported equality is a
// crossing of the two densities.
func TestEqualityPoints_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("densities are equal at a_eq", prop.ForAll(
		func(omegaR, omegaM, omegaL, w float64) bool {
			m := Model{OmegaR: omegaR, OmegaM: omegaM, OmegaL: omegaL, W: w, H0: DefaultH0}
			eqs := EqualityPoints(m)
			for i, eq := range eqs {
				if i > 0 && eqs[i-1].A > eq.A {
					return false
				}
				a, b := m.Density(eq.First, eq.A), m.Density(eq.Second, eq.A)
				if math.Abs(a-b) > 1e-9*math.Max(a, b) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 0.01),
		gen.Float64Range(0, 2),
		gen.Float64Range(0, 2),
		gen.Float64Range(-2, 0),
	))

	properties.TestingRun(t)
}

// TestDerivative_Symmetry_PropertyBased checks that reversing time only
// flips the sign of ȧ, which is what makes mirroring exact.
func TestDerivative_Symmetry_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("da/dt is odd in the direction", prop.ForAll(
		func(omegaM, omegaL, a float64) bool {
			m := NewModel("sym", 0, omegaM, omegaL)
			return m.Derivative(a, Forward) == -m.Derivative(a, Backward) &&
				m.Derivative(a, Forward) >= 0
		},
		gen.Float64Range(0, 2),
		gen.Float64Range(-1, 2),
		gen.Float64Range(1e-4, 1e2),
	))

	properties.TestingRun(t)
}
