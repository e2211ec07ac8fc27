// Package calibration runs step-size convergence studies of the Euler
// integrator and caches their outcome per model.
package calibration

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/orchestration"
)

// Study defaults.
const (
	DefaultStart     = 0.1
	DefaultMin       = 1e-5
	DefaultTolerance = 1e-3
)

// Quantities tracked by a study.
const (
	QuantityAge = "age"
	// QuantityScale is a(t) one Hubble time after today, used for histories
	// without a Big Bang.
	QuantityScale = "a(t0+1/H0)"
)

// ErrNoQuantity is returned when a solution has no sample to measure.
var ErrNoQuantity = errors.New("calibration: solution has no measurable quantity")

// Options configures a study.
type Options struct {
	// Start is the coarsest ε tried.
	Start float64
	// Min is the finest ε tried.
	Min float64
	// Tolerance is the relative change between consecutive halvings below
	// which the study stops.
	Tolerance float64
	// Base holds the integrator settings other than ε.
	Base cosmo.Options
	// Solver integrates each step of the ladder. Nil means the Euler
	// integrator.
	Solver orchestration.Solver
	// OnStep is called after every solve.
	OnStep func(Step)
}

// DefaultOptions returns the study defaults around base.
func DefaultOptions(base cosmo.Options) Options {
	return Options{Start: DefaultStart, Min: DefaultMin, Tolerance: DefaultTolerance, Base: base}
}

// Step is one row of a study.
type Step struct {
	Epsilon float64
	Value   float64
	// Change is the relative change from the previous row, NaN for the
	// first one.
	Change   float64
	Steps    int
	Duration time.Duration
}

// Result is the outcome of a study.
type Result struct {
	Model     cosmo.Model
	Quantity  string
	Steps     []Step
	Epsilon   float64
	Converged bool
	Tolerance float64
	Duration  time.Duration
}

// Calibrate halves ε from opts.Start until the tracked quantity changes by
// less than opts.Tolerance between two halvings, or ε drops below opts.Min.
// The recommended ε is the finer of the last pair. Without convergence it is
// the finest ε tried.
func Calibrate(ctx context.Context, m cosmo.Model, opts Options) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	solver := opts.Solver
	if solver == nil {
		solver = orchestration.DefaultSolver
	}
	res := &Result{Model: m, Tolerance: opts.Tolerance}
	begin := time.Now()
	defer func() { res.Duration = time.Since(begin) }()

	prev := math.NaN()
	for _, eps := range EpsilonLadder(opts.Start, opts.Min) {
		o := opts.Base
		o.Epsilon = eps
		start := time.Now()
		sol, err := solver.Solve(ctx, m, o, nil)
		if err != nil {
			return res, err
		}
		quantity, value, err := measure(sol)
		if err != nil {
			return res, err
		}
		res.Quantity = quantity
		step := Step{
			Epsilon:  eps,
			Value:    value,
			Change:   math.Abs(value-prev) / math.Abs(prev),
			Steps:    sol.Steps.Total(),
			Duration: time.Since(start),
		}
		res.Steps = append(res.Steps, step)
		res.Epsilon = eps
		if opts.OnStep != nil {
			opts.OnStep(step)
		}
		if step.Change < opts.Tolerance {
			res.Converged = true
			break
		}
		prev = value
	}
	return res, nil
}

// measure returns the age of a Big Bang history and a(t0+1/H0) otherwise.
func measure(sol *cosmo.Solution) (string, float64, error) {
	if sol.HasBigBang() {
		return QuantityAge, sol.Age, nil
	}
	a, ok := scaleFactorAt(sol.Points, 1)
	if !ok {
		return "", 0, ErrNoQuantity
	}
	return QuantityScale, a, nil
}

// scaleFactorAt interpolates a linearly at time t, clamping t to the
// sampled interval.
func scaleFactorAt(pts []cosmo.Point, t float64) (float64, bool) {
	if len(pts) == 0 {
		return 0, false
	}
	t = math.Min(t, pts[len(pts)-1].T)
	i := sort.Search(len(pts), func(i int) bool { return pts[i].T >= t })
	switch {
	case i == 0:
		return pts[0].A, true
	case pts[i].T == pts[i-1].T:
		return pts[i].A, true
	}
	w := (t - pts[i-1].T) / (pts[i].T - pts[i-1].T)
	return pts[i-1].A + w*(pts[i].A-pts[i-1].A), true
}
