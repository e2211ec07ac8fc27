package cosmo

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/friedmann/internal/errors"
)

// Direction is the sign of the time step of a walk.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// walk is the output of one direction of the integrator. points[0] is the
// present (t = 0, a = 1) and times move away from it monotonically.
type walk struct {
	points    []Point
	event     *Event
	steps     int
	truncated bool
	// reachedLimit is set when the walk ended on AMin (backward) or on
	// AMax/TMax (forward).
	reachedLimit bool
}

// Integrate solves the Friedmann equation for m. It walks forward and backward
// from the present concurrently, merges both walks into one series with
// strictly increasing time, completes turnaround and bounce histories by
// reflection when opts.Mirror is set, extrapolates the Big Bang time and
// attaches equality points and guide lines.
//
// report, when non-nil, receives the combined progress of both walks.
func Integrate(ctx context.Context, m Model, opts Options, report ProgressFunc) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracker := newProgressTracker(report)
	var fwd, bwd walk
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fwd, err = m.walk(gctx, Forward, opts, tracker)
		return err
	})
	g.Go(func() error {
		var err error
		bwd, err = m.walk(gctx, Backward, opts, tracker)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tracker.done()

	return assemble(m, opts, fwd, bwd), nil
}

// walk steps a from 1 in direction dir with dt = min(ε/H(a), MaxStep), which
// changes a by at most a fraction ε per step.
func (m Model) walk(ctx context.Context, dir Direction, opts Options, tracker *progressTracker) (walk, error) {
	t, a := 0.0, 1.0
	w := walk{points: make([]Point, 0, estimateSteps(dir, opts))}
	w.points = append(w.points, Point{T: t, A: a, H: m.Hubble(a)})

	for {
		if w.steps%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return w, apperrors.IntegrationError{Direction: dir.String(), Step: w.steps, T: t, A: a, Cause: err}
			}
		}
		if w.steps >= opts.MaxSteps {
			w.truncated = true
			break
		}

		h := m.Hubble(a)
		if h == 0 {
			w.event = &Event{T: t, A: a}
			break
		}
		dt := math.Min(opts.Epsilon/h, opts.MaxStep)
		aNext := a + m.Derivative(a, dir)*dt
		tNext := t + float64(dir)*dt
		if math.IsNaN(aNext) || math.IsInf(aNext, 0) || math.IsNaN(tNext) || math.IsInf(tNext, 0) {
			return w, apperrors.IntegrationError{Direction: dir.String(), Step: w.steps, T: t, A: a, Cause: ErrNonFinite}
		}
		if m.E(aNext) <= 0 {
			ev := m.locateEvent(t, a, aNext, h, dir)
			if ev.T != t {
				w.points = append(w.points, Point{T: ev.T, A: ev.A})
			}
			w.event = &ev
			break
		}

		t, a = tNext, aNext
		w.steps++
		w.points = append(w.points, Point{T: t, A: a, H: m.Hubble(a)})

		if dir == Forward {
			tracker.set(dir, math.Max(t/opts.TMax, math.Log(a)/math.Log(opts.AMax)))
			if t >= opts.TMax || a >= opts.AMax {
				w.reachedLimit = true
				break
			}
		} else {
			tracker.set(dir, math.Log(a)/math.Log(opts.AMin))
			if a <= opts.AMin {
				w.reachedLimit = true
				break
			}
		}
	}
	return w, nil
}

// locateEvent finds the scale factor where E vanishes between a (E > 0) and
// aNext (E ≤ 0) by bisection. Near a simple root ȧ ∝ sqrt(a* − a), so the
// remaining time is 2(a* − a)/ȧ rather than (a* − a)/ȧ.
func (m Model) locateEvent(t, a, aNext, h float64, dir Direction) Event {
	lo, hi := a, aNext
	for i := 0; i < eventBisections; i++ {
		mid := (lo + hi) / 2
		if m.E(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	te := t + float64(dir)*2*math.Abs(lo-a)/(a*h)
	if float64(dir)*(te-t) <= 0 {
		return Event{T: t, A: a}
	}
	return Event{T: te, A: lo}
}

func estimateSteps(dir Direction, opts Options) int {
	limit := opts.AMax
	if dir == Backward {
		limit = 1 / opts.AMin
	}
	n := int(math.Log(limit)/opts.Epsilon) + 16
	if n > opts.MaxSteps {
		n = opts.MaxSteps + 1
	}
	return n
}

// assemble merges both walks and derives everything that depends on the
// whole history.
func assemble(m Model, opts Options, fwd, bwd walk) *Solution {
	points := make([]Point, 0, len(fwd.points)+len(bwd.points))
	for i := len(bwd.points) - 1; i >= 1; i-- {
		points = append(points, bwd.points[i])
	}
	points = append(points, fwd.points...)

	sol := &Solution{
		Model:     m,
		Options:   opts,
		TBang:     math.Inf(-1),
		Steps:     Steps{Forward: fwd.steps, Backward: bwd.steps},
		Truncated: fwd.truncated || bwd.truncated,
	}

	if bwd.reachedLimit && bwd.event == nil {
		first := points[0]
		if n := m.Exponent(m.Dominant(first.A)); n > 0 {
			sol.TBang = first.T - (2/n)/m.Hubble(first.A)
		}
	}
	sol.Age = -sol.TBang

	if fwd.event != nil {
		ev := *fwd.event
		ev.Kind = Turnaround
		sol.Turnaround = &ev
		if opts.Mirror {
			points = mirrorAfter(points, ev.T, opts.TMax)
		}
	}
	if bwd.event != nil {
		ev := *bwd.event
		ev.Kind = Bounce
		sol.Bounce = &ev
		if opts.Mirror {
			points = mirrorBefore(points, ev.T, opts.TMax)
		}
	}
	sol.Points = points

	sol.Equalities = EqualityPoints(m)
	for i := range sol.Equalities {
		if t, err := sol.TimeAt(sol.Equalities[i].A); err == nil {
			sol.Equalities[i].T = t
			sol.Equalities[i].Reached = true
		} else {
			sol.Equalities[i].T = math.NaN()
		}
	}
	sol.Guides = Guides(sol, DefaultGuideSamples)
	return sol
}

// mirrorAfter appends the reflection a(tₑ+τ) = a(tₑ−τ) of every sample before
// the turnaround at tₑ, which must be the last sample. The Friedmann equation
// only involves ȧ², so the reflected branch is an exact solution.
func mirrorAfter(points []Point, te, tMax float64) []Point {
	n := len(points)
	for k := n - 2; k >= 0; k-- {
		p := points[k]
		t := 2*te - p.T
		if t > tMax {
			break
		}
		points = append(points, Point{T: t, A: p.A, H: -p.H})
	}
	return points
}

// mirrorBefore prepends the reflection of every sample after the bounce at
// tₑ, which must be the first sample.
func mirrorBefore(points []Point, te, tMax float64) []Point {
	mirrored := make([]Point, 0, len(points)-1)
	for k := len(points) - 1; k >= 1; k-- {
		p := points[k]
		t := 2*te - p.T
		if t < -tMax {
			continue
		}
		mirrored = append(mirrored, Point{T: t, A: p.A, H: -p.H})
	}
	return append(mirrored, points...)
}
