package cosmo

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Point is one sample of the solution. H is the signed expansion rate ȧ/a in
// units of H0; it is negative on a collapsing branch and zero at an event.
type Point struct {
	T float64 `json:"t"`
	A float64 `json:"a"`
	H float64 `json:"h"`
}

// EventKind distinguishes the two ways E(a) can vanish.
type EventKind int

const (
	// Turnaround is a maximum of a reached by the forward walk.
	Turnaround EventKind = iota
	// Bounce is a minimum of a reached by the backward walk.
	Bounce
)

func (k EventKind) String() string {
	if k == Bounce {
		return "bounce"
	}
	return "turnaround"
}

// Event is a turnaround or a bounce.
type Event struct {
	Kind EventKind `json:"-"`
	T    float64   `json:"t"`
	A    float64   `json:"a"`
}

// Steps counts the Euler steps of each walk.
type Steps struct {
	Forward  int `json:"forward"`
	Backward int `json:"backward"`
}

// Total returns the number of steps of both walks.
func (s Steps) Total() int { return s.Forward + s.Backward }

// Solution is the merged time series of both walks and everything derived
// from it.
type Solution struct {
	Model   Model
	Options Options
	// Points is ordered by strictly increasing T and contains (0, 1) once.
	Points []Point
	// TBang is the extrapolated time at which a → 0, or −Inf when the history
	// has no Big Bang.
	TBang float64
	// Age is −TBang.
	Age        float64
	Turnaround *Event
	Bounce     *Event
	Equalities []Equality
	Guides     []Guide
	Steps      Steps
	// Truncated is set when a walk stopped on Options.MaxSteps.
	Truncated bool
}

// HasBigBang reports whether the backward history reaches a = 0.
func (s *Solution) HasBigBang() bool {
	return !math.IsInf(s.TBang, 0) && !math.IsNaN(s.TBang)
}

// AgeGyr returns the age in Gyr for the model's H0, or +Inf.
func (s *Solution) AgeGyr() float64 {
	return s.Age * s.Model.HubbleTimeGyr()
}

// BigCrunch returns the time at which a recollapsing history returns to
// a = 0, which by symmetry is 2 t_turnaround − t_bang.
func (s *Solution) BigCrunch() (float64, bool) {
	if s.Turnaround == nil || !s.HasBigBang() {
		return 0, false
	}
	return 2*s.Turnaround.T - s.TBang, true
}

// CosmicTime returns t − TBang for every point, or nil without a Big Bang.
func (s *Solution) CosmicTime() []float64 {
	if !s.HasBigBang() {
		return nil
	}
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.T - s.TBang
	}
	return out
}

// Present returns the index of the (0, 1) sample.
func (s *Solution) Present() int {
	for i, p := range s.Points {
		if p.T == 0 {
			return i
		}
	}
	return -1
}

// Expanding returns the samples with H > 0, which have strictly increasing a.
func (s *Solution) Expanding() []Point {
	out := make([]Point, 0, len(s.Points))
	for _, p := range s.Points {
		if p.H > 0 {
			out = append(out, p)
		}
	}
	return out
}

// TimeAt returns the time at which the expanding branch reaches a. The branch
// is interpolated piecewise-linearly in ln a against ln(t − TBang) when there
// is a Big Bang, which is exact for a single power law, and against t
// otherwise.
func (s *Solution) TimeAt(a float64) (float64, error) {
	branch := s.Expanding()
	if len(branch) < 2 || !(a > 0) {
		return math.NaN(), ErrOutOfRange
	}
	if a < branch[0].A || a > branch[len(branch)-1].A {
		return math.NaN(), fmt.Errorf("a=%g: %w", a, ErrOutOfRange)
	}

	bang := s.HasBigBang()
	xs := make([]float64, len(branch))
	ys := make([]float64, len(branch))
	for i, p := range branch {
		xs[i] = math.Log(p.A)
		if bang {
			ys[i] = math.Log(p.T - s.TBang)
		} else {
			ys[i] = p.T
		}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return math.NaN(), err
	}
	y := pl.Predict(math.Log(a))
	if bang {
		return s.TBang + math.Exp(y), nil
	}
	return y, nil
}

// Downsample returns at most n points evenly spread over the series. The
// first and last samples are always kept, and the present sample too when
// n ≥ 3. n = 1 keeps the first sample only; n ≤ 0 keeps everything.
func (s *Solution) Downsample(n int) []Point {
	if n <= 0 || len(s.Points) <= n {
		return append([]Point(nil), s.Points...)
	}
	if n == 1 {
		return []Point{s.Points[0]}
	}

	// len(Points) > n, so stride > 1 and the rounded indices are strictly
	// increasing.
	idx := make([]int, n)
	stride := float64(len(s.Points)-1) / float64(n-1)
	for i := range idx {
		idx[i] = int(math.Round(float64(i) * stride))
	}
	if present := s.Present(); n >= 3 && present >= 0 {
		idx = keepIndex(idx, present)
	}

	out := make([]Point, n)
	for i, k := range idx {
		out[i] = s.Points[k]
	}
	return out
}

// keepIndex replaces the interior index of idx nearest to k with k, unless
// k is already present. idx is sorted and starts and ends with the first and
// last sample, so the replacement keeps it sorted.
func keepIndex(idx []int, k int) []int {
	j := sort.SearchInts(idx, k)
	if j < len(idx) && idx[j] == k {
		return idx
	}
	// idx[j-1] < k < idx[j]; pick the nearer neighbour that is not an end.
	repl := j
	if j-1 > 0 && (j == len(idx)-1 || k-idx[j-1] < idx[j]-k) {
		repl = j - 1
	}
	idx[repl] = k
	return idx
}
