package cosmo

import "math"

// Summary is a JSON-safe digest of a Solution: infinities and NaNs become
// nulls.
type Summary struct {
	Model        Model             `json:"model"`
	OmegaK       float64           `json:"omega_k"`
	Geometry     string            `json:"geometry"`
	TBang        *float64          `json:"t_bang"`
	Age          *float64          `json:"age"`
	AgeGyr       *float64          `json:"age_gyr"`
	BigCrunch    *float64          `json:"big_crunch,omitempty"`
	Turnaround   *Event            `json:"turnaround,omitempty"`
	Bounce       *Event            `json:"bounce,omitempty"`
	Deceleration float64           `json:"q0"`
	Equalities   []EqualitySummary `json:"equalities"`
	Steps        Steps             `json:"steps"`
	Truncated    bool              `json:"truncated"`
	Points       []Point           `json:"points,omitempty"`
	Guides       []Guide           `json:"guides,omitempty"`
}

// EqualitySummary is the JSON form of an Equality.
type EqualitySummary struct {
	First  Component `json:"first"`
	Second Component `json:"second"`
	A      float64   `json:"a"`
	T      *float64  `json:"t"`
}

// Summary builds the digest. maxPoints bounds the number of samples included
// (0 omits points and guides).
func (s *Solution) Summary(maxPoints int) Summary {
	out := Summary{
		Model:        s.Model,
		OmegaK:       s.Model.OmegaK(),
		Geometry:     s.Model.Geometry(),
		TBang:        finite(s.TBang),
		Age:          finite(s.Age),
		AgeGyr:       finite(s.AgeGyr()),
		Turnaround:   s.Turnaround,
		Bounce:       s.Bounce,
		Deceleration: s.Model.Deceleration(1),
		Steps:        s.Steps,
		Truncated:    s.Truncated,
		Equalities:   make([]EqualitySummary, 0, len(s.Equalities)),
	}
	if tc, ok := s.BigCrunch(); ok {
		out.BigCrunch = &tc
	}
	for _, eq := range s.Equalities {
		out.Equalities = append(out.Equalities, EqualitySummary{First: eq.First, Second: eq.Second, A: eq.A, T: finite(eq.T)})
	}
	if maxPoints > 0 {
		out.Points = s.Downsample(maxPoints)
		out.Guides = s.Guides
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
