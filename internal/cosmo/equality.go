package cosmo

import (
	"math"
	"sort"
)

// Equality is the epoch at which two components have the same density.
// Before it First dominates Second; after it the order is reversed.
type Equality struct {
	First  Component `json:"first"`
	Second Component `json:"second"`
	// A is the scale factor of equal densities.
	A float64 `json:"a"`
	// T is the time at which the expanding branch reaches A, NaN when the
	// integration does not cover it.
	T float64 `json:"t"`
	// Reached reports whether T was found on the integrated branch.
	Reached bool `json:"reached"`
}

// EqualityPoints returns the pairwise equality scale factors of m sorted by a.
// For components i and j with positive densities and different exponents,
// Ωᵢ a^-nᵢ = Ωⱼ a^-nⱼ gives
//
//	a_eq = (Ωⱼ/Ωᵢ)^(1/(nⱼ − nᵢ))
//
// Curvature takes part only in open models (ΩK > 0). Times are left as NaN;
// Integrate fills them in.
func EqualityPoints(m Model) []Equality {
	present := make([]Component, 0, len(Components))
	for _, c := range Components {
		if m.Omega(c) > 0 {
			present = append(present, c)
		}
	}

	var out []Equality
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			ci, cj := present[i], present[j]
			ni, nj := m.Exponent(ci), m.Exponent(cj)
			if ni == nj {
				continue
			}
			a := math.Pow(m.Omega(cj)/m.Omega(ci), 1/(nj-ni))
			if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
				continue
			}
			first, second := ci, cj
			if nj > ni {
				first, second = cj, ci
			}
			out = append(out, Equality{First: first, Second: second, A: a, T: math.NaN()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].A < out[j].A })
	return out
}
