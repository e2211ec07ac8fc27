package cosmo

import (
	"math"

	apperrors "github.com/agbru/friedmann/internal/errors"
)

// Model is a mixture of energy-density components. Curvature is not set
// directly: it closes the budget so that E(1) = 1.
type Model struct {
	Name   string  `json:"name" yaml:"name"`
	OmegaR float64 `json:"omega_r" yaml:"omega_r"`
	OmegaM float64 `json:"omega_m" yaml:"omega_m"`
	OmegaL float64 `json:"omega_l" yaml:"omega_l"`
	// W is the dark-energy equation of state p = wρ.
	W  float64 `json:"w" yaml:"w"`
	H0 float64 `json:"h0" yaml:"h0"`
}

// NewModel returns a model with a cosmological constant (w = −1) and the
// default Hubble constant.
func NewModel(name string, omegaR, omegaM, omegaL float64) Model {
	return Model{Name: name, OmegaR: omegaR, OmegaM: omegaM, OmegaL: omegaL, W: -1, H0: DefaultH0}
}

// OmegaK returns the curvature density 1 − (ΩR + ΩM + ΩΛ), snapped to zero
// within FlatTolerance.
func (m Model) OmegaK() float64 {
	k := 1 - (m.OmegaR + m.OmegaM + m.OmegaL)
	if math.Abs(k) < FlatTolerance {
		return 0
	}
	return k
}

// Omega returns the present-day density parameter of c.
func (m Model) Omega(c Component) float64 {
	switch c {
	case Radiation:
		return m.OmegaR
	case Matter:
		return m.OmegaM
	case Curvature:
		return m.OmegaK()
	case DarkEnergy:
		return m.OmegaL
	}
	return 0
}

// With returns a copy of m with the density parameter of c replaced. Setting
// curvature adjusts ΩΛ so that the requested ΩK is obtained.
func (m Model) With(c Component, omega float64) Model {
	switch c {
	case Radiation:
		m.OmegaR = omega
	case Matter:
		m.OmegaM = omega
	case DarkEnergy:
		m.OmegaL = omega
	case Curvature:
		m.OmegaL = 1 - m.OmegaR - m.OmegaM - omega
	}
	return m
}

// Exponent returns n such that the density of c scales as a^-n:
// radiation 4, matter 3, curvature 2 and dark energy 3(1+w).
func (m Model) Exponent(c Component) float64 {
	switch c {
	case Radiation:
		return 4
	case Matter:
		return 3
	case Curvature:
		return 2
	case DarkEnergy:
		return 3 * (1 + m.W)
	}
	return 0
}

// PowerLaw returns the exponent p of the single-component solution a ∝ t^p.
// ok is false when the component does not give a power law (n ≤ 0).
func (m Model) PowerLaw(c Component) (p float64, ok bool) {
	n := m.Exponent(c)
	if n <= 0 {
		return 0, false
	}
	return 2 / n, true
}

// Density returns the term of c in E(a), Ω a^-n.
func (m Model) Density(c Component, a float64) float64 {
	omega := m.Omega(c)
	if omega == 0 {
		return 0
	}
	return omega * math.Pow(a, -m.Exponent(c))
}

// E returns the dimensionless expansion rate squared, H²/H0²:
//
//	E(a) = ΩR a⁻⁴ + ΩM a⁻³ + ΩK a⁻² + ΩΛ a^-3(1+w)
func (m Model) E(a float64) float64 {
	var e float64
	for _, c := range Components {
		e += m.Density(c, a)
	}
	return e
}

// Hubble returns H/H0 = sqrt(E(a)), or 0 where E(a) ≤ 0.
func (m Model) Hubble(a float64) float64 {
	e := m.E(a)
	if e <= 0 {
		return 0
	}
	return math.Sqrt(e)
}

// Derivative returns da/dt = dir · a · H(a) in units of H0.
func (m Model) Derivative(a float64, dir Direction) float64 {
	return float64(dir) * a * m.Hubble(a)
}

// Dominant returns the component with the largest positive term at a.
func (m Model) Dominant(a float64) Component {
	best, bestVal := Curvature, math.Inf(-1)
	for _, c := range Components {
		if v := m.Density(c, a); v > 0 && v > bestVal {
			best, bestVal = c, v
		}
	}
	return best
}

// Deceleration returns q = −ä a / ȧ² = ½ Σ Ωᵢ a^-nᵢ (nᵢ − 2) / E(a), using
// 1 + 3wᵢ = nᵢ − 2. Curvature does not contribute.
func (m Model) Deceleration(a float64) float64 {
	e := m.E(a)
	if e <= 0 {
		return math.NaN()
	}
	var sum float64
	for _, c := range Components {
		sum += m.Density(c, a) * (m.Exponent(c) - 2)
	}
	return sum / (2 * e)
}

// HubbleTimeGyr converts one Hubble time to Gyr for the model's H0.
func (m Model) HubbleTimeGyr() float64 {
	h0 := m.H0
	if h0 == 0 {
		h0 = DefaultH0
	}
	return HubbleTimeGyrH0 / h0
}

// Geometry names the spatial curvature of the model.
func (m Model) Geometry() string {
	switch k := m.OmegaK(); {
	case k > 0:
		return "open"
	case k < 0:
		return "closed"
	default:
		return "flat"
	}
}

// Validate rejects non-finite parameters, negative radiation or matter
// densities, a non-positive H0 and an equation of state outside [-2, 0].
func (m Model) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"omega_r", m.OmegaR},
		{"omega_m", m.OmegaM},
		{"omega_l", m.OmegaL},
		{"w", m.W},
		{"h0", m.H0},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return apperrors.ValidationError{Field: f.name, Message: "must be finite"}
		}
	}
	if m.OmegaR < 0 {
		return apperrors.ValidationError{Field: "omega_r", Message: "must be non-negative"}
	}
	if m.OmegaM < 0 {
		return apperrors.ValidationError{Field: "omega_m", Message: "must be non-negative"}
	}
	if m.H0 <= 0 {
		return apperrors.ValidationError{Field: "h0", Message: "must be positive"}
	}
	if m.W < -2 || m.W > 0 {
		return apperrors.ValidationError{Field: "w", Message: "must be within [-2, 0]"}
	}
	return nil
}
