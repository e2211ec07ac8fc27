package cosmo

import (
	"fmt"
	"strings"
)

// Component identifies one term of the Friedmann equation.
type Component int

const (
	Radiation Component = iota
	Matter
	Curvature
	DarkEnergy
)

// Components lists every component in order of decreasing density exponent
// for a cosmological constant.
var Components = []Component{Radiation, Matter, Curvature, DarkEnergy}

// String returns the lower-case component name.
func (c Component) String() string {
	switch c {
	case Radiation:
		return "radiation"
	case Matter:
		return "matter"
	case Curvature:
		return "curvature"
	case DarkEnergy:
		return "dark energy"
	default:
		return fmt.Sprintf("component(%d)", int(c))
	}
}

// Symbol returns the density parameter symbol of the component.
func (c Component) Symbol() string {
	switch c {
	case Radiation:
		return "ΩR"
	case Matter:
		return "ΩM"
	case Curvature:
		return "ΩK"
	case DarkEnergy:
		return "ΩΛ"
	default:
		return "Ω?"
	}
}

// MarshalText encodes the component by name so that JSON keys and values stay
// readable.
func (c Component) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseComponent accepts the names and short aliases used on the command line
// and in the REPL ("r", "m", "k", "l", "lambda", "de", ...).
func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "rad", "radiation", "omega_r", "omegar":
		return Radiation, nil
	case "m", "matter", "omega_m", "omegam":
		return Matter, nil
	case "k", "curv", "curvature", "omega_k", "omegak":
		return Curvature, nil
	case "l", "lambda", "de", "dark-energy", "darkenergy", "omega_l", "omegal":
		return DarkEnergy, nil
	default:
		return 0, fmt.Errorf("unknown component %q", s)
	}
}
