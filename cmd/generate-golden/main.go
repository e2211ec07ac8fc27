// Command generate-golden writes the reference ages used by the cosmo
// golden tests. Ages come from Gauss-Legendre quadrature of
//
//	t0 = ∫₀¹ da / (a √E(a))
//
// with the substitution a = u², which removes the a^(-1/2) behaviour of
// matter-dominated integrands at the origin.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
)

const description = "Ages in Hubble times obtained by Gauss-Legendre quadrature of t0 = integral da / (a sqrt(E(a))). Regenerate with: go run ./cmd/generate-golden"

func main() {
	out := flag.String("o", "internal/cosmo/testdata/golden.json", "output file")
	nodes := flag.Int("nodes", 4000, "quadrature nodes")
	flag.Parse()

	data, err := render(config.DefaultCatalog().Presets(), *nodes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
}

// radicand is u⁴ E(u²) a² reduced to a polynomial-like form in u:
// ΩR + ΩM u² + ΩK u⁴ + ΩΛ u^(2-6w).
func radicand(m cosmo.Model, u float64) float64 {
	u2 := u * u
	return m.OmegaR + m.OmegaM*u2 + m.OmegaK()*u2*u2 + m.OmegaL*math.Pow(u, 2-6*m.W)
}

// hasBigBang reports whether the expansion history reaches a = 0 in a finite
// time without turning around between a = 0 and today.
func hasBigBang(m cosmo.Model) bool {
	for i := 1; i <= 1000; i++ {
		if radicand(m, float64(i)/1000) <= 0 {
			return false
		}
	}
	// The integrand behaves as u^(3-p/2) where p is the smallest exponent
	// present; it is integrable for p < 8.
	switch {
	case m.OmegaR != 0:
		return m.OmegaR > 0
	case m.OmegaM != 0:
		return m.OmegaM > 0
	case m.OmegaK() != 0:
		return m.OmegaK() > 0
	default:
		return m.OmegaL > 0 && 2-6*m.W < 8
	}
}

// age integrates 2u³ / √radicand over [0, 1].
func age(m cosmo.Model, nodes int) float64 {
	f := func(u float64) float64 {
		return 2 * u * u * u / math.Sqrt(radicand(m, u))
	}
	return quad.Fixed(f, 0, 1, nodes, quad.Legendre{}, 0)
}

type goldenCase struct {
	Name  string      `json:"name"`
	Model cosmo.Model `json:"model"`
	Age   float64     `json:"age"`
}

// render writes one case per line so that diffs stay readable.
func render(presets []config.Preset, nodes int) ([]byte, error) {
	var buf bytes.Buffer
	desc, err := json.Marshal(description)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "{\n  \"description\": %s,\n  \"cases\": [\n", desc)
	first := true
	for _, p := range presets {
		if !hasBigBang(p.Model) {
			continue
		}
		line, err := json.Marshal(goldenCase{
			Name:  p.Model.Name,
			Model: p.Model,
			Age:   math.Round(age(p.Model, nodes)*1e9) / 1e9,
		})
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteString(",\n")
		}
		first = false
		buf.WriteString("    ")
		buf.Write(line)
	}
	buf.WriteString("\n  ]\n}\n")
	return buf.Bytes(), nil
}
