package cosmo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/friedmann/internal/errors"
)

func lcdm() Model { return NewModel("lcdm", 8.4e-5, 0.3, 0.699916) }

func TestModel_ENormalisedAtPresent(t *testing.T) {
	t.Parallel()
	models := []Model{
		lcdm(),
		NewModel("eds", 0, 1, 0),
		NewModel("milne", 0, 0, 0),
		NewModel("closed", 0, 2, 0),
		{Name: "wcdm", OmegaM: 0.3, OmegaL: 0.7, W: -0.8, H0: 70},
	}
	for _, m := range models {
		t.Run(m.Name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, 1.0, m.E(1), 1e-12)
			assert.InDelta(t, 1.0, m.Hubble(1), 1e-12)
		})
	}
}

func TestModel_OmegaK(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		model    Model
		want     float64
		geometry string
	}{
		{"flat to rounding", lcdm(), 0, "flat"},
		{"milne", NewModel("milne", 0, 0, 0), 1, "open"},
		{"open", NewModel("open", 0, 0.3, 0), 0.7, "open"},
		{"closed", NewModel("closed", 0, 2, 0), -1, "closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.model.OmegaK(), 1e-12)
			assert.Equal(t, tt.geometry, tt.model.Geometry())
		})
	}
}

func TestModel_Exponents(t *testing.T) {
	t.Parallel()
	m := Model{W: -1, H0: 70}
	assert.Equal(t, 4.0, m.Exponent(Radiation))
	assert.Equal(t, 3.0, m.Exponent(Matter))
	assert.Equal(t, 2.0, m.Exponent(Curvature))
	assert.Equal(t, 0.0, m.Exponent(DarkEnergy))

	m.W = -1.0 / 3
	assert.InDelta(t, 2.0, m.Exponent(DarkEnergy), 1e-12)

	p, ok := m.PowerLaw(Matter)
	assert.True(t, ok)
	assert.InDelta(t, 2.0/3, p, 1e-12)

	m.W = -1
	_, ok = m.PowerLaw(DarkEnergy)
	assert.False(t, ok)
}

func TestModel_Derivative(t *testing.T) {
	t.Parallel()
	m := NewModel("eds", 0, 1, 0)
	// EdS: ȧ = a^{-1/2}
	for _, a := range []float64{0.01, 0.5, 1, 4} {
		assert.InDelta(t, math.Pow(a, -0.5), m.Derivative(a, Forward), 1e-12)
		assert.InDelta(t, -math.Pow(a, -0.5), m.Derivative(a, Backward), 1e-12)
	}
}

func TestModel_Dominant(t *testing.T) {
	t.Parallel()
	m := lcdm()
	tests := []struct {
		a    float64
		want Component
	}{
		{1e-6, Radiation},
		{1e-2, Matter},
		{0.5, Matter},
		{1, DarkEnergy},
		{100, DarkEnergy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Dominant(tt.a), "a=%g", tt.a)
	}
	assert.Equal(t, Curvature, NewModel("milne", 0, 0, 0).Dominant(1))
}

func TestModel_Deceleration(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 0.5, NewModel("eds", 0, 1, 0).Deceleration(1), 1e-12)
	assert.InDelta(t, 1.0, NewModel("rad", 1, 0, 0).Deceleration(1), 1e-12)
	assert.InDelta(t, -1.0, NewModel("ds", 0, 0, 1).Deceleration(1), 1e-12)
	assert.InDelta(t, 0.0, NewModel("milne", 0, 0, 0).Deceleration(1), 1e-12)
	assert.InDelta(t, -0.549832, lcdm().Deceleration(1), 1e-6)
}

func TestModel_Validate(t *testing.T) {
	t.Parallel()
	base := lcdm()
	tests := []struct {
		name   string
		mutate func(*Model)
		field  string
	}{
		{"valid", func(*Model) {}, ""},
		{"negative lambda allowed", func(m *Model) { m.OmegaL = -0.5 }, ""},
		{"nan matter", func(m *Model) { m.OmegaM = math.NaN() }, "omega_m"},
		{"inf lambda", func(m *Model) { m.OmegaL = math.Inf(1) }, "omega_l"},
		{"negative radiation", func(m *Model) { m.OmegaR = -1e-5 }, "omega_r"},
		{"negative matter", func(m *Model) { m.OmegaM = -0.1 }, "omega_m"},
		{"zero h0", func(m *Model) { m.H0 = 0 }, "h0"},
		{"w too low", func(m *Model) { m.W = -2.5 }, "w"},
		{"w too high", func(m *Model) { m.W = 0.1 }, "w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := base
			tt.mutate(&m)
			err := m.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr apperrors.ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestModel_With(t *testing.T) {
	t.Parallel()
	m := lcdm().With(Matter, 0.5)
	assert.Equal(t, 0.5, m.OmegaM)

	k := NewModel("x", 0, 0.3, 0.7).With(Curvature, 0.1)
	assert.InDelta(t, 0.1, k.OmegaK(), 1e-12)
	assert.InDelta(t, 0.6, k.OmegaL, 1e-12)
}

func TestParseComponent(t *testing.T) {
	t.Parallel()
	tests := map[string]Component{
		"m": Matter, "Matter": Matter, "r": Radiation, "lambda": DarkEnergy,
		"de": DarkEnergy, "k": Curvature, "omega_l": DarkEnergy,
	}
	for in, want := range tests {
		got, err := ParseComponent(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseComponent("neutrinos")
	assert.Error(t, err)
}

func TestHubbleTimeGyr(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 13.968, NewModel("x", 0, 1, 0).HubbleTimeGyr(), 1e-3)
	assert.InDelta(t, 977.792/67.4, Model{H0: 67.4}.HubbleTimeGyr(), 1e-9)
}
