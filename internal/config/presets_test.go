package config

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/agbru/friedmann/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	c := DefaultCatalog()
	want := []string{"lcdm", "eds", "radiation", "de-sitter", "milne", "open", "closed", "loitering", "bounce", "wcdm"}
	names := c.Names()
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	for _, p := range c.Presets() {
		if err := p.Model.Validate(); err != nil {
			t.Errorf("%s: %v", p.Model.Name, err)
		}
		if p.Description == "" {
			t.Errorf("%s has no description", p.Model.Name)
		}
	}
}

func TestCatalogPresetValues(t *testing.T) {
	t.Parallel()
	c := DefaultCatalog()
	tests := []struct {
		name   string
		omegaK float64
		w      float64
	}{
		{"lcdm", 0, -1},
		{"eds", 0, -1},
		{"milne", 1, -1},
		{"open", 0.7, -1},
		{"closed", -1, -1},
		{"bounce", -0.5, -1},
		{"wcdm", 0, -0.8},
	}
	for _, tt := range tests {
		p, ok := c.Get(tt.name)
		if !ok {
			t.Fatalf("Get(%q) not found", tt.name)
		}
		if math.Abs(p.Model.OmegaK()-tt.omegaK) > 1e-12 {
			t.Errorf("%s: OmegaK = %v, want %v", tt.name, p.Model.OmegaK(), tt.omegaK)
		}
		if p.Model.W != tt.w || p.Model.H0 != 70 {
			t.Errorf("%s: W = %v, H0 = %v", tt.name, p.Model.W, p.Model.H0)
		}
	}
}

func TestCatalogMerge(t *testing.T) {
	t.Parallel()
	c := DefaultCatalog()
	if err := c.Merge([]byte("presets:\n  - name: EDS\n    omega_m: 1\n    h0: 50\n")); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	p, ok := c.Get("eds")
	if !ok || p.Model.H0 != 50 {
		t.Errorf("Get(eds) = %+v, want the replaced preset", p)
	}
	if len(c.Names()) != len(DefaultCatalog().Names()) {
		t.Error("replacing a preset must not change the catalog size")
	}
}

func TestCatalogMergeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", "presets:\n  - omega_m: 1\n"},
		{"reserved name", "presets:\n  - name: all\n"},
		{"invalid model", "presets:\n  - name: bad\n    omega_m: -1\n"},
		{"malformed yaml", "presets: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := NewCatalog().Merge([]byte(tt.doc)); err == nil {
				t.Error("Merge() error = nil, want error")
			}
		})
	}
}

func TestCatalogMergeFileMissing(t *testing.T) {
	t.Parallel()
	err := NewCatalog().MergeFile("/nonexistent/presets.yaml")
	if err == nil {
		t.Fatal("MergeFile() error = nil")
	}
	var cfgErr apperrors.ConfigError
	if errors.As(err, &cfgErr) {
		t.Error("a read failure is not a ConfigError until ParseConfig wraps it")
	}
}

func TestCatalogCloneIsIndependent(t *testing.T) {
	t.Parallel()
	a := DefaultCatalog()
	b := a.Clone()
	if err := b.Merge([]byte("presets:\n  - name: extra\n")); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Get("extra"); ok {
		t.Error("Clone shares state with the original")
	}
	sorted := b.SortedNames()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Fatalf("SortedNames() not sorted: %v", sorted)
		}
	}
}
