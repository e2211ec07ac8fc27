package tui

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
)

// newTestModel returns an explorer on ΛCDM with a coarse step and a short
// debounce.
func newTestModel(t *testing.T, args ...string) Model {
	t.Helper()
	cfg, err := config.ParseConfig("friedmann", append([]string{"--epsilon", "0.01"}, args...), io.Discard, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	m := NewModel(context.Background(), cfg, "test")
	m.debounce = time.Millisecond
	t.Cleanup(m.cancel)
	return m
}

func solveLCDM(t *testing.T) *cosmo.Solution {
	t.Helper()
	opts := cosmo.DefaultOptions()
	opts.Epsilon = 1e-2
	sol, err := cosmo.Integrate(context.Background(), config.DefaultCatalog().Presets()[0].Model, opts, nil)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	return sol
}
