package config

import "runtime"

// Step-size resolution chain (highest priority first):
//   1. CLI flag --epsilon
//   2. Environment variable FRIEDMANN_EPSILON
//   3. Cached calibration profile (~/.friedmann_calibration.json)
//   4. Adaptive hardware estimation for interactive modes (this file)
//   5. Static default in cosmo/constants.go

// ApplyAdaptiveEpsilon coarsens the step of interactive sessions on small
// machines so that every slider move re-integrates within a frame or two.
// Batch runs keep the default. An explicit --epsilon is never touched.
func ApplyAdaptiveEpsilon(cfg AppConfig) AppConfig {
	if cfg.IsExplicit("epsilon") || !cfg.TUI {
		return cfg
	}
	if estimate := EstimateInteractiveEpsilon(); estimate > cfg.Epsilon {
		cfg.Epsilon = estimate
	}
	return cfg
}

// EstimateInteractiveEpsilon provides a heuristic step fraction for the TUI
// without running a convergence study. Two walks run concurrently, so fewer
// than two cores halve the budget.
func EstimateInteractiveEpsilon() float64 {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 1e-2
	case numCPU <= 4:
		return 5e-3
	default:
		return 2e-3
	}
}
