package tui

import (
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
)

// ProgressMsg carries the fraction of a running solve.
type ProgressMsg struct {
	Value      float64
	Generation uint64
}

// resolveMsg fires when the debounce delay of an edit has elapsed.
type resolveMsg struct {
	Generation uint64
}

// SolvedMsg carries the outcome of a solve.
type SolvedMsg struct {
	Solution   *cosmo.Solution
	Duration   time.Duration
	Err        error
	Generation uint64
}

// ContextCancelledMsg signals that the parent context was canceled.
type ContextCancelledMsg struct {
	Err error
}
