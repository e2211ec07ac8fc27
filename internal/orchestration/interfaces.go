package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
)

// SolveResult is the outcome of integrating one model. It is the shared
// domain type between orchestration and presentation.
type SolveResult struct {
	// Name is the model name (preset or "custom").
	Name string
	// Solution is nil if an error occurred.
	Solution *cosmo.Solution
	// Duration is the wall-clock time of the solve.
	Duration time.Duration
	// Err contains any error that occurred during the solve.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Details bool
	Quiet   bool
}

// Solver integrates one model. cosmo.Integrate is the production solver;
// tests substitute their own.
type Solver interface {
	Solve(ctx context.Context, m cosmo.Model, opts cosmo.Options, report cosmo.ProgressFunc) (*cosmo.Solution, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, m cosmo.Model, opts cosmo.Options, report cosmo.ProgressFunc) (*cosmo.Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, m cosmo.Model, opts cosmo.Options, report cosmo.ProgressFunc) (*cosmo.Solution, error) {
	return f(ctx, m, opts, report)
}

// DefaultSolver is the Euler integrator.
var DefaultSolver Solver = SolverFunc(cosmo.Integrate)

// ProgressReporter displays solve progress. DisplayProgress runs in its own
// goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter presents solve results. Implementations choose the format
// (colored text, JSON).
type ResultPresenter interface {
	ErrorHandler

	// PresentComparisonTable displays one row per model.
	PresentComparisonTable(results []SolveResult, out io.Writer)

	// PresentSolution displays a single solution in full.
	PresentSolution(result SolveResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles solve errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
