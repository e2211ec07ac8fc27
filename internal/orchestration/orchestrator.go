package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of dropped updates when the
// display is slow to consume them.
const ProgressBufferMultiplier = 16

const tracerName = "github.com/agbru/friedmann/internal/orchestration"

// ExecuteSolves integrates every model concurrently with the Euler solver.
// See ExecuteSolvesWith.
func ExecuteSolves(ctx context.Context, models []cosmo.Model, opts cosmo.Options, progressReporter ProgressReporter, out io.Writer) []SolveResult {
	return ExecuteSolvesWith(ctx, DefaultSolver, models, opts, progressReporter, out)
}

// ExecuteSolvesWith integrates every model concurrently with solver and
// returns the results in input order. A failing model does not cancel the
// others. Progress of model i is published on a channel drained by
// progressReporter, which has finished when the function returns.
func ExecuteSolvesWith(ctx context.Context, solver Solver, models []cosmo.Model, opts cosmo.Options, progressReporter ProgressReporter, out io.Writer) []SolveResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]SolveResult, len(models))
	progressChan := make(chan cosmo.ProgressUpdate, len(models)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(models), out)

	tracer := otel.Tracer(tracerName)
	for i, m := range models {
		g.Go(func() error {
			spanCtx, span := tracer.Start(ctx, "cosmo.Integrate", trace.WithAttributes(
				attribute.String("model.name", m.Name),
				attribute.Float64("model.omega_m", m.OmegaM),
				attribute.Float64("model.omega_r", m.OmegaR),
				attribute.Float64("model.omega_l", m.OmegaL),
				attribute.Float64("options.epsilon", opts.Epsilon),
			))
			defer span.End()

			start := time.Now()
			sol, err := solver.Solve(spanCtx, m, opts, cosmo.ChannelReporter(progressChan, i))
			results[i] = SolveResult{Name: m.Name, Solution: sol, Duration: time.Since(start), Err: err}

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetAttributes(
					attribute.Int("steps.forward", sol.Steps.Forward),
					attribute.Int("steps.backward", sol.Steps.Backward),
					attribute.Bool("truncated", sol.Truncated),
				)
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeResults presents the results and returns the exit code. A single
// result is presented in full. Several results get a comparison table,
// followed by the first successful solution when details are requested.
// Failed solves are moved after the successful ones.
func AnalyzeResults(results []SolveResult, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		return (results[i].Err == nil) && (results[j].Err != nil)
	})

	var firstError error
	var firstErrorDuration time.Duration
	successCount := 0
	for _, r := range results {
		if r.Err != nil {
			if firstError == nil {
				firstError, firstErrorDuration = r.Err, r.Duration
			}
			continue
		}
		successCount++
	}

	if len(results) == 1 {
		if firstError != nil {
			return presenter.HandleError(firstError, firstErrorDuration, out)
		}
		presenter.PresentSolution(results[0], opts, out)
		return apperrors.ExitSuccess
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No model could be solved.\n")
		return presenter.HandleError(firstError, firstErrorDuration, out)
	}
	if successCount < len(results) {
		fmt.Fprintf(out, "\nGlobal Status: Partial. %d of %d models solved.\n", successCount, len(results))
	} else if !opts.Quiet {
		fmt.Fprintf(out, "\nGlobal Status: Success. %d models solved.\n", successCount)
	}
	if opts.Details {
		presenter.PresentSolution(results[0], opts, out)
	}
	return apperrors.ExitSuccess
}
