package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/friedmann/internal/cli"
	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/logging"
	"github.com/agbru/friedmann/internal/metrics"
	"github.com/agbru/friedmann/internal/orchestration"
	"github.com/agbru/friedmann/internal/plot"
	"github.com/agbru/friedmann/internal/ui"
)

// runSolve integrates the selected models and presents the results.
func (a *Application) runSolve(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	models, err := a.Config.Models()
	if err != nil {
		return apperrors.HandleSolveError(err, 0, out, ui.CLIColorProvider{})
	}

	// Machine-readable and quiet runs print nothing but the results.
	silent := a.Config.Quiet || a.Config.JSON
	if !silent {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(models, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if silent {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteSolvesWith(ctx, a.Solver, models, a.Config.ToOptions(), progressReporter, progressOut)
	after := collector.Snapshot()

	for _, r := range results {
		if r.Err != nil {
			a.Logger.Debug("solve failed", logging.String("model", r.Name), logging.Err(r.Err))
			continue
		}
		a.Logger.Debug("solve finished",
			logging.String("model", r.Name),
			logging.Int("steps", r.Solution.Steps.Total()),
			logging.String("duration", r.Duration.String()))
		if r.Solution.Truncated {
			a.Logger.Warn("integration truncated by the step limit", logging.String("model", r.Name))
		}
	}

	if a.Config.JSON {
		return a.writeJSON(results, out)
	}

	presOpts := orchestration.PresentationOptions{
		Verbose: a.Config.Verbose,
		Details: a.Config.Details,
		Quiet:   a.Config.Quiet,
	}
	exitCode := orchestration.AnalyzeResults(results, presOpts, cli.CLIResultPresenter{}, out)
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}

	// AnalyzeResults moved the successful solves first.
	best := results[0]
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(metrics.Delta(before, after), metrics.SolutionFootprint(best.Solution), out)
	}
	if len(results) == 1 || a.Config.Details {
		if err := a.showPlot(out, best.Solution); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error drawing plot: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		PNGFile:    a.Config.PNGFile,
		Quiet:      a.Config.Quiet,
	}
	if err := cli.WriteOutputs(out, best.Solution, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving output: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// showPlot draws sol according to --plot. PNG files are written by
// cli.WriteOutputs.
func (a *Application) showPlot(out io.Writer, sol *cosmo.Solution) error {
	switch a.Config.Plot {
	case config.PlotASCII:
		if a.Config.Quiet {
			return nil
		}
		return cli.DisplayASCIIPlot(out, sol)
	case config.PlotPyplot:
		fig, err := plot.NewFigure(sol)
		if err != nil {
			return err
		}
		plot.ShowPyplot(fig)
	}
	return nil
}

// writeJSON prints the successful solutions as JSON. Failures are reported
// on the error writer; like AnalyzeResults, the first failure decides the
// exit code only when no model could be solved.
func (a *Application) writeJSON(results []orchestration.SolveResult, out io.Writer) int {
	sols := make([]*cosmo.Solution, 0, len(results))
	failureCode := apperrors.ExitSuccess
	for _, r := range results {
		if r.Err != nil {
			if code := apperrors.HandleSolveError(r.Err, r.Duration, a.ErrWriter, ui.CLIColorProvider{}); failureCode == apperrors.ExitSuccess {
				failureCode = code
			}
			continue
		}
		sols = append(sols, r.Solution)
	}
	if len(sols) == 0 {
		return failureCode
	}
	if err := cli.WriteJSON(out, cli.DefaultJSONPoints, sols...); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error encoding JSON: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if len(sols) == 1 {
		if err := cli.WriteOutputs(io.Discard, sols[0], cli.OutputConfig{OutputFile: a.Config.OutputFile, PNGFile: a.Config.PNGFile}); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving output: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}
