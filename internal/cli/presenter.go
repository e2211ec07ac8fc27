package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/metrics"
	"github.com/agbru/friedmann/internal/orchestration"
	"github.com/agbru/friedmann/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with the
// terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing solves.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan cosmo.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for colored
// terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

type column struct {
	title string
	color func() string
}

// PresentComparisonTable prints one row per model. Padding is computed on
// the visible width so that ANSI codes do not break the alignment.
func (p CLIResultPresenter) PresentComparisonTable(results []orchestration.SolveResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	cols := []column{
		{"Model", ui.ColorBlue},
		{"Geometry", ui.ColorCyan},
		{"Age [1/H0]", ui.ColorYellow},
		{"Age [Gyr]", ui.ColorYellow},
		{"Events", ui.ColorMagenta},
		{"Steps", ui.ColorReset},
		{"Duration", ui.ColorReset},
	}
	rows := make([][]string, len(results))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = utf8.RuneCountInString(c.title)
	}
	for r, res := range results {
		rows[r] = comparisonRow(res, p.FormatDuration(res.Duration))
		for i, cell := range rows[r] {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	for i, c := range cols {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), c.title, ui.ColorReset(), padRight("", widths[i]-utf8.RuneCountInString(c.title)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	for r, res := range results {
		for i, cell := range rows[r] {
			fmt.Fprintf(out, "%s%s%s%s   ", cols[i].color(), cell, ui.ColorReset(), padRight("", widths[i]-utf8.RuneCountInString(cell)))
		}
		if res.Err != nil {
			fmt.Fprintf(out, "%s❌ Failure (%v)%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		} else if res.Solution != nil && res.Solution.Truncated {
			fmt.Fprintf(out, "%s⚠ Truncated%s\n", ui.ColorYellow(), ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%s✅ Success%s\n", ui.ColorGreen(), ui.ColorReset())
		}
	}
}

func comparisonRow(res orchestration.SolveResult, duration string) []string {
	if res.Solution == nil {
		return []string{res.Name, "-", "-", "-", "-", "-", duration}
	}
	sol := res.Solution
	return []string{
		res.Name,
		sol.Model.Geometry(),
		format.FormatFloat(sol.Age, 4),
		format.FormatFloat(sol.AgeGyr(), 4),
		eventList(sol),
		format.FormatCount(sol.Steps.Total()),
		duration,
	}
}

// eventList names the singular events of a history, or "-".
func eventList(sol *cosmo.Solution) string {
	var events []string
	if sol.HasBigBang() {
		events = append(events, "big bang")
	}
	if sol.Bounce != nil {
		events = append(events, "bounce")
	}
	if sol.Turnaround != nil {
		events = append(events, "turnaround")
	}
	if _, ok := sol.BigCrunch(); ok {
		events = append(events, "big crunch")
	}
	if len(events) == 0 {
		return "-"
	}
	return strings.Join(events, ", ")
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// PresentSolution displays a single solution in full, or on one line in
// quiet mode.
func (CLIResultPresenter) PresentSolution(result orchestration.SolveResult, opts orchestration.PresentationOptions, out io.Writer) {
	if result.Solution == nil {
		return
	}
	if opts.Quiet {
		DisplayQuietSolution(out, result.Solution)
		return
	}
	DisplaySolution(result.Solution, result.Duration, opts.Details, out)
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError reports a solve error and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleSolveError(err, duration, out, ui.CLIColorProvider{})
}

// DisplayMemoryStats shows the memory used by a run and the size of the
// resulting series.
func DisplayMemoryStats(delta metrics.MemoryDelta, footprint uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Series size:     %s\n", format.FormatBytes(footprint))
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(delta.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(delta.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.GCCycles)
}
