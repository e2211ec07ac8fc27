package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/ui"
)

// PrintExecutionConfig displays the integrator settings and the environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	opts := cfg.ToOptions()
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Euler steps of %sε=%s%s Hubble times, a in [%s, %s], |t| ≤ %s /H0, timeout %s%s%s.\n",
		ui.ColorMagenta(), format.FormatFloat(opts.Epsilon, 3), ui.ColorReset(),
		format.FormatFloat(opts.AMin, 3), format.FormatFloat(opts.AMax, 3), format.FormatFloat(opts.TMax, 3),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if !opts.Mirror {
		fmt.Fprintf(out, "Time reflection of turnaround and bounce branches is %sdisabled%s.\n", ui.ColorYellow(), ui.ColorReset())
	}
}

// PrintExecutionMode displays whether one model or a comparison is solved.
func PrintExecutionMode(models []cosmo.Model, out io.Writer) {
	var modeDesc string
	if len(models) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %s%d%s models", ui.ColorGreen(), len(models), ui.ColorReset())
	} else {
		modeDesc = fmt.Sprintf("Single model %s%s%s", ui.ColorGreen(), models[0].Name, ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
