package calibration

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/agbru/friedmann/internal/config"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/logging"
	"github.com/agbru/friedmann/internal/ui"
)

// PrintResults formats and prints the study table.
func PrintResults(out io.Writer, res *Result) {
	fmt.Fprintf(out, "\n--- Calibration Summary: %s (%s) ---\n", res.Model.Name, res.Quantity)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sε%s\t%sValue%s\t%sChange%s\t%sSteps%s\t%sTime%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, s := range res.Steps {
		highlight := ""
		if s.Epsilon == res.Epsilon && res.Converged {
			highlight = fmt.Sprintf(" %s(Recommended)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\t%s\t%s%s%s%s\n",
			ui.ColorCyan(), format.FormatFloat(s.Epsilon, 3), ui.ColorReset(),
			format.FormatFloat(s.Value, 8), formatChange(s.Change), format.FormatCount(s.Steps),
			ui.ColorYellow(), formatStudyDuration(s.Duration), ui.ColorReset(), highlight)
	}
	tw.Flush()
	if !res.Converged {
		fmt.Fprintf(out, "%sNo convergence to %s; using the finest step ε=%s.%s\n",
			ui.ColorYellow(), format.FormatFloat(res.Tolerance, 3), format.FormatFloat(res.Epsilon, 3), ui.ColorReset())
	}
}

func formatChange(c float64) string {
	if math.IsNaN(c) {
		return "-"
	}
	return format.FormatFloat(c, 3)
}

func formatStudyDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// printProfileApplied reports the step taken from a stored study.
func printProfileApplied(out io.Writer, p CalibrationProfile) {
	fmt.Fprintf(out, "%sCalibration profile%s: ε=%s%s%s for %s\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), format.FormatFloat(p.Epsilon, 3), ui.ColorReset(), p.Model.Name)
}

// ProfilePath returns the profile file of cfg.
func ProfilePath(cfg config.AppConfig) string {
	if cfg.CalibrationProfile != "" {
		return cfg.CalibrationProfile
	}
	return GetDefaultProfilePath()
}

// ApplyProfile sets cfg.Epsilon from the stored study of the selected model.
// An explicit --epsilon wins, and comparisons of several models are left
// alone.
func ApplyProfile(cfg config.AppConfig, out io.Writer, logger logging.Logger) (config.AppConfig, bool) {
	if cfg.IsExplicit("epsilon") {
		return cfg, false
	}
	models, err := cfg.Models()
	if err != nil || len(models) != 1 {
		return cfg, false
	}
	file, loaded := LoadOrCreateProfileFile(ProfilePath(cfg))
	if !loaded {
		return cfg, false
	}
	p, ok := file.Lookup(models[0], cfg.ToOptions())
	if !ok {
		return cfg, false
	}
	logger.Debug("calibration profile applied", logging.String("model", p.Model.Name), logging.Float64("epsilon", p.Epsilon))
	cfg.Epsilon = p.Epsilon
	if !cfg.Quiet {
		printProfileApplied(out, p)
	}
	return cfg, true
}

// Run performs a study for every selected model, prints the tables and
// stores the results in the profile file.
func Run(ctx context.Context, cfg config.AppConfig, out io.Writer, logger logging.Logger) int {
	models, err := cfg.Models()
	if err != nil {
		return apperrors.HandleSolveError(err, 0, out, ui.CLIColorProvider{})
	}
	path := ProfilePath(cfg)
	file, _ := LoadOrCreateProfileFile(path)
	base := cfg.ToOptions()

	fmt.Fprintf(out, "--- Step-size calibration ---\n")
	fmt.Fprintf(out, "Halving ε from %s to %s until the relative change is below %s.\n",
		format.FormatFloat(DefaultStart, 3), format.FormatFloat(DefaultMin, 3), format.FormatFloat(DefaultTolerance, 3))

	for _, m := range models {
		opts := DefaultOptions(base)
		opts.OnStep = func(s Step) {
			if !cfg.Quiet {
				fmt.Fprintf(out, "  %s ε=%-10s %s\n", m.Name, format.FormatFloat(s.Epsilon, 3), formatChange(s.Change))
			}
		}
		start := time.Now()
		res, err := Calibrate(ctx, m, opts)
		if err != nil {
			return apperrors.HandleSolveError(err, time.Since(start), out, ui.CLIColorProvider{})
		}
		PrintResults(out, res)
		file.Put(NewProfile(res, base))
		logger.Info("calibration finished",
			logging.String("model", m.Name),
			logging.Float64("epsilon", res.Epsilon),
			logging.Int("solves", len(res.Steps)))
	}

	if err := file.Save(path); err != nil {
		logger.Warn("could not save calibration profile", logging.String("path", path), logging.Err(err))
		fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\n%s✓ Profile saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	return apperrors.ExitSuccess
}
