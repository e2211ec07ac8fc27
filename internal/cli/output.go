// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplaySolution], [DisplayQuietSolution], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietSolution], [FormatASCIIPlot].
//
//   - Write* functions encode data to a writer or a file.
//     Examples: [WriteSeriesCSV], [WriteSeriesToFile], [WriteJSON].

package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/plot"
	"github.com/agbru/friedmann/internal/ui"
)

// DefaultJSONPoints bounds the number of samples in the --json output.
const DefaultJSONPoints = 500

// OutputConfig holds the output settings of a solve.
type OutputConfig struct {
	// OutputFile receives the series as CSV (empty for none).
	OutputFile string
	// PNGFile receives the log-log plot (empty for none).
	PNGFile string
	// Quiet suppresses the confirmation messages.
	Quiet bool
}

// csvHeader names the columns of WriteSeriesCSV.
var csvHeader = []string{"t", "t_cosmic", "a", "H"}

// WriteSeriesCSV writes one row per sample: the time relative to today, the
// cosmic time (empty without a Big Bang), the scale factor and the signed
// expansion rate, all in units of H0.
func WriteSeriesCSV(w io.Writer, sol *cosmo.Solution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	cosmic := sol.CosmicTime()
	row := make([]string, len(csvHeader))
	for i, p := range sol.Points {
		row[0] = formatCSV(p.T)
		row[1] = ""
		if cosmic != nil {
			row[1] = formatCSV(cosmic[i])
		}
		row[2] = formatCSV(p.A)
		row[3] = formatCSV(p.H)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCSV(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteSeriesToFile writes the CSV series to path, creating its directory.
func WriteSeriesToFile(path string, sol *cosmo.Solution) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSeriesCSV(file, sol)
}

// WritePNGToFile renders the log-log plot of sol to path.
func WritePNGToFile(path string, sol *cosmo.Solution) error {
	fig, err := plot.NewFigure(sol)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return plot.WritePNGFile(path, fig, plot.Size{})
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// WriteJSON encodes the summaries of sols as indented JSON: an object for a
// single solution, an array otherwise.
func WriteJSON(w io.Writer, maxPoints int, sols ...*cosmo.Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(sols) == 1 {
		return enc.Encode(sols[0].Summary(maxPoints))
	}
	out := make([]cosmo.Summary, len(sols))
	for i, s := range sols {
		out[i] = s.Summary(maxPoints)
	}
	return enc.Encode(out)
}

// WriteOutputs writes the CSV and PNG files requested by cfg and reports
// where they went.
func WriteOutputs(out io.Writer, sol *cosmo.Solution, cfg OutputConfig) error {
	if cfg.OutputFile != "" {
		if err := WriteSeriesToFile(cfg.OutputFile, sol); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s✓ Series saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
		}
	}
	if cfg.PNGFile != "" {
		if err := WritePNGToFile(cfg.PNGFile, sol); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "%s✓ Plot saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.PNGFile, ui.ColorReset())
		}
	}
	return nil
}
