package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/orchestration"
	"github.com/agbru/friedmann/internal/ui"
)

// REPL is an interactive session that edits a model and solves it on
// demand.
type REPL struct {
	config   config.AppConfig
	solver   orchestration.Solver
	progress bool
	last     *cosmo.Solution
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a session starting from cfg. With --preset all the first
// preset is selected.
func NewREPL(cfg config.AppConfig) *REPL {
	if cfg.Preset == config.AllPresets && cfg.Catalog != nil {
		if names := cfg.Catalog.Names(); len(names) > 0 {
			_ = cfg.SelectPreset(names[0])
		}
	}
	return &REPL{
		config:   cfg,
		solver:   orchestration.DefaultSolver,
		progress: !cfg.Quiet,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// SetSolver replaces the integrator.
func (r *REPL) SetSolver(s orchestration.Solver) {
	r.solver = s
}

// Config returns the current configuration.
func (r *REPL) Config() config.AppConfig {
	return r.config
}

// Start reads commands until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"friedmann> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input != "" && !r.processCommand(input) {
			return
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sFriedmann Explorer - Interactive Mode%s                %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	help := []struct{ cmd, desc string }{
		{"set <c> <value>", "Set a density (r, m, k, l) or w, h0, epsilon"},
		{"preset <name>", "Load a preset and drop the overrides"},
		{"solve", "Integrate the current model"},
		{"eq", "Show the equality epochs (closed form)"},
		{"plot", "Draw a log-log plot of a(t)"},
		{"status", "Display the current model and settings"},
		{"list", "List the presets"},
		{"help", "Display this help"},
		{"exit / quit", "Exit interactive mode"},
	}
	for _, h := range help {
		fmt.Fprintf(r.out, "  %s%-16s%s - %s\n", ui.ColorYellow(), h.cmd, ui.ColorReset(), h.desc)
	}
}

// processCommand executes one command. It returns false to exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "set", "s":
		r.cmdSet(args)
	case "preset", "p":
		r.cmdPreset(args)
	case "solve", "run":
		r.cmdSolve()
	case "eq", "equality":
		r.cmdEqualities()
	case "plot":
		r.cmdPlot()
	case "status", "st":
		r.cmdStatus()
	case "list", "ls":
		r.cmdList()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) errorf(msg string, a ...any) {
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorRed(), fmt.Sprintf(msg, a...), ui.ColorReset())
}

func (r *REPL) cmdSet(args []string) {
	if len(args) != 2 {
		r.errorf("Usage: set <r|m|k|l|w|h0|epsilon> <value>")
		return
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		r.errorf("Invalid value: %s", args[1])
		return
	}
	name := strings.ToLower(args[0])
	switch name {
	case "w", "h0", "epsilon", "eps":
		if name == "eps" {
			name = "epsilon"
		}
		err = r.config.SetParameter(name, v)
	default:
		var c cosmo.Component
		if c, err = cosmo.ParseComponent(name); err == nil {
			err = r.config.SetComponent(c, v)
		}
	}
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	r.last = nil
	r.printModel()
}

func (r *REPL) cmdPreset(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: preset <name>")
		fmt.Fprintf(r.out, "Available presets: %s\n", strings.Join(r.presetNames(), ", "))
		return
	}
	if err := r.config.SelectPreset(args[0]); err != nil {
		r.errorf("Error: %v", err)
		fmt.Fprintf(r.out, "Available presets: %s\n", strings.Join(r.presetNames(), ", "))
		return
	}
	r.last = nil
	r.printModel()
}

func (r *REPL) presetNames() []string {
	if r.config.Catalog == nil {
		return config.DefaultCatalog().Names()
	}
	return r.config.Catalog.Names()
}

// solve integrates the current model, reusing the previous solution when
// nothing changed.
func (r *REPL) solve() (*cosmo.Solution, time.Duration, error) {
	if r.last != nil {
		return r.last, 0, nil
	}
	m, err := r.config.Model()
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	progressChan := make(chan cosmo.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	if r.progress {
		go DisplayProgress(&wg, progressChan, 1, r.out)
	} else {
		go orchestration.NullProgressReporter{}.DisplayProgress(&wg, progressChan, 1, r.out)
	}

	start := time.Now()
	sol, err := r.solver.Solve(ctx, m, r.config.ToOptions(), cosmo.ChannelReporter(progressChan, 0))
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()
	if err != nil {
		return nil, duration, err
	}
	r.last = sol
	return sol, duration, nil
}

func (r *REPL) cmdSolve() {
	sol, duration, err := r.solve()
	if err != nil {
		CLIResultPresenter{}.HandleError(err, duration, r.out)
		return
	}
	DisplaySolution(sol, duration, r.config.Details, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdEqualities() {
	m, err := r.config.Model()
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	eqs := cosmo.EqualityPoints(m)
	if len(eqs) == 0 {
		fmt.Fprintln(r.out, "No equality epochs (a single component).")
		return
	}
	for _, eq := range eqs {
		fmt.Fprintf(r.out, "  %s%s=%s%s  a = %s%s%s  z = %s\n",
			ui.ColorComponent(int(eq.First)), eq.First.Symbol(), eq.Second.Symbol(), ui.ColorReset(),
			ui.ColorCyan(), format.FormatFloat(eq.A, 5), ui.ColorReset(), format.FormatFloat(1/eq.A-1, 5))
	}
}

func (r *REPL) cmdPlot() {
	sol, duration, err := r.solve()
	if err != nil {
		CLIResultPresenter{}.HandleError(err, duration, r.out)
		return
	}
	if err := DisplayASCIIPlot(r.out, sol); err != nil {
		r.errorf("Error: %v", err)
	}
}

func (r *REPL) printModel() {
	m, err := r.config.Model()
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	fmt.Fprintf(r.out, "Model %s%s%s: ", ui.ColorGreen(), m.Name, ui.ColorReset())
	for i, c := range cosmo.Components {
		if i > 0 {
			fmt.Fprint(r.out, " ")
		}
		fmt.Fprintf(r.out, "%s%s%s=%s", ui.ColorComponent(int(c)), c.Symbol(), ui.ColorReset(), format.FormatFloat(m.Omega(c), 5))
	}
	fmt.Fprintf(r.out, " w=%s H0=%s (%s)\n", format.FormatFloat(m.W, 4), format.FormatFloat(m.H0, 4), m.Geometry())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	r.printModel()
	opts := r.config.ToOptions()
	fmt.Fprintf(r.out, "  Epsilon:   %s%s%s\n", ui.ColorCyan(), format.FormatFloat(opts.Epsilon, 4), ui.ColorReset())
	fmt.Fprintf(r.out, "  a range:   %s[%s, %s]%s\n", ui.ColorCyan(), format.FormatFloat(opts.AMin, 3), format.FormatFloat(opts.AMax, 3), ui.ColorReset())
	fmt.Fprintf(r.out, "  t max:     %s%s%s /H0\n", ui.ColorCyan(), format.FormatFloat(opts.TMax, 3), ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:   %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdList() {
	catalog := r.config.Catalog
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	current, _ := r.config.Model()
	fmt.Fprintf(r.out, "\n%sAvailable presets:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, p := range catalog.Presets() {
		marker := "  "
		if p.Model.Name == current.Name {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), p.Model.Name, ui.ColorReset(), p.Description)
	}
	fmt.Fprintln(r.out)
}
