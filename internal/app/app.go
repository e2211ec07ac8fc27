// Package app wires the configuration to the run modes of the friedmann
// command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/friedmann/internal/calibration"
	"github.com/agbru/friedmann/internal/cli"
	"github.com/agbru/friedmann/internal/config"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/logging"
	"github.com/agbru/friedmann/internal/orchestration"
	"github.com/agbru/friedmann/internal/server"
	"github.com/agbru/friedmann/internal/tui"
	"github.com/agbru/friedmann/internal/ui"
	"github.com/agbru/friedmann/internal/watch"
)

// Application represents the friedmann application instance.
type Application struct {
	Config    config.AppConfig
	Catalog   *config.Catalog
	Solver    orchestration.Solver
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithCatalog replaces the built-in presets. A --preset-file is merged on
// top of it.
func WithCatalog(c *config.Catalog) AppOption {
	return func(a *Application) { a.Catalog = c }
}

// WithSolver replaces the Euler integrator.
func WithSolver(s orchestration.Solver) AppOption {
	return func(a *Application) { a.Solver = s }
}

// WithLogger replaces the console logger on stderr.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates an Application by parsing args, whose first element is the
// program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Catalog == nil {
		app.Catalog = config.DefaultCatalog()
	}
	if app.Solver == nil {
		app.Solver = orchestration.DefaultSolver
	}

	programName := "friedmann"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Catalog)
	if err != nil {
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = logging.NewDefaultLogger()
	}
	zerolog.SetGlobalLevel(logLevel(cfg))
	return app, nil
}

// logLevel keeps one-shot runs quiet and lets long-running modes report
// their lifecycle.
func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Verbose:
		return zerolog.DebugLevel
	case cfg.Serve != "" || cfg.Watch:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.applyStepSize(out)

	switch {
	case a.Config.Serve != "":
		return a.runServe(ctx, out)
	case a.Config.Watch:
		return a.runWatch(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL:
		return a.runREPL(out)
	default:
		return a.runSolve(ctx, out)
	}
}

// applyStepSize resolves ε from the calibration profile, then from the
// hardware estimate of interactive sessions.
func (a *Application) applyStepSize(out io.Writer) {
	if cfg, loaded := calibration.ApplyProfile(a.Config, out, a.Logger); loaded {
		a.Config = cfg
		return
	}
	a.Config = config.ApplyAdaptiveEpsilon(a.Config)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Config.Catalog.Names()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the step-size convergence study.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return calibration.Run(ctx, a.Config, out, a.Logger)
}

// runTUI launches the interactive explorer. The session has no global
// timeout; every solve is bounded by --timeout instead.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return tui.Run(ctx, a.Config, Version)
}

// runREPL starts the command prompt on stdin.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Config)
	repl.SetSolver(a.Solver)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runServe serves the HTTP API until a signal arrives.
func (a *Application) runServe(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.New(a.Config, a.Logger, server.WithSolver(a.Solver))
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Serving the Friedmann API on %s%s%s (Ctrl+C to stop).\n", ui.ColorCyan(), a.Config.Serve, ui.ColorReset())
	}
	if err := srv.ListenAndServe(ctx, a.Config.Serve); err != nil {
		a.Logger.Error("server failed", err, logging.String("addr", a.Config.Serve))
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runWatch re-solves the selected model whenever the preset file changes.
func (a *Application) runWatch(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	w, err := watch.New(a.Config, a.Catalog, a.reloadSolver(out), a.Logger)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// reloadSolver prints the solution of the selected model each time the
// watcher hands over a fresh configuration.
func (a *Application) reloadSolver(out io.Writer) watch.ReloadFunc {
	return func(ctx context.Context, cfg config.AppConfig) error {
		m, err := cfg.Model()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		start := time.Now()
		sol, err := a.Solver.Solve(ctx, m, cfg.ToOptions(), nil)
		duration := time.Since(start)
		if err != nil {
			apperrors.HandleSolveError(err, duration, out, ui.CLIColorProvider{})
			return err
		}
		if cfg.Quiet {
			cli.DisplayQuietSolution(out, sol)
			return nil
		}
		fmt.Fprintf(out, "\n--- %s%s%s solved at %s ---\n", ui.ColorGreen(), m.Name, ui.ColorReset(), time.Now().Format(time.TimeOnly))
		cli.DisplaySolution(sol, duration, cfg.Details, out)
		return nil
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
