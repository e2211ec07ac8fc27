// Package config parses the command line, FRIEDMANN_* environment variables
// and the preset catalog into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by the package.
const EnvPrefix = "FRIEDMANN_"

// Plot modes accepted by --plot.
const (
	PlotNone   = "none"
	PlotASCII  = "ascii"
	PlotPNG    = "png"
	PlotPyplot = "pyplot"
)

const (
	// DefaultPreset is used when neither --preset nor a density flag is given.
	DefaultPreset = "lcdm"
	// CustomModelName names a model built from density flags alone.
	CustomModelName = "custom"
	// DefaultTimeout bounds a single CLI run.
	DefaultTimeout = 1 * time.Minute
	// DefaultMaxConns caps concurrent HTTP connections in --serve mode.
	DefaultMaxConns = 64
)

// Flag names of the model parameters. A model parameter set by flag or
// environment overrides the preset value.
const (
	flagOmegaR = "omega-r"
	flagOmegaM = "omega-m"
	flagOmegaL = "omega-l"
	flagW      = "w"
	flagH0     = "h0"
	flagPreset = "preset"
)

var modelFlags = []string{flagOmegaR, flagOmegaM, flagOmegaL, flagW, flagH0}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Model selection.
	Preset     string
	PresetFile string
	OmegaR     float64
	OmegaM     float64
	OmegaL     float64
	W          float64
	H0         float64

	// Integrator.
	Epsilon  float64
	AMin     float64
	AMax     float64
	TMax     float64
	MaxStep  float64
	MaxSteps int
	NoMirror bool
	Timeout  time.Duration

	// Output.
	Plot       string
	OutputFile string
	PNGFile    string
	JSON       bool
	Details    bool
	Quiet      bool
	Verbose    bool
	NoColor    bool

	// Modes.
	TUI                bool
	REPL               bool
	Serve              string
	MaxConns           int
	Watch              bool
	Calibrate          bool
	CalibrationProfile string
	Completion         string
	Version            bool

	// Catalog holds the built-in presets plus those of PresetFile.
	Catalog *Catalog

	explicit map[string]bool
}

// IsExplicit reports whether the named flag was set on the command line or
// through its environment variable.
func (c AppConfig) IsExplicit(name string) bool {
	return c.explicit[name]
}

// MarkExplicit records that a value was chosen by the user. Used by the REPL
// when it edits the configuration.
func (c *AppConfig) MarkExplicit(name string) {
	if c.explicit == nil {
		c.explicit = make(map[string]bool)
	}
	c.explicit[name] = true
}

// ClearModelOverrides forgets density overrides so the preset values apply
// again.
func (c *AppConfig) ClearModelOverrides() {
	for _, name := range modelFlags {
		delete(c.explicit, name)
	}
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Precedence is command-line flags, then FRIEDMANN_* variables, then the
// selected preset, then the built-in defaults. A nil catalog means the
// built-in presets.
func ParseConfig(programName string, args []string, errWriter io.Writer, catalog *Catalog) (AppConfig, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	defaults := cosmo.DefaultOptions()

	fs.StringVar(&cfg.Preset, flagPreset, DefaultPreset, fmt.Sprintf("Model preset, or %q to compare every preset (%s).", AllPresets, strings.Join(catalog.Names(), ", ")))
	fs.StringVar(&cfg.PresetFile, "preset-file", "", "YAML file with additional presets.")
	fs.Float64Var(&cfg.OmegaR, flagOmegaR, 0, "Radiation density parameter ΩR (overrides the preset).")
	fs.Float64Var(&cfg.OmegaM, flagOmegaM, 0, "Matter density parameter ΩM (overrides the preset).")
	fs.Float64Var(&cfg.OmegaL, flagOmegaL, 0, "Dark energy density parameter ΩΛ (overrides the preset).")
	fs.Float64Var(&cfg.W, flagW, -1, "Dark energy equation of state w, in [-2, 0].")
	fs.Float64Var(&cfg.H0, flagH0, cosmo.DefaultH0, "Hubble constant in km/s/Mpc, used for Gyr conversions.")

	fs.Float64Var(&cfg.Epsilon, "epsilon", defaults.Epsilon, "Step size as a fraction of the local Hubble time.")
	fs.Float64Var(&cfg.AMin, "a-min", defaults.AMin, "Scale factor at which the backward walk stops.")
	fs.Float64Var(&cfg.AMax, "a-max", defaults.AMax, "Scale factor at which the forward walk stops.")
	fs.Float64Var(&cfg.TMax, "t-max", defaults.TMax, "Forward time limit in Hubble times.")
	fs.Float64Var(&cfg.MaxStep, "max-step", defaults.MaxStep, "Largest time step in Hubble times.")
	fs.IntVar(&cfg.MaxSteps, "max-steps", defaults.MaxSteps, "Step limit per direction.")
	fs.BoolVar(&cfg.NoMirror, "no-mirror", false, "Do not complete recollapse and bounce branches by time reflection.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 10s, 1m).")

	fs.StringVar(&cfg.Plot, "plot", PlotASCII, "Plot mode: none, ascii, png or pyplot.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the a(t) series as CSV to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&cfg.PNGFile, "png", "", "Write the log-log plot as PNG to this file.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the solution summary as JSON.")
	fs.BoolVar(&cfg.Details, "details", false, "Show integration details (steps, timings, memory).")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet mode: print only the results.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	fs.BoolVar(&cfg.TUI, "tui", false, "Start the interactive explorer.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start the interactive command prompt.")
	fs.StringVar(&cfg.Serve, "serve", "", "Serve the HTTP API on this address (e.g. :8080).")
	fs.IntVar(&cfg.MaxConns, "max-conns", DefaultMaxConns, "Maximum concurrent connections in --serve mode.")
	fs.BoolVar(&cfg.Watch, "watch", false, "Re-solve whenever --preset-file changes.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Run a step-size convergence study and store the result.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile (default ~/.friedmann_calibration.json).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")
	fs.BoolVar(&cfg.Version, "version", false, "Print version information and exit.")
	fs.BoolVar(&cfg.Version, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	cfg.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.explicit[canonicalFlag(f.Name)] = true })
	applyEnvOverrides(&cfg, fs)

	cfg.Preset = strings.ToLower(strings.TrimSpace(cfg.Preset))
	cfg.Plot = strings.ToLower(strings.TrimSpace(cfg.Plot))

	cfg.Catalog = catalog.Clone()
	if cfg.PresetFile != "" {
		if err := cfg.Catalog.MergeFile(cfg.PresetFile); err != nil {
			return AppConfig{}, apperrors.NewConfigError("loading preset file: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// clone returns a copy whose explicit set can be changed independently.
func (c AppConfig) clone() AppConfig {
	out := c
	out.explicit = make(map[string]bool, len(c.explicit))
	for k, v := range c.explicit {
		out.explicit[k] = v
	}
	return out
}

// SelectPreset switches to a preset and drops the parameter overrides.
func (c *AppConfig) SelectPreset(name string) error {
	next := c.clone()
	next.Preset = strings.ToLower(strings.TrimSpace(name))
	next.MarkExplicit(flagPreset)
	next.ClearModelOverrides()
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// SetComponent overrides the present-day density of comp on top of the
// current model. Setting curvature adjusts ΩΛ. The configuration is left
// unchanged if the result does not validate.
func (c *AppConfig) SetComponent(comp cosmo.Component, omega float64) error {
	m, err := c.Model()
	if err != nil {
		return err
	}
	m = m.With(comp, omega)
	next := c.clone()
	if !next.customModel() {
		next.MarkExplicit(flagPreset)
	}
	next.OmegaR, next.OmegaM, next.OmegaL = m.OmegaR, m.OmegaM, m.OmegaL
	for _, name := range []string{flagOmegaR, flagOmegaM, flagOmegaL} {
		next.MarkExplicit(name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// SetParameter sets "w", "h0" or "epsilon". The configuration is left
// unchanged if the result does not validate.
func (c *AppConfig) SetParameter(name string, v float64) error {
	next := c.clone()
	switch name {
	case flagW:
		next.W = v
	case flagH0:
		next.H0 = v
	case "epsilon":
		next.Epsilon = v
	default:
		return apperrors.NewConfigError("unknown parameter %q (expected w, h0 or epsilon)", name)
	}
	if name != "epsilon" && !next.customModel() {
		next.MarkExplicit(flagPreset)
	}
	next.MarkExplicit(name)
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// canonicalFlag maps shorthand flags to their long names.
func canonicalFlag(name string) string {
	switch name {
	case "o":
		return "output"
	case "d":
		return "details"
	case "q":
		return "quiet"
	case "v":
		return "verbose"
	case "V":
		return "version"
	}
	return name
}

// customModel reports whether the model is built from density flags alone,
// which is the case when densities were given and the preset was not.
func (c AppConfig) customModel() bool {
	if c.IsExplicit(flagPreset) {
		return false
	}
	for _, name := range []string{flagOmegaR, flagOmegaM, flagOmegaL} {
		if c.IsExplicit(name) {
			return true
		}
	}
	return false
}

// applyOverrides replaces the preset values of m by the explicit ones.
func (c AppConfig) applyOverrides(m cosmo.Model) cosmo.Model {
	if c.IsExplicit(flagOmegaR) {
		m.OmegaR = c.OmegaR
	}
	if c.IsExplicit(flagOmegaM) {
		m.OmegaM = c.OmegaM
	}
	if c.IsExplicit(flagOmegaL) {
		m.OmegaL = c.OmegaL
	}
	if c.IsExplicit(flagW) {
		m.W = c.W
	}
	if c.IsExplicit(flagH0) {
		m.H0 = c.H0
	}
	return m
}

// Models resolves the selected preset, or every preset for "all", with the
// explicit parameter overrides applied.
func (c AppConfig) Models() ([]cosmo.Model, error) {
	if c.customModel() {
		return []cosmo.Model{c.applyOverrides(cosmo.NewModel(CustomModelName, 0, 0, 0))}, nil
	}
	catalog := c.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if c.Preset == AllPresets {
		presets := catalog.Presets()
		models := make([]cosmo.Model, len(presets))
		for i, p := range presets {
			models[i] = c.applyOverrides(p.Model)
		}
		return models, nil
	}
	p, ok := catalog.Get(c.Preset)
	if !ok {
		return nil, apperrors.NewConfigError("unknown preset %q (available: %s)", c.Preset, strings.Join(catalog.Names(), ", "))
	}
	return []cosmo.Model{c.applyOverrides(p.Model)}, nil
}

// Model returns the single selected model. With "all" it returns the first
// preset.
func (c AppConfig) Model() (cosmo.Model, error) {
	models, err := c.Models()
	if err != nil {
		return cosmo.Model{}, err
	}
	return models[0], nil
}

// ToOptions converts the integrator settings.
func (c AppConfig) ToOptions() cosmo.Options {
	return cosmo.Options{
		Epsilon:  c.Epsilon,
		AMin:     c.AMin,
		AMax:     c.AMax,
		TMax:     c.TMax,
		MaxStep:  c.MaxStep,
		MaxSteps: c.MaxSteps,
		Mirror:   !c.NoMirror,
	}
}

// Validate checks the configuration. Every failure is an
// apperrors.ConfigError.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	switch c.Plot {
	case PlotNone, PlotASCII, PlotPNG, PlotPyplot:
	default:
		return apperrors.NewConfigError("unknown plot mode %q (expected none, ascii, png or pyplot)", c.Plot)
	}
	if c.Plot == PlotPNG && c.PNGFile == "" {
		return apperrors.NewConfigError("--plot png requires --png <file>")
	}
	if c.TUI && c.REPL {
		return apperrors.NewConfigError("--tui and --repl are mutually exclusive")
	}
	if c.Watch && c.PresetFile == "" {
		return apperrors.NewConfigError("--watch requires --preset-file")
	}
	if c.Serve != "" && c.MaxConns <= 0 {
		return apperrors.NewConfigError("--max-conns must be positive")
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported completion shell %q (expected bash, zsh or fish)", c.Completion)
	}
	if err := c.ToOptions().Validate(); err != nil {
		return apperrors.NewConfigError("invalid integrator settings: %v", err)
	}
	models, err := c.Models()
	if err != nil {
		return err
	}
	for _, m := range models {
		if err := m.Validate(); err != nil {
			return apperrors.NewConfigError("invalid model %q: %v", m.Name, err)
		}
	}
	return nil
}
