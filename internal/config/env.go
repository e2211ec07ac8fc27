// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the FRIEDMANN_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value. apply
// reports whether the value was accepted.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) bool
}

// floatOverride builds the apply function of a float parameter.
func floatOverride(field func(*AppConfig) *float64) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, ok := parseFloatEnv(v)
		if ok {
			*field(c) = parsed
		}
		return ok
	}
}

// boolOverride builds the apply function of a boolean switch.
func boolOverride(field func(*AppConfig) *bool) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, ok := parseBoolEnv(v)
		if ok {
			*field(c) = parsed
		}
		return ok
	}
}

// stringOverride builds the apply function of a string setting.
func stringOverride(field func(*AppConfig) *string) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		*field(c) = v
		return true
	}
}

// envOverrides is the declarative table of all environment variable overrides,
// grouped as model, integrator, output and mode settings.
var envOverrides = []envOverride{
	// Model
	{"PRESET", []string{flagPreset}, stringOverride(func(c *AppConfig) *string { return &c.Preset })},
	{"PRESET_FILE", []string{"preset-file"}, stringOverride(func(c *AppConfig) *string { return &c.PresetFile })},
	{"OMEGA_R", []string{flagOmegaR}, floatOverride(func(c *AppConfig) *float64 { return &c.OmegaR })},
	{"OMEGA_M", []string{flagOmegaM}, floatOverride(func(c *AppConfig) *float64 { return &c.OmegaM })},
	{"OMEGA_L", []string{flagOmegaL}, floatOverride(func(c *AppConfig) *float64 { return &c.OmegaL })},
	{"W", []string{flagW}, floatOverride(func(c *AppConfig) *float64 { return &c.W })},
	{"H0", []string{flagH0}, floatOverride(func(c *AppConfig) *float64 { return &c.H0 })},

	// Integrator
	{"EPSILON", []string{"epsilon"}, floatOverride(func(c *AppConfig) *float64 { return &c.Epsilon })},
	{"A_MIN", []string{"a-min"}, floatOverride(func(c *AppConfig) *float64 { return &c.AMin })},
	{"A_MAX", []string{"a-max"}, floatOverride(func(c *AppConfig) *float64 { return &c.AMax })},
	{"T_MAX", []string{"t-max"}, floatOverride(func(c *AppConfig) *float64 { return &c.TMax })},
	{"MAX_STEP", []string{"max-step"}, floatOverride(func(c *AppConfig) *float64 { return &c.MaxStep })},
	{"MAX_STEPS", []string{"max-steps"}, func(c *AppConfig, v string) bool {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			c.MaxSteps = parsed
		}
		return err == nil
	}},
	{"NO_MIRROR", []string{"no-mirror"}, boolOverride(func(c *AppConfig) *bool { return &c.NoMirror })},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) bool {
		parsed, err := time.ParseDuration(v)
		if err == nil {
			c.Timeout = parsed
		}
		return err == nil
	}},

	// Output
	{"PLOT", []string{"plot"}, stringOverride(func(c *AppConfig) *string { return &c.Plot })},
	{"OUTPUT", []string{"output", "o"}, stringOverride(func(c *AppConfig) *string { return &c.OutputFile })},
	{"PNG", []string{"png"}, stringOverride(func(c *AppConfig) *string { return &c.PNGFile })},
	{"JSON", []string{"json"}, boolOverride(func(c *AppConfig) *bool { return &c.JSON })},
	{"DETAILS", []string{"d", "details"}, boolOverride(func(c *AppConfig) *bool { return &c.Details })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"v", "verbose"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},

	// Modes
	{"TUI", []string{"tui"}, boolOverride(func(c *AppConfig) *bool { return &c.TUI })},
	{"SERVE", []string{"serve"}, stringOverride(func(c *AppConfig) *string { return &c.Serve })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringOverride(func(c *AppConfig) *string { return &c.CalibrationProfile })},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func parseBoolEnv(val string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// parseFloatEnv parses a finite float.
func parseFloatEnv(val string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line, and marks
// the accepted ones as explicit. Unparsable values are ignored.
//
// Supported environment variables (all prefixed with FRIEDMANN_):
//   - PRESET, PRESET_FILE, OMEGA_R, OMEGA_M, OMEGA_L, W, H0
//   - EPSILON, A_MIN, A_MAX, T_MAX, MAX_STEP, MAX_STEPS, NO_MIRROR, TIMEOUT
//   - PLOT, OUTPUT, PNG, JSON, DETAILS, QUIET, VERBOSE
//   - TUI, SERVE, CALIBRATION_PROFILE
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" && o.apply(config, val) {
			config.MarkExplicit(canonicalFlag(o.flags[0]))
		}
	}
}
