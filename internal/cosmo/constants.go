package cosmo

// ─────────────────────────────────────────────────────────────────────────────
// Physical Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// HubbleTimeGyrH0 is the Hubble time in Gyr multiplied by H0 in km/s/Mpc.
	// 1/H0 = 977.792/H0 Gyr.
	HubbleTimeGyrH0 = 977.792

	// DefaultH0 is the Hubble constant used when a model does not set one.
	DefaultH0 = 70.0

	// FlatTolerance is the curvature density below which a model is treated
	// as spatially flat. Presets that close the budget to the last digit
	// otherwise leave a 1e-17 residue that would be taken for curvature.
	FlatTolerance = 1e-9
)

// ─────────────────────────────────────────────────────────────────────────────
// Integrator Defaults
// ─────────────────────────────────────────────────────────────────────────────
//
// With dt = ε/H the scale factor changes by a fraction ε per step, so the
// number of steps to cover a decade of a is about ln(10)/ε. The defaults keep
// the relative error of the age below 0.1% for every built-in preset.

const (
	// DefaultEpsilon is the step size as a fraction of the local Hubble time.
	DefaultEpsilon = 1e-3

	// DefaultAMin stops the backward walk.
	DefaultAMin = 1e-6

	// DefaultAMax stops the forward walk.
	DefaultAMax = 1e3

	// DefaultTMax stops the forward walk, in Hubble times.
	DefaultTMax = 10.0

	// DefaultMaxStep caps dt when the expansion rate is close to zero
	// (loitering and turnaround).
	DefaultMaxStep = 0.05

	// DefaultMaxSteps bounds each walk.
	DefaultMaxSteps = 2_000_000

	// contextCheckInterval is the number of steps between two ctx.Err() checks.
	contextCheckInterval = 1024

	// progressGranularity is the smallest progress increase that is reported.
	progressGranularity = 0.01

	// eventBisections is the number of bisection rounds used to locate the
	// scale factor at which E(a) vanishes.
	eventBisections = 80
)
