package cosmo

import (
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// Options controls the integrator.
type Options struct {
	// Epsilon is the step as a fraction of the local Hubble time a/|ȧ|.
	Epsilon float64 `json:"epsilon"`
	// AMin stops the backward walk.
	AMin float64 `json:"a_min"`
	// AMax stops the forward walk.
	AMax float64 `json:"a_max"`
	// TMax stops the forward walk, in Hubble times. Mirrored branches are
	// trimmed to |t| ≤ TMax.
	TMax float64 `json:"t_max"`
	// MaxStep caps dt, in Hubble times.
	MaxStep float64 `json:"max_step"`
	// MaxSteps bounds the number of steps of each walk.
	MaxSteps int `json:"max_steps"`
	// Mirror completes recollapsing and bouncing histories by time reflection.
	Mirror bool `json:"mirror"`
}

// DefaultOptions returns the integrator defaults.
func DefaultOptions() Options {
	return Options{
		Epsilon:  DefaultEpsilon,
		AMin:     DefaultAMin,
		AMax:     DefaultAMax,
		TMax:     DefaultTMax,
		MaxStep:  DefaultMaxStep,
		MaxSteps: DefaultMaxSteps,
		Mirror:   true,
	}
}

// Validate checks that the options describe a walk that terminates.
func (o Options) Validate() error {
	switch {
	case !(o.Epsilon > 0 && o.Epsilon <= 0.5):
		return apperrors.ValidationError{Field: "epsilon", Message: "must be in (0, 0.5]"}
	case !(o.AMin > 0 && o.AMin < 1):
		return apperrors.ValidationError{Field: "a_min", Message: "must be in (0, 1)"}
	case !(o.AMax > 1):
		return apperrors.ValidationError{Field: "a_max", Message: "must be greater than 1"}
	case !(o.TMax > 0):
		return apperrors.ValidationError{Field: "t_max", Message: "must be positive"}
	case !(o.MaxStep > 0):
		return apperrors.ValidationError{Field: "max_step", Message: "must be positive"}
	case o.MaxSteps <= 0:
		return apperrors.ValidationError{Field: "max_steps", Message: "must be positive"}
	}
	return nil
}
