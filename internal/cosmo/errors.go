package cosmo

import "errors"

var (
	// ErrNonFinite is the cause of an IntegrationError raised when a step
	// produces NaN or ±Inf.
	ErrNonFinite = errors.New("non-finite value in integration")

	// ErrStepLimit reports that a walk stopped at Options.MaxSteps before
	// reaching its natural end.
	ErrStepLimit = errors.New("step limit reached")

	// ErrOutOfRange is returned by Solution.TimeAt for scale factors the
	// expanding branch never reaches.
	ErrOutOfRange = errors.New("scale factor outside the integrated range")

	// ErrNoBigBang is returned when an operation needs cosmic time and the
	// solution has no Big Bang.
	ErrNoBigBang = errors.New("solution has no Big Bang")
)
