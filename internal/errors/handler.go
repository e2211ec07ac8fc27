package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when reporting an error.
// The CLI passes its themed colors; tests and non-terminal callers can pass
// an implementation that returns empty strings.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleSolveError reports a failed solve on out and maps it to an exit code.
//
// Parameters:
//   - err: The error returned by the solve, or nil.
//   - duration: How long the solve ran before failing (0 when unknown).
//   - out: The writer used for the report.
//   - colors: The color provider for the report.
//
// Returns:
//   - int: ExitSuccess for a nil error, otherwise the matching exit code.
func HandleSolveError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var (
		cfgErr     ConfigError
		valErr     ValidationError
		timeoutErr TimeoutError
		integErr   IntegrationError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sSolve timed out%s: %v%s\n", colors.Yellow(), suffix, err, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sSolve canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		fmt.Fprintf(out, "%sInvalid model: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	case errors.As(err, &integErr):
		fmt.Fprintf(out, "%sIntegration error%s: %v%s\n", colors.Red(), suffix, integErr, colors.Reset())
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "%sError%s: %v%s\n", colors.Red(), suffix, err, colors.Reset())
		return ExitErrorGeneric
	}
}
