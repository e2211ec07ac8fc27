package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

func TestHandleSolveError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		duration time.Duration
		wantCode int
		wantText string
	}{
		{"nil error", nil, 0, ExitSuccess, ""},
		{"deadline", WrapError(context.DeadlineExceeded, "solve"), time.Second, ExitErrorTimeout, "timed out after 1s"},
		{"timeout type", TimeoutError{Operation: "solve", Limit: time.Second}, 0, ExitErrorTimeout, "timed out"},
		{"canceled", context.Canceled, 0, ExitErrorCanceled, "canceled"},
		{"validation", ValidationError{Field: "h0", Message: "must be positive"}, 0, ExitErrorConfig, "Invalid model"},
		{"config", NewConfigError("unknown preset %q", "foo"), 0, ExitErrorConfig, `unknown preset "foo"`},
		{"integration", IntegrationError{Direction: "forward", Cause: errors.New("nan")}, 0, ExitErrorGeneric, "Integration error"},
		{"generic", errors.New("boom"), 0, ExitErrorGeneric, "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleSolveError(tt.err, tt.duration, &buf, plainColors{})
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if tt.wantText == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("expected output to contain %q, got %q", tt.wantText, buf.String())
			}
		})
	}
}
