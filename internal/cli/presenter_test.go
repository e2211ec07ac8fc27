package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/metrics"
	"github.com/agbru/friedmann/internal/orchestration"
)

func TestPresentComparisonTable(t *testing.T) {
	results := []orchestration.SolveResult{
		{Name: "lcdm", Solution: solve(t, lcdm()), Duration: 3 * time.Millisecond},
		{Name: "closed", Solution: solve(t, closedModel()), Duration: time.Millisecond},
		{Name: "de-sitter", Solution: solve(t, deSitter())},
		{Name: "broken", Err: errors.New("boom"), Duration: time.Millisecond},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	for _, want := range []string{
		"Comparison Summary", "Model", "Geometry", "Age [Gyr]", "Status",
		"lcdm", "flat", "closed", "big bang, turnaround, big crunch",
		"< 1µs", "Failure (boom)", "Success",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table does not contain %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2+len(results) {
		t.Fatalf("got %d lines, want %d", len(lines), 2+len(results))
	}
	status := strings.Index(lines[1], "Status")
	for _, line := range lines[2:] {
		if idx := strings.IndexAny(line, "✅❌⚠"); idx < 0 || len([]rune(line[:idx])) != len([]rune(lines[1][:status])) {
			t.Errorf("status column misaligned in %q", line)
		}
	}
}

func TestEventList(t *testing.T) {
	t.Parallel()
	if got := eventList(solve(t, deSitter())); got != "-" {
		t.Errorf("de Sitter events = %q, want -", got)
	}
	if got := eventList(solve(t, eds())); got != "big bang" {
		t.Errorf("EdS events = %q, want big bang", got)
	}
}

func TestPresentSolution(t *testing.T) {
	t.Parallel()
	res := orchestration.SolveResult{Name: "eds", Solution: solve(t, eds()), Duration: time.Millisecond}

	var quiet bytes.Buffer
	CLIResultPresenter{}.PresentSolution(res, orchestration.PresentationOptions{Quiet: true}, &quiet)
	if !strings.HasPrefix(quiet.String(), "eds age=0.66") || strings.Count(quiet.String(), "\n") != 1 {
		t.Errorf("quiet output = %q", quiet.String())
	}

	var full bytes.Buffer
	CLIResultPresenter{}.PresentSolution(res, orchestration.PresentationOptions{Details: true}, &full)
	for _, want := range []string{"--- eds ---", "Age:", "Steps:"} {
		if !strings.Contains(full.String(), want) {
			t.Errorf("output does not contain %q", want)
		}
	}

	var none bytes.Buffer
	CLIResultPresenter{}.PresentSolution(orchestration.SolveResult{Name: "x"}, orchestration.PresentationOptions{}, &none)
	if none.Len() != 0 {
		t.Errorf("a result without solution must print nothing, got %q", none.String())
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want int
	}{
		{nil, apperrors.ExitSuccess},
		{errors.New("boom"), apperrors.ExitErrorGeneric},
		{context.Canceled, apperrors.ExitErrorCanceled},
		{context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if got := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &buf); got != tt.want {
			t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	p := CLIResultPresenter{}
	if got := p.FormatDuration(0); got != "< 1µs" {
		t.Errorf("FormatDuration(0) = %q", got)
	}
	if got := p.FormatDuration(5 * time.Millisecond); got != "5ms" {
		t.Errorf("FormatDuration(5ms) = %q", got)
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemoryDelta{Allocated: 2048, GCCycles: 2, PeakHeap: 1 << 20}, 24000, &buf)
	for _, want := range []string{"Series size:     23.4 KiB", "Peak heap:       1.0 MiB", "Total allocated: 2.0 KiB", "GC cycles:       2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, buf.String())
		}
	}
}
