package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// recordingPresenter records which presentation methods were called.
type recordingPresenter struct {
	table    int
	solution []string
	errors   int
}

func (p *recordingPresenter) PresentComparisonTable(results []SolveResult, out io.Writer) {
	p.table++
}

func (p *recordingPresenter) PresentSolution(result SolveResult, opts PresentationOptions, out io.Writer) {
	p.solution = append(p.solution, result.Name)
}

func (p *recordingPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	p.errors++
	return apperrors.ExitErrorGeneric
}

// stubSolver returns a fixed solution, or an error for the named models.
func stubSolver(failing ...string) Solver {
	return SolverFunc(func(ctx context.Context, m cosmo.Model, opts cosmo.Options, report cosmo.ProgressFunc) (*cosmo.Solution, error) {
		for _, name := range failing {
			if m.Name == name {
				return nil, errors.New("stub failure")
			}
		}
		if report != nil {
			report(0.5)
			report(1)
		}
		return &cosmo.Solution{Model: m}, nil
	})
}

func TestExecuteSolves(t *testing.T) {
	t.Parallel()
	models := []cosmo.Model{
		cosmo.NewModel("eds", 0, 1, 0),
		cosmo.NewModel("milne", 0, 0, 0),
	}
	opts := cosmo.DefaultOptions()
	opts.Epsilon = 1e-2

	results := ExecuteSolves(context.Background(), models, opts, NullProgressReporter{}, io.Discard)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: unexpected error %v", r.Name, r.Err)
		}
		if r.Name != models[i].Name || r.Solution.Model.Name != models[i].Name {
			t.Errorf("result %d is %q, want input order", i, r.Name)
		}
		if r.Duration <= 0 {
			t.Errorf("%s: duration not recorded", r.Name)
		}
	}
}

func TestExecuteSolvesWith(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		failing   []string
		wantError []bool
	}{
		{"all succeed", nil, []bool{false, false, false}},
		{"one fails", []string{"b"}, []bool{false, true, false}},
		{"all fail", []string{"a", "b", "c"}, []bool{true, true, true}},
	}
	models := []cosmo.Model{cosmo.NewModel("a", 0, 1, 0), cosmo.NewModel("b", 0, 1, 0), cosmo.NewModel("c", 0, 1, 0)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteSolvesWith(context.Background(), stubSolver(tt.failing...), models, cosmo.DefaultOptions(), NullProgressReporter{}, io.Discard)
			for i, r := range results {
				if (r.Err != nil) != tt.wantError[i] {
					t.Errorf("%s: err = %v, want error %v", r.Name, r.Err, tt.wantError[i])
				}
			}
		})
	}
}

func TestExecuteSolvesReportsProgress(t *testing.T) {
	t.Parallel()
	var seen []cosmo.ProgressUpdate
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan cosmo.ProgressUpdate, n int, out io.Writer) {
		defer wg.Done()
		for u := range ch {
			seen = append(seen, u)
		}
	})
	models := []cosmo.Model{cosmo.NewModel("a", 0, 1, 0)}
	ExecuteSolvesWith(context.Background(), stubSolver(), models, cosmo.DefaultOptions(), reporter, io.Discard)
	if len(seen) != 2 || seen[1].Value != 1 || seen[1].Index != 0 {
		t.Errorf("progress updates = %+v", seen)
	}
}

func TestAnalyzeResults(t *testing.T) {
	t.Parallel()
	ok := func(name string) SolveResult {
		return SolveResult{Name: name, Solution: &cosmo.Solution{}, Duration: time.Millisecond}
	}
	fail := func(name string) SolveResult {
		return SolveResult{Name: name, Duration: time.Millisecond, Err: errors.New("fail")}
	}
	tests := []struct {
		name         string
		results      []SolveResult
		opts         PresentationOptions
		wantStatus   int
		wantTable    int
		wantSolution []string
		wantErrors   int
	}{
		{"single success", []SolveResult{ok("lcdm")}, PresentationOptions{}, apperrors.ExitSuccess, 0, []string{"lcdm"}, 0},
		{"single failure", []SolveResult{fail("lcdm")}, PresentationOptions{}, apperrors.ExitErrorGeneric, 0, nil, 1},
		{"all success", []SolveResult{ok("a"), ok("b")}, PresentationOptions{}, apperrors.ExitSuccess, 1, nil, 0},
		{"all success with details", []SolveResult{ok("a"), ok("b")}, PresentationOptions{Details: true}, apperrors.ExitSuccess, 1, []string{"a"}, 0},
		{"all failure", []SolveResult{fail("a"), fail("b")}, PresentationOptions{}, apperrors.ExitErrorGeneric, 1, nil, 1},
		{"failure sorted last", []SolveResult{fail("a"), ok("b")}, PresentationOptions{Details: true}, apperrors.ExitSuccess, 1, []string{"b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &recordingPresenter{}
			status := AnalyzeResults(tt.results, tt.opts, p, io.Discard)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if p.table != tt.wantTable || p.errors != tt.wantErrors {
				t.Errorf("table = %d, errors = %d; want %d, %d", p.table, p.errors, tt.wantTable, tt.wantErrors)
			}
			if len(p.solution) != len(tt.wantSolution) {
				t.Fatalf("solutions = %v, want %v", p.solution, tt.wantSolution)
			}
			for i := range p.solution {
				if p.solution[i] != tt.wantSolution[i] {
					t.Errorf("solutions = %v, want %v", p.solution, tt.wantSolution)
				}
			}
		})
	}
}
