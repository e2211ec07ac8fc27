package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/orchestration"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func currentModel(t *testing.T, m Model) cosmo.Model {
	t.Helper()
	model, err := m.config.Model()
	if err != nil {
		t.Fatal(err)
	}
	return model
}

// settle runs the debounce timer and the solve it triggers.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("edit did not schedule a solve")
	}
	resolve, ok := cmd().(resolveMsg)
	if !ok {
		t.Fatal("debounce command did not return a resolveMsg")
	}
	m, cmd = update(t, m, resolve)
	if cmd == nil || !m.solving {
		t.Fatal("resolveMsg did not start a solve")
	}
	m, _ = update(t, m, cmd())
	return m
}

func TestNewModel_AllPresetsSelectsFirst(t *testing.T) {
	m := newTestModel(t, "--preset", "all")
	if got := currentModel(t, m).Name; got != "lcdm" {
		t.Errorf("model = %q, want lcdm", got)
	}
	if !m.solving {
		t.Error("the first solve is not pending")
	}
}

func TestModel_NudgeSchedulesSolve(t *testing.T) {
	m := newTestModel(t)
	before := currentModel(t, m).OmegaM

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	after := currentModel(t, m)
	if math.Abs(after.OmegaM-(before+0.01)) > 1e-9 {
		t.Errorf("ΩM = %v, want %v", after.OmegaM, before+0.01)
	}
	if m.sliders.Selected().Value != after.OmegaM {
		t.Errorf("slider shows %v, model has %v", m.sliders.Selected().Value, after.OmegaM)
	}

	m = settle(t, m, cmd)
	if m.solving {
		t.Error("still solving after SolvedMsg")
	}
	if m.info.sol == nil || m.info.sol.Model != after {
		t.Error("info panel does not show the new solution")
	}
	if m.chart.fig == nil {
		t.Error("chart was not drawn")
	}
}

func TestModel_CoarseNudge(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	if got := currentModel(t, m).OmegaM; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("ΩM = %v, want 0.2", got)
	}
}

func TestModel_StaleMessagesIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, first := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	// The first edit's timer fires after a second edit.
	m, cmd := update(t, m, first())
	if cmd != nil {
		t.Error("superseded debounce started a solve")
	}
	m, _ = update(t, m, SolvedMsg{Err: errors.New("late"), Generation: m.generation - 1})
	if m.info.err != nil {
		t.Error("stale SolvedMsg was applied")
	}
	m, _ = update(t, m, ProgressMsg{Value: 0.5, Generation: m.generation + 1})
	if m.header.progress != 0 {
		t.Error("stale ProgressMsg was applied")
	}
}

func TestModel_PresetCycleAndReset(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, keyRunes("p"))
	if got := currentModel(t, m).Name; got != "eds" {
		t.Fatalf("after p: %q, want eds", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := currentModel(t, m).OmegaM; math.Abs(got-0.99) > 1e-9 {
		t.Fatalf("ΩM = %v, want 0.99", got)
	}
	m, cmd := update(t, m, keyRunes("r"))
	if got := currentModel(t, m); got.OmegaM != 1 || got.Name != "eds" {
		t.Errorf("after r: %+v, want eds", got)
	}
	if cmd == nil {
		t.Error("reset did not schedule a solve")
	}
}

func TestModel_SolveError(t *testing.T) {
	m := newTestModel(t)
	m.solver = orchestration.SolverFunc(func(context.Context, cosmo.Model, cosmo.Options, cosmo.ProgressFunc) (*cosmo.Solution, error) {
		return nil, errors.New("integration diverged")
	})
	m, _ = update(t, m, m.solveCmd()())
	if m.info.err == nil || !m.header.failed {
		t.Error("solve error not shown")
	}

	m, _ = update(t, m, SolvedMsg{Err: context.Canceled, Generation: m.generation})
	if !m.header.failed {
		t.Error("a canceled solve changed the status")
	}
}

func TestModel_QuitAndCancel(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q does not quit")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting did not cancel the solve")
	}

	m = newTestModel(t)
	_, cmd = update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("parent cancellation does not quit")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	if m.View() != "Initializing..." {
		t.Error("view before the first WindowSizeMsg")
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 36})
	m, _ = update(t, m, m.solveCmd()())

	view := m.View()
	for _, want := range []string{"Friedmann Explorer", "lcdm", "Solved in", "Parameters", "Solution", "Age:", "log a vs log t", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}

	m, _ = update(t, m, keyRunes("?"))
	if !strings.Contains(m.View(), "FRIEDMANN EXPLORER - HELP") {
		t.Error("? does not show the help")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("Esc does not close the help")
	}
}
