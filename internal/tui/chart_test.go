package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/agbru/friedmann/internal/plot"
)

func TestCanvas_Set(t *testing.T) {
	t.Parallel()
	c := NewCanvas(2, 1)
	c.Set(0, 0, inkCurve, priorityCurve)
	c.Set(3, 3, inkCurve, priorityCurve)
	c.Set(-1, 0, inkCurve, priorityCurve)
	c.Set(4, 0, inkCurve, priorityCurve)
	c.Set(0, 4, inkCurve, priorityCurve)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	want := string([]rune{brailleBlank | 0x01, brailleBlank | 0x80})
	if lines[0] != want {
		t.Errorf("Lines()[0] = %q, want %q", lines[0], want)
	}
}

func TestCanvas_Priority(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1, 1)
	c.Set(0, 0, 3, priorityGuide)
	c.Set(1, 1, inkCurve, priorityCurve)
	c.Set(0, 2, 2, priorityMarker)
	if c.key(0, 0) != inkCurve {
		t.Errorf("cell ink = %d, want the curve", c.key(0, 0))
	}
	if NewCanvas(1, 1).key(0, 0) != -1 {
		t.Error("empty cell has an ink")
	}
}

func TestCanvas_PlotConnectsColumns(t *testing.T) {
	t.Parallel()
	c := NewCanvas(1, 1)
	// A jump from the top row to the bottom row fills the second column.
	c.Plot([]float64{1, 0}, plot.Range{Min: 0, Max: 1}, inkCurve, priorityCurve, false)
	want := string(brailleBlank | 0x01 | 0x08 | 0x10 | 0x20 | 0x80)
	if got := c.Lines()[0]; got != want {
		t.Errorf("Lines()[0] = %q, want %q", got, want)
	}
}

func TestCanvas_PlotSkipsGaps(t *testing.T) {
	t.Parallel()
	c := NewCanvas(2, 1)
	c.Plot([]float64{math.NaN(), 5, 0.5, math.NaN()}, plot.Range{Min: 0, Max: 1}, inkCurve, priorityCurve, false)
	lines := c.Lines()[0]
	runes := []rune(lines)
	if runes[0] != brailleBlank {
		t.Errorf("first cell = %q, want blank", runes[0])
	}
	if runes[1] == brailleBlank {
		t.Error("second cell is blank")
	}
}

func TestCanvas_DashedPlot(t *testing.T) {
	t.Parallel()
	solid := NewCanvas(4, 1)
	dashed := NewCanvas(4, 1)
	values := make([]float64, 8)
	solid.Plot(values, plot.Range{Min: 0, Max: 1}, inkCurve, priorityGuide, false)
	dashed.Plot(values, plot.Range{Min: 0, Max: 1}, inkCurve, priorityGuide, true)
	if solid.Lines()[0] == dashed.Lines()[0] {
		t.Error("dashed plot is identical to the solid one")
	}
	if []rune(dashed.Lines()[0])[1] != brailleBlank {
		t.Errorf("dashed gap = %q", dashed.Lines()[0])
	}
}

func TestDrawFigure(t *testing.T) {
	t.Parallel()
	fig, err := plot.NewFigure(solveLCDM(t))
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(60, 12)
	DrawFigure(c, fig)
	filled := 0
	for _, line := range c.Lines() {
		for _, r := range line {
			if r != brailleBlank {
				filled++
			}
		}
	}
	if filled < 60 {
		t.Errorf("only %d cells drawn", filled)
	}
	inks := map[int]bool{}
	for r := range c.rows {
		for col := range c.width {
			inks[c.key(r, col)] = true
		}
	}
	if !inks[inkCurve] || len(inks) < 3 {
		t.Errorf("inks used = %v, want the curve and guides", inks)
	}
}

func TestChartModel_View(t *testing.T) {
	t.Parallel()
	chart := NewChartModel()
	chart.SetSize(80, 20)
	if !strings.Contains(chart.View(), "no solution") {
		t.Error("empty chart does not say so")
	}
	if err := chart.SetSolution(solveLCDM(t)); err != nil {
		t.Fatal(err)
	}
	view := chart.View()
	for _, want := range []string{"log a vs log t", "a(t)", "┤", "└", "t="} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
	chart.Reset()
	if !strings.Contains(chart.View(), "no solution") {
		t.Error("Reset did not clear the chart")
	}
}

func TestChartModel_SetSolutionError(t *testing.T) {
	t.Parallel()
	chart := NewChartModel()
	if err := chart.SetSolution(nil); err == nil {
		t.Error("nil solution accepted")
	}
}
