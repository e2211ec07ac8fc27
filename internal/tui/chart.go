package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/plot"
	"github.com/agbru/friedmann/internal/ui"
)

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
// Column 0: dots 1,2,3,7 (bits 0,1,2,6)
// Column 1: dots 4,5,6,8 (bits 3,4,5,7)
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

const brailleBlank rune = 0x2800

// Drawing priorities: a cell takes the color of the most important layer
// drawn into it.
const (
	priorityCurve = iota
	priorityMarker
	priorityGuide
	priorityNone
)

// Inks index the chart palette: the curve, then one ink per component.
const inkCurve = 0

func componentInk(c cosmo.Component) int { return int(c) + 1 }

// Canvas is a grid of braille cells, each 2 dots wide and 4 dots tall.
type Canvas struct {
	width, rows int
	cells       [][]rune
	ink         [][]int
	priority    [][]int
}

// NewCanvas creates an empty canvas of width × rows cells.
func NewCanvas(width, rows int) *Canvas {
	c := &Canvas{width: max(width, 0), rows: max(rows, 0)}
	c.cells = make([][]rune, c.rows)
	c.ink = make([][]int, c.rows)
	c.priority = make([][]int, c.rows)
	for r := range c.cells {
		c.cells[r] = make([]rune, c.width)
		c.ink[r] = make([]int, c.width)
		c.priority[r] = make([]int, c.width)
		for col := range c.cells[r] {
			c.cells[r][col] = brailleBlank
			c.priority[r][col] = priorityNone
		}
	}
	return c
}

// DotWidth returns the number of dot columns.
func (c *Canvas) DotWidth() int { return c.width * 2 }

// DotHeight returns the number of dot rows.
func (c *Canvas) DotHeight() int { return c.rows * 4 }

// Set turns on the dot at column x and row y, counted from the top left.
// Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y, ink, priority int) {
	if x < 0 || y < 0 || x >= c.DotWidth() || y >= c.DotHeight() {
		return
	}
	row, col := y/4, x/2
	c.cells[row][col] |= brailleDots[x%2][y%4]
	if priority < c.priority[row][col] {
		c.priority[row][col] = priority
		c.ink[row][col] = ink
	}
}

// dotRow maps v to a dot row, reporting false outside r.
func (c *Canvas) dotRow(v float64, r plot.Range) (int, bool) {
	if math.IsNaN(v) || !r.Contains(v) || r.Span() <= 0 {
		return 0, false
	}
	return int(math.Round((r.Max - v) / r.Span() * float64(c.DotHeight()-1))), true
}

// Plot draws one value per dot column. Consecutive columns are joined
// vertically so that steep stretches stay connected. Dashed series leave
// every other pair of columns empty.
func (c *Canvas) Plot(values []float64, r plot.Range, ink, priority int, dashed bool) {
	prev, havePrev := 0, false
	for x, v := range values {
		y, ok := c.dotRow(v, r)
		if !ok {
			havePrev = false
			continue
		}
		if dashed && (x/2)%2 == 1 {
			prev, havePrev = y, true
			continue
		}
		lo, hi := y, y
		if havePrev {
			lo, hi = min(y, prev), max(y, prev)
		}
		for yy := lo; yy <= hi; yy++ {
			c.Set(x, yy, ink, priority)
		}
		prev, havePrev = y, true
	}
}

// Mark draws a 2 × 2 dot block centered on (x, y) in the coordinates of xr
// and yr.
func (c *Canvas) Mark(x, y float64, xr, yr plot.Range, ink int) {
	if !xr.Contains(x) || xr.Span() <= 0 {
		return
	}
	row, ok := c.dotRow(y, yr)
	if !ok {
		return
	}
	col := int(math.Round((x - xr.Min) / xr.Span() * float64(c.DotWidth()-1)))
	for dx := range 2 {
		for dy := range 2 {
			c.Set(col+dx, row+dy, ink, priorityMarker)
		}
	}
}

// Lines returns the canvas as plain text.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for r := range c.cells {
		out[r] = string(c.cells[r])
	}
	return out
}

// Render returns the canvas with every run of cells colored by its ink.
func (c *Canvas) Render(inks []lipgloss.Style) []string {
	out := make([]string, c.rows)
	for r := range c.cells {
		var b strings.Builder
		start := 0
		for col := 1; col <= c.width; col++ {
			if col < c.width && c.key(r, col) == c.key(r, start) {
				continue
			}
			run := string(c.cells[r][start:col])
			if k := c.key(r, start); k >= 0 && k < len(inks) {
				run = inks[k].Render(run)
			}
			b.WriteString(run)
			start = col
		}
		out[r] = b.String()
	}
	return out
}

// key returns the ink of a cell, or -1 for an empty cell.
func (c *Canvas) key(r, col int) int {
	if c.priority[r][col] == priorityNone {
		return -1
	}
	return c.ink[r][col]
}

// inkOf maps a raster color of the figure to a chart ink.
func inkOf(hex string) int {
	for i, h := range ui.ComponentHex {
		if h == hex {
			return componentInk(cosmo.Component(i))
		}
	}
	return inkCurve
}

// DrawFigure renders the curve, guides and markers of fig onto c.
func DrawFigure(c *Canvas, fig *plot.Figure) {
	n := c.DotWidth()
	for _, g := range fig.Guides {
		c.Plot(plot.Resample(g, fig.X, n), fig.Y, inkOf(g.Color), priorityGuide, true)
	}
	c.Plot(plot.Resample(fig.Curve, fig.X, n), fig.Y, inkCurve, priorityCurve, false)
	for _, m := range fig.Markers {
		c.Mark(m.X, m.Y, fig.X, fig.Y, inkOf(m.Color))
	}
}

// yLabelWidth is the width of the y axis labels.
const yLabelWidth = 9

// ChartModel is the log-log diagram panel.
type ChartModel struct {
	fig    *plot.Figure
	width  int
	height int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{}
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// SetSolution replaces the diagram. On error the chart is cleared.
func (c *ChartModel) SetSolution(sol *cosmo.Solution) error {
	fig, err := plot.NewFigure(sol)
	if err != nil {
		c.fig = nil
		return err
	}
	c.fig = fig
	return nil
}

// Reset clears the diagram.
func (c *ChartModel) Reset() {
	c.fig = nil
}

func (c ChartModel) inks() []lipgloss.Style {
	inks := []lipgloss.Style{curveStyle}
	return append(inks, componentStyles[:]...)
}

// View renders the chart panel.
func (c ChartModel) View() string {
	innerW := max(c.width-2, 0)
	innerH := max(c.height-2, 0)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("log a vs log t"))
	if c.fig == nil {
		b.WriteString("\n" + labelStyle.Render("no solution"))
		return panelStyle.Width(innerW).Height(innerH).Render(b.String())
	}
	b.WriteString(labelStyle.Render("  " + c.fig.XLabel))

	cols := innerW - yLabelWidth - 1
	rows := innerH - 4
	if cols < 4 || rows < 2 {
		return panelStyle.Width(innerW).Height(innerH).Render(b.String())
	}

	canvas := NewCanvas(cols, rows)
	DrawFigure(canvas, c.fig)
	lines := canvas.Render(c.inks())
	for r, line := range lines {
		label := ""
		switch r {
		case 0:
			label = yLabel(c.fig.Y.Max)
		case rows / 2:
			label = yLabel((c.fig.Y.Max + c.fig.Y.Min) / 2)
		case rows - 1:
			label = yLabel(c.fig.Y.Min)
		}
		b.WriteString("\n" + axisStyle.Render(padLeft(label, yLabelWidth)+"┤") + line)
	}
	b.WriteString("\n" + axisStyle.Render(spaces(yLabelWidth)+"└"+strings.Repeat("─", cols)))

	left := "t=" + format.FormatFloat(math.Pow(10, c.fig.X.Min), 2)
	right := format.FormatFloat(math.Pow(10, c.fig.X.Max), 2)
	gap := max(cols-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString("\n" + axisStyle.Render(spaces(yLabelWidth+1)+left+spaces(gap)+right))
	b.WriteString("\n" + spaces(yLabelWidth+1) + c.legend())

	return panelStyle.Width(innerW).Height(innerH).Render(b.String())
}

func (c ChartModel) legend() string {
	parts := []string{curveStyle.Render("━ a(t)")}
	for _, comp := range cosmo.Components {
		parts = append(parts, componentStyles[comp].Render("╌ "+comp.Symbol()))
	}
	return strings.Join(parts, "  ")
}

func yLabel(log10a float64) string {
	return "a=" + format.FormatFloat(math.Pow(10, log10a), 2)
}

func padLeft(s string, width int) string {
	return spaces(width-lipgloss.Width(s)) + s
}
