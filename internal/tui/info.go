package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
)

// solveHistory is the number of solve durations kept for the sparkline.
const solveHistory = 24

// InfoModel displays the properties of the last solution.
type InfoModel struct {
	model     cosmo.Model
	sol       *cosmo.Solution
	err       error
	durations *RingBuffer
	width     int
	height    int
}

// NewInfoModel creates a new info panel.
func NewInfoModel() InfoModel {
	return InfoModel{durations: NewRingBuffer(solveHistory)}
}

// SetSize updates dimensions.
func (m *InfoModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetModel sets the edited model. Its closed-form equalities are shown
// until a solution arrives.
func (m *InfoModel) SetModel(model cosmo.Model) {
	m.model = model
}

// SetSolution stores a successful solve.
func (m *InfoModel) SetSolution(sol *cosmo.Solution, d time.Duration) {
	m.sol = sol
	m.err = nil
	m.durations.Push(d.Seconds())
}

// SetError stores a failure. The previous solution stays visible.
func (m *InfoModel) SetError(err error) {
	m.err = err
}

// View renders the info panel.
func (m InfoModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Solution"))

	model := m.model
	b.WriteString("\n" + infoRow("Geometry:", fmt.Sprintf("%s (ΩK=%s)", model.Geometry(), format.FormatFloat(model.OmegaK(), 3))))
	b.WriteString("\n" + infoRow("Today:", fmt.Sprintf("q0=%s, %s dominated",
		format.FormatFloat(model.Deceleration(1), 3), model.Dominant(1).Symbol())))

	if m.sol != nil && m.sol.Model == model {
		b.WriteString(m.solutionRows())
	}

	eqs := cosmo.EqualityPoints(model)
	if m.sol != nil && m.sol.Model == model {
		eqs = m.sol.Equalities
	}
	if len(eqs) == 0 {
		b.WriteString("\n" + labelStyle.Render("No equality epochs"))
	}
	for _, eq := range eqs {
		name := componentStyles[eq.First].Render(eq.First.Symbol()) + "=" + componentStyles[eq.Second].Render(eq.Second.Symbol())
		fmt.Fprintf(&b, "\n %s %s %s", name,
			valueStyle.Render("a="+format.FormatFloat(eq.A, 3)),
			labelStyle.Render("z="+format.FormatFloat(1/eq.A-1, 3)))
	}

	if m.durations.Len() > 0 {
		d := time.Duration(m.durations.Last() * float64(time.Second))
		b.WriteString("\n" + infoRow("Solve:", format.FormatExecutionDuration(d)) + " " +
			sparklineStyle.Render(RenderSparkline(m.durations.Slice())))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(truncate(m.err.Error(), max(m.width-4, 8))))
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(b.String())
}

func (m InfoModel) solutionRows() string {
	var b strings.Builder
	sol := m.sol
	if sol.HasBigBang() {
		b.WriteString("\n" + infoRow("Age:", fmt.Sprintf("%s /H0 = %s Gyr",
			format.FormatFloat(sol.Age, 4), format.FormatFloat(sol.AgeGyr(), 4))))
	} else {
		b.WriteString("\n" + infoRow("Age:", "no Big Bang"))
	}
	if events := eventNames(sol); events != "" {
		b.WriteString("\n" + infoRow("Events:", events))
	}
	if sol.Truncated {
		b.WriteString("\n" + warningStyle.Render("Truncated at the step limit"))
	}
	return b.String()
}

func eventNames(sol *cosmo.Solution) string {
	var names []string
	if sol.Bounce != nil {
		names = append(names, "bounce")
	}
	if sol.Turnaround != nil {
		names = append(names, "turnaround")
	}
	if _, ok := sol.BigCrunch(); ok {
		names = append(names, "big crunch")
	}
	return strings.Join(names, ", ")
}

func infoRow(label, value string) string {
	return " " + labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + valueStyle.Render(value)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
