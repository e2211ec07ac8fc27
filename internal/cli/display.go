package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
	"github.com/agbru/friedmann/internal/metrics"
	"github.com/agbru/friedmann/internal/ui"
)

// significant digits used for physical quantities.
const sigDigits = 4

// DisplaySolution prints the summary of a solved model: the density
// budget, the age, the singular events and the table of equality epochs.
// details adds the integration statistics.
func DisplaySolution(sol *cosmo.Solution, duration time.Duration, details bool, out io.Writer) {
	m := sol.Model
	fmt.Fprintf(out, "\n%s--- %s ---%s\n", ui.ColorBold(), m.Name, ui.ColorReset())

	fmt.Fprintf(out, "Densities:   ")
	for i, c := range cosmo.Components {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		fmt.Fprintf(out, "%s%s%s=%s", ui.ColorComponent(int(c)), c.Symbol(), ui.ColorReset(), format.FormatFloat(m.Omega(c), sigDigits))
	}
	fmt.Fprintf(out, "  (%s%s%s)\n", ui.ColorCyan(), m.Geometry(), ui.ColorReset())
	fmt.Fprintf(out, "Dark energy: w = %s   H0 = %s km/s/Mpc (1/H0 = %s Gyr)\n",
		format.FormatFloat(m.W, sigDigits), format.FormatFloat(m.H0, sigDigits), format.FormatFloat(m.HubbleTimeGyr(), sigDigits))

	if sol.HasBigBang() {
		fmt.Fprintf(out, "Age:         %s%s%s /H0 = %s%s Gyr%s\n",
			ui.ColorGreen(), format.FormatFloat(sol.Age, sigDigits), ui.ColorReset(),
			ui.ColorGreen(), format.FormatFloat(sol.AgeGyr(), sigDigits), ui.ColorReset())
		fmt.Fprintf(out, "Big Bang:    t = %s /H0\n", format.FormatFloat(sol.TBang, sigDigits))
	} else {
		fmt.Fprintf(out, "Age:         %sno Big Bang%s (a > %s over the whole past)\n",
			ui.ColorYellow(), ui.ColorReset(), format.FormatFloat(minA(sol), sigDigits))
	}
	if ev := sol.Bounce; ev != nil {
		fmt.Fprintf(out, "Bounce:      a = %s at t = %s /H0\n", format.FormatFloat(ev.A, sigDigits), format.FormatFloat(ev.T, sigDigits))
	}
	if ev := sol.Turnaround; ev != nil {
		fmt.Fprintf(out, "Turnaround:  a = %s at t = %s /H0\n", format.FormatFloat(ev.A, sigDigits), format.FormatFloat(ev.T, sigDigits))
		if tc, ok := sol.BigCrunch(); ok {
			fmt.Fprintf(out, "Big Crunch:  t = %s /H0\n", format.FormatFloat(tc, sigDigits))
		}
	}
	dom := m.Dominant(1)
	fmt.Fprintf(out, "Today:       q0 = %s, dominated by %s%s%s\n",
		format.FormatFloat(m.Deceleration(1), sigDigits), ui.ColorComponent(int(dom)), dom, ui.ColorReset())

	DisplayEqualities(sol, out)

	if sol.Truncated {
		fmt.Fprintf(out, "\n%s⚠ The step limit was reached; the series is incomplete.%s\n", ui.ColorYellow(), ui.ColorReset())
	}

	if details {
		fmt.Fprintf(out, "\nIntegration:\n")
		fmt.Fprintf(out, "  Steps:        %s forward, %s backward\n", format.FormatCount(sol.Steps.Forward), format.FormatCount(sol.Steps.Backward))
		fmt.Fprintf(out, "  Samples:      %s\n", format.FormatCount(len(sol.Points)))
		fmt.Fprintf(out, "  Epsilon:      %s\n", format.FormatFloat(sol.Options.Epsilon, sigDigits))
		fmt.Fprintf(out, "  Time span:    [%s, %s] /H0\n", format.FormatFloat(sol.Points[0].T, sigDigits), format.FormatFloat(sol.Points[len(sol.Points)-1].T, sigDigits))
		fmt.Fprintf(out, "  Solve time:   %s\n", format.FormatExecutionDuration(duration))
		fmt.Fprintf(out, "  Series size:  %s\n", format.FormatBytes(metrics.SolutionFootprint(sol)))
	}
}

// DisplayEqualities prints the equality epochs with their scale factor,
// redshift and time. Times are cosmic times when the model has a Big Bang.
func DisplayEqualities(sol *cosmo.Solution, out io.Writer) {
	if len(sol.Equalities) == 0 {
		fmt.Fprintf(out, "\nNo equality epochs (a single component).\n")
		return
	}
	timeTitle := "t [1/H0]"
	if sol.HasBigBang() {
		timeTitle = "t − t_bang [1/H0]"
	}
	fmt.Fprintf(out, "\n%sEquality%s        %sa%s           %sz%s           %s%s%s   %sGyr%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), timeTitle, ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, eq := range sol.Equalities {
		pair := fmt.Sprintf("%s=%s", eq.First.Symbol(), eq.Second.Symbol())
		t, gyr := "not reached", ""
		if eq.Reached {
			tv := eq.T
			if sol.HasBigBang() {
				tv -= sol.TBang
			}
			t = format.FormatFloat(tv, sigDigits)
			gyr = format.FormatFloat(tv*sol.Model.HubbleTimeGyr(), sigDigits)
		}
		fmt.Fprintf(out, "%s%s%s%s  %-11s %-11s %-*s %s\n",
			ui.ColorComponent(int(eq.First)), pair, ui.ColorReset(), padRight("", 12-len([]rune(pair))),
			format.FormatFloat(eq.A, sigDigits), format.FormatFloat(1/eq.A-1, sigDigits),
			len([]rune(timeTitle))+2, t, gyr)
	}
}

// FormatQuietSolution returns a single line suitable for scripting:
// name, age in Hubble times, age in Gyr and the equality scale factors.
func FormatQuietSolution(sol *cosmo.Solution) string {
	fields := []string{
		sol.Model.Name,
		fmt.Sprintf("age=%s", format.FormatFloat(sol.Age, 6)),
		fmt.Sprintf("age_gyr=%s", format.FormatFloat(sol.AgeGyr(), 6)),
	}
	for _, eq := range sol.Equalities {
		fields = append(fields, fmt.Sprintf("a_%s_%s=%s", shortName(eq.First), shortName(eq.Second), format.FormatFloat(eq.A, 6)))
	}
	return strings.Join(fields, " ")
}

// DisplayQuietSolution prints FormatQuietSolution.
func DisplayQuietSolution(out io.Writer, sol *cosmo.Solution) {
	fmt.Fprintln(out, FormatQuietSolution(sol))
}

func shortName(c cosmo.Component) string {
	switch c {
	case cosmo.Radiation:
		return "r"
	case cosmo.Matter:
		return "m"
	case cosmo.Curvature:
		return "k"
	}
	return "l"
}

func minA(sol *cosmo.Solution) float64 {
	a := math.Inf(1)
	for _, p := range sol.Points {
		a = math.Min(a, p.A)
	}
	return a
}
