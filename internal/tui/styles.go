package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/friedmann/internal/ui"
)

// Style variables for the explorer.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	panelTitleStyle    lipgloss.Style
	labelStyle         lipgloss.Style
	valueStyle         lipgloss.Style
	selectedStyle      lipgloss.Style
	errorStyle         lipgloss.Style
	warningStyle       lipgloss.Style
	sliderFillStyle    lipgloss.Style
	sliderEmptyStyle   lipgloss.Style
	axisStyle          lipgloss.Style
	curveStyle         lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusSolvingStyle lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	sparklineStyle     lipgloss.Style
	componentStyles    [4]lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	panelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Info)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	warningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	sliderFillStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	sliderEmptyStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	axisStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	curveStyle = lipgloss.NewStyle().
		Foreground(t.Curve)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusSolvingStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	sparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	for i := range componentStyles {
		componentStyles[i] = lipgloss.NewStyle().Foreground(t.Components[i])
	}
}
