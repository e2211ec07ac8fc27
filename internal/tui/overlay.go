package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelpOverlay renders the key reference centered on the screen.
func (m Model) renderHelpOverlay() string {
	overlayWidth := min(56, max(m.width-4, 20))

	overlayStyle := lipgloss.NewStyle().
		Width(overlayWidth).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(titleStyle.GetForeground()).
		Padding(1, 2).
		Align(lipgloss.Left)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		overlayStyle.Render(buildHelpContent(m.keymap)))
}

// buildHelpContent lists every binding of km by group.
func buildHelpContent(km KeyMap) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FRIEDMANN EXPLORER - HELP"))
	b.WriteString("\n")

	groups := []string{"Selection", "Values", "Models", "Interface"}
	for i, bindings := range km.FullHelp() {
		b.WriteString("\n")
		b.WriteString(panelTitleStyle.Render(groups[i]))
		b.WriteString("\n")
		for _, binding := range bindings {
			b.WriteString(formatHelpLine(binding))
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Every change re-integrates the model."))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Press ? or Esc to close this help"))
	return b.String()
}

func formatHelpLine(binding key.Binding) string {
	h := binding.Help()
	return "  " + footerKeyStyle.Render(padRight(h.Key, 12)) + footerDescStyle.Render(h.Desc) + "\n"
}

func padRight(s string, width int) string {
	return s + spaces(width-lipgloss.Width(s))
}
