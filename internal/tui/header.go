package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/friedmann/internal/format"
)

// HeaderModel renders the top bar: title, version, model and solve status.
type HeaderModel struct {
	version  string
	model    string
	solving  bool
	progress float64
	duration time.Duration
	failed   bool
	width    int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetModel sets the displayed model name.
func (h *HeaderModel) SetModel(name string) {
	h.model = name
}

// SetSolving marks a solve in progress.
func (h *HeaderModel) SetSolving() {
	h.solving = true
	h.failed = false
	h.progress = 0
}

// SetProgress updates the fraction of the running solve.
func (h *HeaderModel) SetProgress(p float64) {
	h.progress = p
}

// SetDone records the outcome of the last solve.
func (h *HeaderModel) SetDone(d time.Duration, failed bool) {
	h.solving = false
	h.duration = d
	h.failed = failed
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Friedmann Explorer"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe + valueStyle.Render(h.model) + pipe

	var status string
	switch {
	case h.solving:
		status = statusSolvingStyle.Render(fmt.Sprintf("Solving %3.0f%%", h.progress*100))
	case h.failed:
		status = statusErrorStyle.Render("Failed")
	default:
		status = statusDoneStyle.Render("Solved in " + format.FormatExecutionDuration(h.duration))
	}

	row := left + status
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + spaces(gap))
}

// FooterModel renders the key help line.
type FooterModel struct {
	bindings []key.Binding
	width    int
}

// NewFooterModel creates a footer listing bindings.
func NewFooterModel(bindings []key.Binding) FooterModel {
	return FooterModel{bindings: bindings}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	parts := make([]string, 0, len(f.bindings))
	for _, b := range f.bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return lipgloss.NewStyle().Width(f.width).Padding(0, 1).Render(strings.Join(parts, "  "))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
