package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/agbru/friedmann/internal/cosmo"
	"github.com/agbru/friedmann/internal/format"
)

// coarseFactor multiplies the step of a slider for shifted keys.
const coarseFactor = 10

// paramW names the dark-energy equation of state slider.
const paramW = "w"

// Slider edits one model parameter within [Min, Max].
type Slider struct {
	Label string
	// Component is the density edited by the slider. It is ignored when
	// Param is set.
	Component cosmo.Component
	// Param names a non-density parameter ("w").
	Param    string
	Min, Max float64
	Step     float64
	Value    float64
}

// DefaultSliders returns the sliders of ΩR, ΩM, ΩΛ and w.
func DefaultSliders() []Slider {
	return []Slider{
		{Label: cosmo.Radiation.Symbol(), Component: cosmo.Radiation, Min: 0, Max: 0.05, Step: 1e-4},
		{Label: cosmo.Matter.Symbol(), Component: cosmo.Matter, Min: 0, Max: 3, Step: 0.01},
		{Label: cosmo.DarkEnergy.Symbol(), Component: cosmo.DarkEnergy, Min: -1, Max: 3, Step: 0.01},
		{Label: "w", Param: paramW, Min: -2, Max: 0, Step: 0.01},
	}
}

// Read sets Value from m.
func (s *Slider) Read(m cosmo.Model) {
	if s.Param == paramW {
		s.Value = m.W
		return
	}
	s.Value = m.Omega(s.Component)
}

// Nudge returns the value moved by dir steps (coarse steps when coarse is
// set), clamped to the range and snapped to the step grid.
func (s Slider) Nudge(dir int, coarse bool) float64 {
	step := s.Step
	if coarse {
		step *= coarseFactor
	}
	v := s.Value + float64(dir)*step
	v = math.Round(v/s.Step) * s.Step
	return math.Max(s.Min, math.Min(s.Max, v))
}

// fraction returns the position of Value in the range.
func (s Slider) fraction() float64 {
	span := s.Max - s.Min
	if span <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (s.Value-s.Min)/span))
}

// SlidersModel is the parameter panel.
type SlidersModel struct {
	sliders  []Slider
	selected int
	width    int
	height   int
}

// NewSlidersModel creates the panel with the default sliders.
func NewSlidersModel() SlidersModel {
	return SlidersModel{sliders: DefaultSliders()}
}

// SetSize updates dimensions.
func (p *SlidersModel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// Read refreshes every slider from m.
func (p *SlidersModel) Read(m cosmo.Model) {
	for i := range p.sliders {
		p.sliders[i].Read(m)
	}
}

// Move changes the selection by delta, wrapping around.
func (p *SlidersModel) Move(delta int) {
	n := len(p.sliders)
	p.selected = ((p.selected+delta)%n + n) % n
}

// Selected returns the selected slider.
func (p SlidersModel) Selected() Slider {
	return p.sliders[p.selected]
}

// View renders the panel.
func (p SlidersModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Parameters"))

	barWidth := max(p.width-24, 6)
	for i, s := range p.sliders {
		b.WriteString("\n")
		cursor := "  "
		label := fmt.Sprintf("%-3s", s.Label)
		if s.Param == "" {
			label = componentStyles[s.Component].Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		if i == p.selected {
			cursor = selectedStyle.Render("► ")
		}
		fill := int(math.Round(s.fraction() * float64(barWidth)))
		bar := sliderFillStyle.Render(strings.Repeat("━", fill)) +
			sliderEmptyStyle.Render(strings.Repeat("─", barWidth-fill))
		fmt.Fprintf(&b, "%s%s %s %s", cursor, label, bar, valueStyle.Render(format.FormatFloat(s.Value, 4)))
	}

	return panelStyle.
		Width(max(p.width-2, 0)).
		Height(max(p.height-2, 0)).
		Render(b.String())
}
