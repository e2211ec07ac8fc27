package tui

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
	"github.com/agbru/friedmann/internal/orchestration"
)

// DebounceDelay is the quiet time after the last edit before the model is
// integrated again.
const DebounceDelay = 150 * time.Millisecond

// ExecutionState holds the solve-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	solving    bool
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants of the explorer.
const (
	headerHeight       = 1
	footerHeight       = 1
	minBodyHeight      = 12
	minLeftWidth       = 38
	LeftPanelPercent   = 38
	SlidersPanelHeight = 7
)

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// leftWidth returns the width of the sliders and info column.
func (l LayoutManager) leftWidth() int {
	return max(l.width*LeftPanelPercent/100, minLeftWidth)
}

// rightWidth returns the width of the chart.
func (l LayoutManager) rightWidth() int {
	return max(l.width-l.leftWidth(), 0)
}

// infoHeight returns the height of the info panel.
func (l LayoutManager) infoHeight() int {
	return l.bodyHeight() - SlidersPanelHeight
}

// Model is the root bubbletea model of the explorer.
type Model struct {
	header  HeaderModel
	sliders SlidersModel
	info    InfoModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	solver    orchestration.Solver
	ref       *programRef
	debounce  time.Duration
	preset    string
	showHelp  bool
}

// NewModel creates the explorer for the model selected by cfg. With
// "--preset all" the first preset is used.
func NewModel(parentCtx context.Context, cfg config.AppConfig, version string) Model {
	if cfg.Catalog == nil {
		cfg.Catalog = config.DefaultCatalog()
	}
	if cfg.Preset == config.AllPresets {
		_ = cfg.SelectPreset(cfg.Catalog.Names()[0])
	}
	keymap := DefaultKeyMap()
	m := Model{
		header:    NewHeaderModel(version),
		sliders:   NewSlidersModel(),
		info:      NewInfoModel(),
		chart:     NewChartModel(),
		footer:    NewFooterModel(keymap.ShortHelp()),
		keymap:    keymap,
		parentCtx: parentCtx,
		config:    cfg,
		solver:    orchestration.DefaultSolver,
		ref:       &programRef{},
		debounce:  DebounceDelay,
		preset:    cfg.Preset,
	}
	m.ctx, m.cancel = context.WithCancel(parentCtx)
	m.solving = true
	m.header.SetSolving()
	m.readModel()
	return m
}

// Init starts the first solve and watches the parent context.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.solveCmd(),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case resolveMsg:
		if msg.Generation != m.generation {
			return m, nil // superseded by a later edit
		}
		m.cancel()
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.solving = true
		m.header.SetSolving()
		return m, m.solveCmd()

	case ProgressMsg:
		if msg.Generation == m.generation && m.solving {
			m.header.SetProgress(msg.Value)
		}
		return m, nil

	case SolvedMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous solve
		}
		m.solving = false
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) {
				return m, nil
			}
			m.info.SetError(msg.Err)
			m.header.SetDone(msg.Duration, true)
			return m, nil
		}
		m.info.SetSolution(msg.Solution, msg.Duration)
		if err := m.chart.SetSolution(msg.Solution); err != nil {
			m.info.SetError(err)
		}
		m.header.SetDone(msg.Duration, false)
		return m, nil

	case ContextCancelledMsg:
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help) || msg.Type == tea.KeyEsc {
			m.showHelp = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.sliders.Move(-1)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.sliders.Move(1)
		return m, nil

	case key.Matches(msg, m.keymap.Left):
		return m.nudge(-1, false)
	case key.Matches(msg, m.keymap.Right):
		return m.nudge(1, false)
	case key.Matches(msg, m.keymap.CoarseLeft):
		return m.nudge(-1, true)
	case key.Matches(msg, m.keymap.CoarseRight):
		return m.nudge(1, true)

	case key.Matches(msg, m.keymap.Reset):
		return m.selectPreset(m.preset)

	case key.Matches(msg, m.keymap.Preset):
		names := m.config.Catalog.Names()
		next := (slices.Index(names, m.preset) + 1) % len(names)
		return m.selectPreset(names[next])
	}

	return m, nil
}

// nudge moves the selected slider and schedules a solve. Invalid models
// are rejected without touching the configuration.
func (m Model) nudge(dir int, coarse bool) (tea.Model, tea.Cmd) {
	s := m.sliders.Selected()
	v := s.Nudge(dir, coarse)
	if v == s.Value {
		return m, nil
	}
	var err error
	if s.Param != "" {
		err = m.config.SetParameter(s.Param, v)
	} else {
		err = m.config.SetComponent(s.Component, v)
	}
	if err != nil {
		m.info.SetError(err)
		return m, nil
	}
	return m.changed()
}

func (m Model) selectPreset(name string) (tea.Model, tea.Cmd) {
	if err := m.config.SelectPreset(name); err != nil {
		m.info.SetError(err)
		return m, nil
	}
	m.preset = name
	return m.changed()
}

// changed refreshes the panels from the configuration and starts the
// debounce timer of a new generation.
func (m Model) changed() (tea.Model, tea.Cmd) {
	m.readModel()
	m.info.SetError(nil)
	m.generation++
	gen := m.generation
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return resolveMsg{Generation: gen}
	})
}

func (m *Model) readModel() {
	model, err := m.config.Model()
	if err != nil {
		m.info.SetError(err)
		return
	}
	m.sliders.Read(model)
	m.info.SetModel(model)
	m.header.SetModel(model.Name)
}

// solveCmd integrates the current model in the background.
func (m Model) solveCmd() tea.Cmd {
	ctx, solver, ref, gen := m.ctx, m.solver, m.ref, m.generation
	model, err := m.config.Model()
	opts, timeout := m.config.ToOptions(), m.config.Timeout
	return func() tea.Msg {
		if err != nil {
			return SolvedMsg{Err: err, Generation: gen}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		progressChan := make(chan cosmo.ProgressUpdate, orchestration.ProgressBufferMultiplier)
		var wg sync.WaitGroup
		wg.Add(1)
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		go reporter.DisplayProgress(&wg, progressChan, 1, io.Discard)

		start := time.Now()
		sol, err := solver.Solve(ctx, model, opts, cosmo.ChannelReporter(progressChan, 0))
		duration := time.Since(start)
		close(progressChan)
		wg.Wait()
		return SolvedMsg{Solution: sol, Duration: duration, Err: err, Generation: gen}
	}
}

// View renders the explorer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.sliders.View(), m.info.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.chart.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.sliders.SetSize(m.leftWidth(), SlidersPanelHeight)
	m.info.SetSize(m.leftWidth(), m.infoHeight())
	m.chart.SetSize(m.rightWidth(), m.bodyHeight())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, version)
	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		model.cancel()
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
	}
	return apperrors.ExitSuccess
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
