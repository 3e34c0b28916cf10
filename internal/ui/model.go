package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cheesefinder/internal/config"
	"cheesefinder/internal/domain"
	"cheesefinder/internal/eventbus"
	"cheesefinder/internal/pipeline"
	"cheesefinder/internal/scheduler"
	"cheesefinder/internal/stream"
	"cheesefinder/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// Deps are the collaborators the search screen is built from
type Deps struct {
	Config     *config.Config
	Searcher   pipeline.Searcher
	Background scheduler.Scheduler
	// UI overrides the UI context; by default tasks are posted to the program
	UI     scheduler.Scheduler
	Clock  stream.Clock
	Bus    eventbus.EventBus
	Logger *slog.Logger
	// E2E renders a ready marker for the pty tests
	E2E bool
}

type focusTarget int

const (
	focusInput focusTarget = iota
	focusButton
)

// Model is the search screen
type Model struct {
	input  textinput.Model
	field  *textField
	button *button
	focus  focusTarget

	spinner         spinner.Model
	progressVisible bool

	result    domain.SearchResult
	hasResult bool
	viewport  viewport.Model

	help     help.Model
	keys     keyMap
	renderer *views.Renderer

	controller *pipeline.Controller
	uiSched    *programScheduler // nil when Deps.UI was given
	program    *tea.Program
	logger     *slog.Logger

	width   int
	height  int
	visible bool
	inPager bool

	statusMessage string
	statusIsError bool
	statusID      int

	// commands produced outside a key or message handler, returned by the next Update
	pending []tea.Cmd
	e2e     bool
}

// NewModel creates the search screen. Its pipeline is stopped until Init.
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "brie, cheddar, gouda..."
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	m := &Model{
		input:    ti,
		field:    &textField{},
		button:   &button{},
		spinner:  sp,
		viewport: viewport.New(60, 10),
		help:     help.New(),
		keys:     defaultKeyMap(),
		renderer: views.NewRenderer(),
		logger:   logger,
		e2e:      deps.E2E,
	}

	ui := deps.UI
	if ui == nil {
		m.uiSched = newProgramScheduler(logger)
		ui = m.uiSched
	}

	m.controller = pipeline.New(m.field, m.button, m, deps.Searcher, pipeline.Options{
		Debounce:       cfg.Search.Debounce(),
		MinQueryLength: cfg.Search.MinQueryLength,
		Clock:          deps.Clock,
		UI:             ui,
		Background:     deps.Background,
		Bus:            deps.Bus,
		Logger:         logger,
	})
	return m
}

// SetProgram sets the program reference used for the UI context and the pager
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if m.uiSched != nil {
		m.uiSched.program.Store(p)
	}
}

// Close stops the pipeline and the UI context; call after the program exits
func (m *Model) Close() {
	m.controller.Stop()
	if m.uiSched != nil {
		m.uiSched.Close()
	}
}

// Active reports whether the pipeline is listening to the widgets
func (m *Model) Active() bool {
	return m.controller.Active()
}

// Init makes the screen visible
func (m *Model) Init() tea.Cmd {
	m.becomeVisible()
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case uiTaskMsg:
		msg()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case tea.FocusMsg:
		if !m.inPager {
			m.becomeVisible()
		}

	case tea.BlurMsg:
		if !m.inPager {
			m.becomeHidden()
		}

	case pagerDoneMsg:
		m.inPager = false
		if msg.err != nil {
			m.logger.Warn("results pager failed", "error", msg.err)
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true))
		}
		m.becomeVisible()

	case EventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event))

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
			m.statusIsError = false
		}

	case spinner.TickMsg:
		// the tick chain ends once progress is hidden
		if m.progressVisible {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.becomeHidden()
		return tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.button.click()
		return nil

	case key.Matches(msg, m.keys.NextFocus):
		m.toggleFocus()
		return nil

	case key.Matches(msg, m.keys.Pager):
		return m.openPager()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if m.focus == focusButton {
		if key.Matches(msg, m.keys.Press) {
			m.button.click()
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.field.setText(m.input.Value())
	return cmd
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch ev := e.(type) {
	case eventbus.CatalogReloadedEvent:
		return m.setStatus(fmt.Sprintf("Catalog reloaded: %d cheeses", ev.Items), false)
	case eventbus.ErrorEvent:
		return m.setStatus(ev.Message, true)
	}
	return nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusButton
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) openPager() tea.Cmd {
	if !m.hasResult {
		return m.setStatus("Nothing to page yet", false)
	}
	content := views.PlainResults(m.result.Items, m.result.Query)

	// the pager owns the terminal, so the screen is not visible meanwhile
	m.inPager = true
	m.becomeHidden()

	program := m.program
	return func() tea.Msg {
		return pagerDoneMsg{err: showInPager(program, content)}
	}
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusID++
	m.statusMessage = message
	m.statusIsError = isError
	id := m.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) becomeVisible() {
	if m.visible {
		return
	}
	m.visible = true
	m.controller.Start()
}

func (m *Model) becomeHidden() {
	if !m.visible {
		return
	}
	m.visible = false
	m.controller.Stop()
	// a search still running is dropped, so its HideProgress never comes
	m.progressVisible = false
}

func (m *Model) resize() {
	// Main padding, title, input box, status line, help
	const chrome = 13
	m.viewport.Width = max(m.width-4, 10)
	m.viewport.Height = max(m.height-chrome, 3)
	m.input.Width = max(m.width-26, 10)
}

// ShowProgress implements pipeline.View
func (m *Model) ShowProgress() {
	if m.progressVisible {
		return
	}
	m.progressVisible = true
	m.pending = append(m.pending, m.spinner.Tick)
}

// HideProgress implements pipeline.View
func (m *Model) HideProgress() {
	m.progressVisible = false
}

// ShowResult implements pipeline.View
func (m *Model) ShowResult(result domain.SearchResult) {
	m.result = result
	m.hasResult = true
	m.viewport.SetContent(m.renderer.RenderResults(result.Items, result.Query))
	m.viewport.GotoTop()
}

// View renders the screen
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	return m.renderer.Render(views.ViewState{
		Input:         m.input.View(),
		InputFocused:  m.focus == focusInput,
		ButtonFocused: m.focus == focusButton,
		ShowProgress:  m.progressVisible,
		Spinner:       m.spinner.View(),
		HasResult:     m.hasResult,
		Query:         m.result.Query,
		Matches:       m.result.Len(),
		Took:          m.result.Took,
		Results:       m.viewport.View(),
		ScrollPercent: m.viewport.ScrollPercent(),
		Scrollable:    m.viewport.TotalLineCount() > m.viewport.Height,
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		Help:          m.help.View(m.keys),
		ReadyMarker:   m.e2e,
	})
}
