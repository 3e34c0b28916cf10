package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Input         string
	InputFocused  bool
	ButtonFocused bool
	ShowProgress  bool
	Spinner       string
	HasResult     bool
	Query         string
	Matches       int
	Took          time.Duration
	Results       string // pre-rendered viewport
	ScrollPercent float64
	Scrollable    bool
	StatusMessage string
	StatusIsError bool
	Help          string
	ReadyMarker   bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render("Cheese Finder"))
	content.WriteString("\n")

	inputStyle := r.styles.Input
	if state.InputFocused {
		inputStyle = r.styles.InputFocused
	}
	buttonStyle := r.styles.Button
	if state.ButtonFocused {
		buttonStyle = r.styles.ButtonFocused
	}
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		inputStyle.Render(state.Input),
		" ",
		buttonStyle.Render("Search"),
	))
	content.WriteString("\n")

	switch {
	case state.ShowProgress:
		content.WriteString(r.styles.Progress.Render(state.Spinner + " Searching..."))
	case state.StatusMessage != "" && state.StatusIsError:
		content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
	case state.StatusMessage != "":
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
	case state.HasResult:
		content.WriteString(r.styles.Status.Render(r.summary(state)))
	default:
		content.WriteString(r.styles.Dim.Render("Type at least two characters or press Enter"))
	}
	content.WriteString("\n\n")

	if state.HasResult {
		content.WriteString(state.Results)
		if state.Scrollable {
			content.WriteString("\n")
			content.WriteString(r.styles.Scroll.Render(fmt.Sprintf("%3.f%%", state.ScrollPercent*100)))
		}
	}

	if state.Help != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.Help))
	}
	if state.ReadyMarker {
		content.WriteString("\n__READY__")
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) summary(state ViewState) string {
	noun := "matches"
	if state.Matches == 1 {
		noun = "match"
	}
	return fmt.Sprintf("%d %s for %q (%s)", state.Matches, noun, state.Query, state.Took.Round(time.Microsecond))
}
