package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Input         lipgloss.Style
	InputFocused  lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Progress      lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Dim           lipgloss.Style
	Item          lipgloss.Style
	Highlight     lipgloss.Style
	Scroll        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 2),
		Progress:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Dim:         lipgloss.NewStyle().Faint(true),
		Item:        lipgloss.NewStyle().PaddingLeft(2),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Help:        lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:        lipgloss.NewStyle().Padding(1, 2),
	}
}
