package theme

import "github.com/charmbracelet/lipgloss"

// Colors holds the shared color palette used across the TUI.
type Colors struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

// Theme centralizes the palette and the derived styles the picker renders
// with.
type Theme struct {
	colors Colors

	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	Failure  lipgloss.Style
	Done     lipgloss.Style
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// Monochrome is the palette for output that is not going to a terminal:
// styles keep their layout and weight but carry no color.
func Monochrome() Colors {
	return Colors{}
}

// New constructs a theme, applying any options over the defaults.
func New(opts ...Option) *Theme {
	t := &Theme{
		colors: Colors{
			Primary: lipgloss.Color("69"),
			Accent:  lipgloss.Color("212"),
			Muted:   lipgloss.Color("241"),
			Success: lipgloss.Color("42"),
			Error:   lipgloss.Color("196"),
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.colors.Primary)
	t.Item = lipgloss.NewStyle().PaddingLeft(2)
	t.Selected = lipgloss.NewStyle().Foreground(t.colors.Accent).Bold(true)
	t.Help = lipgloss.NewStyle().Foreground(t.colors.Muted)
	t.Failure = lipgloss.NewStyle().Foreground(t.colors.Error)
	t.Done = lipgloss.NewStyle().Foreground(t.colors.Success)
	return t
}

// Colors exposes the palette for callers that style their own output.
func (t *Theme) Colors() Colors {
	return t.colors
}
