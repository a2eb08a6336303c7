package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/tui/theme"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Skip   key.Binding
	Abort  key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Skip:   key.NewBinding(key.WithKeys("s")),
	Abort:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// PickerModel is the interactive hit picker for one file: a cursor over the
// candidate list, digit quick-select, skip and abort.
type PickerModel struct {
	name      string
	hits      []*core.Metadata
	cursor    int
	width     int
	theme     *theme.Theme
	selection Selection
	done      bool
}

func NewPicker(name string, hits []*core.Metadata) *PickerModel {
	return &PickerModel{
		name:  name,
		hits:  hits,
		width: 80,
		theme: theme.New(),
	}
}

// Selection returns the operator's decision once the program has quit.
func (m *PickerModel) Selection() Selection {
	return m.selection
}

func (m *PickerModel) Init() tea.Cmd {
	return nil
}

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.hits)-1 {
				m.cursor++
			}
		case key.Matches(msg, pickerKeys.Accept):
			m.selection = Selection{Choice: ChoiceHit, Index: m.cursor}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Skip):
			m.selection = Selection{Choice: ChoiceSkip}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Abort):
			m.selection = Selection{Choice: ChoiceAbort}
			m.done = true
			return m, tea.Quit
		default:
			// A digit is a quick select of that hit.
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.hits) {
				m.selection = Selection{Choice: ChoiceHit, Index: n - 1}
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *PickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("Select match for %s", m.name)))
	b.WriteString("\n\n")

	for i, hit := range m.hits {
		line := fmt.Sprintf("%d. %s", i+1, hit.String())
		line = runewidth.Truncate(line, m.width-4, "…")
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("> " + line))
		} else {
			b.WriteString(m.theme.Item.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter accept · 1-9 pick · s skip · q abort"))
	b.WriteString("\n")
	return b.String()
}

// InteractiveChooser runs the picker as a bubbletea program per file.
type InteractiveChooser struct{}

func (InteractiveChooser) Choose(name string, hits []*core.Metadata) (Selection, error) {
	picker := NewPicker(name, hits)
	final, err := tea.NewProgram(picker).Run()
	if err != nil {
		// Terminals that cannot host the full-screen program still get a
		// working line prompt.
		return PromptChooser{In: os.Stdin, Out: os.Stdout}.Choose(name, hits)
	}
	model, ok := final.(*PickerModel)
	if !ok {
		return Selection{}, fmt.Errorf("unexpected picker model type %T", final)
	}
	return model.Selection(), nil
}
