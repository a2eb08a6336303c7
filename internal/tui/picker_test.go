package tui

import (
	"strings"
	"testing"

	"github.com/Digital-Shane/media-mover/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

func pickerHits(names ...string) []*core.Metadata {
	hits := make([]*core.Metadata, 0, len(names))
	for _, name := range names {
		m := core.NewMovie()
		m.SetName(name)
		hits = append(hits, m)
	}
	return hits
}

func press(m *PickerModel, keys ...tea.KeyMsg) *PickerModel {
	var model tea.Model = m
	for _, msg := range keys {
		model, _ = model.Update(msg)
	}
	return model.(*PickerModel)
}

func TestPickerAcceptsCursorSelection(t *testing.T) {
	m := NewPicker("movie.mkv", pickerHits("First", "Second", "Third"))

	m = press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	want := Selection{Choice: ChoiceHit, Index: 2}
	if m.Selection() != want {
		t.Errorf("Selection() = %+v, want %+v", m.Selection(), want)
	}
}

func TestPickerCursorStaysInBounds(t *testing.T) {
	m := NewPicker("movie.mkv", pickerHits("First", "Second"))

	m = press(m,
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	want := Selection{Choice: ChoiceHit, Index: 1}
	if m.Selection() != want {
		t.Errorf("Selection() = %+v, want %+v", m.Selection(), want)
	}
}

func TestPickerDigitQuickSelect(t *testing.T) {
	m := NewPicker("movie.mkv", pickerHits("First", "Second", "Third"))

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})

	want := Selection{Choice: ChoiceHit, Index: 1}
	if m.Selection() != want {
		t.Errorf("Selection() = %+v, want %+v", m.Selection(), want)
	}
}

func TestPickerDigitOutOfRangeIgnored(t *testing.T) {
	m := NewPicker("movie.mkv", pickerHits("First", "Second"))

	m = press(m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	want := Selection{Choice: ChoiceHit, Index: 0}
	if m.Selection() != want {
		t.Errorf("Selection() = %+v, want %+v", m.Selection(), want)
	}
}

func TestPickerSkipAndAbort(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want Choice
	}{
		{name: "s_skips", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, want: ChoiceSkip},
		{name: "q_aborts", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, want: ChoiceAbort},
		{name: "esc_aborts", key: tea.KeyMsg{Type: tea.KeyEsc}, want: ChoiceAbort},
		{name: "ctrl_c_aborts", key: tea.KeyMsg{Type: tea.KeyCtrlC}, want: ChoiceAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPicker("movie.mkv", pickerHits("First"))
			m = press(m, tt.key)
			if m.Selection().Choice != tt.want {
				t.Errorf("Selection().Choice = %v, want %v", m.Selection().Choice, tt.want)
			}
		})
	}
}

func TestPickerViewListsHits(t *testing.T) {
	m := NewPicker("movie.mkv", pickerHits("First Movie", "Second Movie"))

	view := m.View()
	if !strings.Contains(view, "movie.mkv") {
		t.Errorf("View() missing file name:\n%s", view)
	}
	if !strings.Contains(view, "First Movie") || !strings.Contains(view, "Second Movie") {
		t.Errorf("View() missing hits:\n%s", view)
	}

	// After a decision the picker renders nothing.
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}
