package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"repo-archiver/internal/age"
)

// pickerModel is the pre-fetch age picker shown when --age is not given.
type pickerModel struct {
	cursor int
	choice *age.Age
	termW  int
	termH  int
}

func newPickerModel() pickerModel {
	return pickerModel{cursor: age.DefaultPreset}
}

// RunAgePicker shows the preset picker and returns the chosen age, or nil if
// the user cancelled.
func RunAgePicker() (*age.Age, error) {
	p := tea.NewProgram(newPickerModel(), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}
	return m.(pickerModel).choice, nil
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(age.Presets)-1 {
				m.cursor++
			}
		case "enter":
			a := age.Presets[m.cursor]
			m.choice = &a
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString("Select minimum repo age:\n\n")
	for i, a := range age.Presets {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▶ "+a.String()) + "\n")
		} else {
			b.WriteString(mutedStyle.Render("  "+a.String()) + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓: Select | Enter: Confirm | q: Quit"))
	panel := panelStyle.Render(b.String())
	if m.termW > 0 && m.termH > 0 {
		return lipgloss.Place(m.termW, m.termH, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}
