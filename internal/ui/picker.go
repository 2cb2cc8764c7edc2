package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FixItem is one selectable fix candidate.
type FixItem struct {
	ID      string
	Title   string
	Code    string
	Message string
	Path    string
}

// PickResult carries the picker outcome.
type PickResult struct {
	SelectedIDs []string
	Canceled    bool
}

type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ")),
	All:     key.NewBinding(key.WithKeys("a")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

type pickerModel struct {
	items    []FixItem
	selected []bool
	cursor   int
	width    int
	done     bool
	canceled bool
}

// NewFixPicker returns a Bubble Tea model that lets the user choose which
// fixes to apply.
func NewFixPicker(items []FixItem) tea.Model {
	return &pickerModel{
		items:    items,
		selected: make([]bool, len(items)),
		width:    80,
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, pickerKeys.Toggle):
			if len(m.items) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, pickerKeys.All):
			all := true
			for _, s := range m.selected {
				if !s {
					all = false
					break
				}
			}
			for i := range m.selected {
				m.selected[i] = !all
			}
		case key.Matches(msg, pickerKeys.Confirm):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Quit):
			m.canceled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	pickerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pickerCodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pickerMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pickerDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *pickerModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("select fixes to apply (%d candidates)", len(m.items))))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursorStyle.Render("> ")
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = pickerMarkStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, mark, pickerCodeStyle.Render(item.Code), item.Title)
		b.WriteString(truncate(line, m.width))
		b.WriteString("\n")
		detail := fmt.Sprintf("       %s: %s", item.Path, item.Message)
		b.WriteString(pickerDimStyle.Render(truncate(detail, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("space toggle · a all · enter apply · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result reports what the user picked. Valid after the program finishes.
func (m *pickerModel) Result() PickResult {
	if m.canceled {
		return PickResult{Canceled: true}
	}
	ids := make([]string, 0, len(m.items))
	for i, item := range m.items {
		if m.selected[i] {
			ids = append(ids, item.ID)
		}
	}
	return PickResult{SelectedIDs: ids}
}

// RunFixPicker shows the picker and blocks until the user confirms or
// cancels.
func RunFixPicker(items []FixItem) (PickResult, error) {
	model := NewFixPicker(items)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return PickResult{Canceled: true}, err
	}
	picker, ok := final.(*pickerModel)
	if !ok {
		return PickResult{Canceled: true}, fmt.Errorf("unexpected picker model %T", final)
	}
	return picker.Result(), nil
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
