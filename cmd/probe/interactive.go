package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	layoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

const maxHistory = 12

type historyEntry struct {
	err     error
	command string
	output  string
}

type interactiveModel struct {
	session   *session
	layout    string
	backend   string
	input     textinput.Model
	history   []historyEntry
	past      []string
	cursor    int
	showStats bool
}

func newInteractiveModel(s *session, layoutName, backend string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "get [].key 0"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		session:   s,
		layout:    layoutName,
		backend:   backend,
		input:     ti,
		showStats: true,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+s":
			m.showStats = !m.showStats
			return m, nil

		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.input.SetValue(m.past[m.cursor])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.cursor < len(m.past)-1 {
				m.cursor++
				m.input.SetValue(m.past[m.cursor])
				m.input.CursorEnd()
			} else {
				m.cursor = len(m.past)
				m.input.SetValue("")
			}
			return m, nil

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			m.run(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) run(line string) {
	out, err := m.session.exec(line)
	m.past = append(m.past, line)
	m.cursor = len(m.past)
	m.history = append(m.history, historyEntry{command: line, output: out, err: err})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Probe"))
	b.WriteString(" ")
	b.WriteString(layoutStyle.Render(m.session.acc.Layout().String()))
	b.WriteString(fmt.Sprintf("  %s/%s, %d bytes", m.layout, m.backend, m.session.size))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(commandStyle.Render("> " + h.command))
		b.WriteString("\n")
		switch {
		case h.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", h.err)))
			b.WriteString("\n")
		case h.output != "":
			b.WriteString(resultStyle.Render(h.output))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.showStats {
		b.WriteString(statsStyle.Render(m.session.stats()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • ctrl+s stats • esc quit"))

	return b.String()
}

func runInteractive(s *session, layoutName, backend string) error {
	p := tea.NewProgram(newInteractiveModel(s, layoutName, backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
