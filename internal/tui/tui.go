// Package tui is the bubbletea reading view used on interactive terminals.
package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/moyu/internal/reader"
	"github.com/metcalfc/moyu/internal/view"
)

// Outcome is how the reading view ended.
type Outcome int

const (
	// Quit returns to the menu.
	Quit Outcome = iota
	// Escape exits the program immediately.
	Escape
)

type model struct {
	*reader.Session
	width    int
	height   int
	picking  bool
	input    textinput.Model
	chapters viewport.Model
	status   string
	outcome  Outcome
	quitting bool
}

func newModel(s *reader.Session) model {
	ti := textinput.New()
	ti.Placeholder = "chapter number"
	ti.CharLimit = 9
	ti.Prompt = "Jump to chapter: "

	return model{
		Session:  s,
		width:    80,
		height:   24,
		input:    ti,
		chapters: viewport.New(80, 16),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chapters.Width = msg.Width
		m.chapters.Height = max(msg.Height-6, 1)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.exit(Escape)
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		if msg.Type == tea.KeyEsc {
			return m.exit(Escape)
		}
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return m, nil
		}

		m.status = ""
		switch cmd := reader.CommandForKey(msg.Runes[0]); cmd {
		case reader.CmdQuit:
			return m.exit(Quit)
		case reader.CmdChooseChapter:
			return m.openPicker()
		default:
			if err := m.Apply(cmd); err != nil {
				m.status = "Could not save progress: " + err.Error()
			}
		}
	}
	return m, nil
}

func (m model) exit(o Outcome) (tea.Model, tea.Cmd) {
	m.outcome = o
	m.quitting = true
	return m, tea.Quit
}

func (m model) openPicker() (tea.Model, tea.Cmd) {
	m.picking = true
	m.chapters.SetContent(view.Chapters(m.Chapters, m.CurrentChapter()))
	if cur := m.CurrentChapter(); cur > m.chapters.Height/2 {
		m.chapters.SetYOffset(cur - m.chapters.Height/2)
	} else {
		m.chapters.GotoTop()
	}
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m model) closePicker() model {
	m.picking = false
	m.input.Blur()
	return m
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closePicker(), nil
	case tea.KeyEnter:
		m = m.closePicker()
		m.status = m.jump(m.input.Value())
		return m, nil
	case tea.KeyRunes:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmds [2]tea.Cmd
	m.input, cmds[0] = m.input.Update(msg)
	m.chapters, cmds[1] = m.chapters.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

// jump applies a typed chapter number and returns the message to show.
func (m model) jump(value string) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "Please enter a valid number."
	}
	if err := m.Jump(n); err != nil {
		if errors.Is(err, reader.ErrInvalidChapter) {
			return "Invalid chapter number."
		}
		return "Could not save progress: " + err.Error()
	}
	return ""
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	if m.picking {
		sb.WriteString(view.Rule("="))
		sb.WriteString("\nChapters (↑/↓ to scroll, enter to jump, esc to cancel)\n")
		sb.WriteString(view.Rule("="))
		sb.WriteString("\n")
		sb.WriteString(m.chapters.View())
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
		return sb.String()
	}

	sb.WriteString(view.Page(m.Session))
	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(view.Error(m.status))
	}
	return sb.String()
}

// Run shows s until the user quits or escapes.
func Run(s *reader.Session, opts ...tea.ProgramOption) (Outcome, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(newModel(s), opts...)

	final, err := p.Run()
	if err != nil {
		return Quit, err
	}
	if m, ok := final.(model); ok {
		return m.outcome, nil
	}
	return Quit, nil
}
