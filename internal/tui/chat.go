package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amirbrooks/tasker-chat/internal/chat"
	"github.com/amirbrooks/tasker-chat/internal/ui"
)

// Handler is the part of chat.Session the TUI needs.
type Handler interface {
	Handle(line string) chat.Response
}

type entry struct {
	user bool
	text string
}

type chatModel struct {
	h      Handler
	theme  ui.Theme
	input  textinput.Model
	log    []entry
	width  int
	height int
	done   bool
}

func newChatModel(h Handler, theme ui.Theme, notice string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "todo buy milk"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = theme.Prompt()
	ti.Focus()

	m := chatModel{h: h, theme: theme, input: ti}
	if notice != "" {
		m.log = append(m.log, entry{text: notice})
	}
	m.log = append(m.log, entry{text: "Hello! What can I do for you? Type 'help' for commands."})
	return m
}

// Run forwards every submitted line to h until "bye", Esc or Ctrl+C.
func Run(h Handler, theme ui.Theme, notice string, out io.Writer) error {
	m := newChatModel(h, theme, notice)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// Leaving without "bye" still saves.
			m.submit("bye")
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			if m.submit(line) {
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit records line and its reply and reports whether the session ended.
func (m *chatModel) submit(line string) bool {
	if m.done {
		return true
	}
	resp := m.h.Handle(line)
	m.log = append(m.log, entry{user: true, text: line}, entry{text: resp.Text})
	m.done = resp.Exit
	return resp.Exit
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Banner("tasker") + "\n\n")

	var lines []string
	for _, e := range m.log {
		if e.user {
			lines = append(lines, m.theme.Prompt()+e.text)
			continue
		}
		reply := m.theme.Reply(e.text)
		if !m.theme.Plain {
			reply = ui.Panel.Render(reply)
		}
		lines = append(lines, strings.Split(reply, "\n")...)
	}
	// Keep the newest lines when the transcript is taller than the window.
	if room := m.height - 6; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	if !m.done {
		b.WriteString(m.input.View() + "\n")
		b.WriteString(footer(m.theme))
	}
	return b.String()
}

func footer(theme ui.Theme) string {
	text := "enter: send • esc: save and quit"
	if theme.Plain {
		return text
	}
	return ui.Dim.Render(text)
}
