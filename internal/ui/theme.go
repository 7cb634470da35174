package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared by the line-mode REPL and the TUI.

const (
	IconInfo  = "ℹ️"
	IconWarn  = "⚠️"
	IconBye   = "👋"
	IconReply = "›"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

const divider = "____________________________________________________________"

// Theme renders replies either styled or as plain text.
type Theme struct {
	Plain bool
}

func (t Theme) Divider() string {
	if t.Plain {
		return divider
	}
	return Dim.Render(divider)
}

func (t Theme) Banner(text string) string {
	if t.Plain {
		return text
	}
	return Title.Render(text)
}

// Reply styles a session reply. Lines starting with "Warning:" are highlighted.
func (t Theme) Reply(text string) string {
	if t.Plain {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "Warning:"):
			lines[i] = Warn.Render(IconWarn + " " + l)
		case strings.HasPrefix(l, "Got it.") || strings.HasPrefix(l, "Nice!") || strings.HasPrefix(l, "Noted."):
			lines[i] = Good.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func (t Theme) Notice(text string) string {
	if text == "" {
		return ""
	}
	if t.Plain {
		return text
	}
	if strings.HasPrefix(text, "Warning:") {
		return Warn.Render(IconWarn + " " + text)
	}
	return Dim.Render(IconInfo + " " + text)
}

func (t Theme) Prompt() string {
	if t.Plain {
		return "> "
	}
	return Key.Render(IconReply) + " "
}
