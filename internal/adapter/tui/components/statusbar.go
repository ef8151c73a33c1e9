package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
)

// KeyHint is a single keybinding hint.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Send"
}

// StatusBarModel renders the bottom line: hints on the left, provider and
// model on the right.
type StatusBarModel struct {
	Hints    []KeyHint
	Provider string
	Model    string
	Extra    string // transient status, e.g. "Thinking..."
	width    int
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	hints := make([]string, 0, len(m.Hints))
	for _, h := range m.Hints {
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	var info []string
	if m.Provider != "" {
		info = append(info, m.Provider)
	}
	if m.Model != "" {
		info = append(info, m.Model)
	}
	right := theme.TextMuted.Render(strings.Join(info, " "+theme.SymbolBullet+" "))
	if m.Extra != "" {
		right = theme.TextInfo.Render(m.Extra) + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
