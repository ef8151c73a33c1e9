package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// renderedMessage caches the glamour output of one transcript entry.
type renderedMessage struct {
	domain.ChatMessage
	rendered string
}

// MessageListModel renders the assistant transcript. Model replies are
// markdown; user messages are wrapped plain text.
type MessageListModel struct {
	messages   []renderedMessage
	width      int
	mdRenderer *glamour.TermRenderer
}

// SetWidth updates the rendering width and drops cached renders.
func (m *MessageListModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil
	for i := range m.messages {
		m.messages[i].rendered = ""
	}
}

// Sync replaces the list with msgs, keeping renders of the unchanged
// prefix.
func (m *MessageListModel) Sync(msgs []domain.ChatMessage) {
	keep := 0
	for keep < len(msgs) && keep < len(m.messages) && m.messages[keep].ChatMessage == msgs[keep] {
		keep++
	}
	m.messages = m.messages[:keep]
	for _, msg := range msgs[keep:] {
		m.messages = append(m.messages, renderedMessage{ChatMessage: msg})
	}
}

// Len returns the number of messages.
func (m *MessageListModel) Len() int { return len(m.messages) }

// View renders all messages.
func (m *MessageListModel) View() string {
	if len(m.messages) == 0 {
		return theme.TextMuted.Render("  Ask me to add, complete or list your tasks.")
	}

	width := ContentWidth(m.width)
	var sb strings.Builder
	for i := range m.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(&m.messages[i], width))
	}
	return sb.String()
}

func (m *MessageListModel) renderMessage(msg *renderedMessage, width int) string {
	if msg.Role == domain.ChatRoleModel {
		if msg.rendered == "" {
			msg.rendered = m.renderMarkdown(msg.Text, width)
		}
		return theme.BotLabel.Render(theme.SymbolBot) + "\n" + strings.TrimRight(msg.rendered, "\n")
	}

	header := theme.UserLabel.Render(theme.SymbolUser)
	inline := width - lipgloss.Width(header) - 2
	if inline < 20 {
		return header + "\n  " + wrapText(msg.Text, width-2)
	}
	return header + "  " + wrapText(msg.Text, inline)
}

func (m *MessageListModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

// wrapText wraps s at width runes, indenting continuation lines by two
// spaces.
func wrapText(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	var lines []string
	for len(runes) > width {
		idx := -1
		for i := width - 1; i > 0; i-- {
			if runes[i] == ' ' {
				idx = i
				break
			}
		}
		if idx <= 0 {
			idx = width
		}
		lines = append(lines, string(runes[:idx]))
		runes = runes[idx:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n  ")
}

// ContentWidth is the readable text width for a pane of termWidth.
func ContentWidth(termWidth int) int {
	return theme.Clamp(termWidth-4, 20, theme.MaxContentWidth)
}

// Divider renders a horizontal rule.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
