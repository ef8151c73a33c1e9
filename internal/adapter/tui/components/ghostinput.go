package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
)

// GhostInputModel is a single-line input that draws a suggested
// continuation, dimmed, after the text. The input has no fixed width:
// textinput pads to its width, which would push the ghost away from the
// text.
type GhostInputModel struct {
	Input textinput.Model
	Label string
	ghost string
}

// NewGhostInput creates an input with the given label and placeholder.
func NewGhostInput(label, placeholder string) GhostInputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	return GhostInputModel{Input: ti, Label: label}
}

// SetGhost sets the suggestion drawn after the text.
func (m *GhostInputModel) SetGhost(s string) { m.ghost = s }

// Ghost returns the suggestion currently drawn.
func (m GhostInputModel) Ghost() string { return m.ghost }

// SetValue replaces the text and moves the cursor to the end.
func (m *GhostInputModel) SetValue(s string) {
	m.Input.SetValue(s)
	m.Input.CursorEnd()
}

// Value returns the text.
func (m GhostInputModel) Value() string { return m.Input.Value() }

// Focus gives the input keyboard focus.
func (m *GhostInputModel) Focus() tea.Cmd { return m.Input.Focus() }

// Blur removes keyboard focus.
func (m *GhostInputModel) Blur() { m.Input.Blur() }

// Focused reports whether the input has focus.
func (m GhostInputModel) Focused() bool { return m.Input.Focused() }

// Update forwards msg to the text input.
func (m GhostInputModel) Update(msg tea.Msg) (GhostInputModel, tea.Cmd) {
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// View renders the label, the input, and the ghost text. The ghost is only
// drawn while the cursor sits at the end of the text.
func (m GhostInputModel) View() string {
	view := m.Input.View()
	if m.ghost != "" && m.Input.Position() == len([]rune(m.Input.Value())) {
		view += theme.Ghost.Render(m.ghost)
	}
	return theme.Bold.Render(m.Label) + "\n" + view
}
