package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// ChatViewModel wraps a viewport that follows new messages while the user
// is at the bottom and stays put once they scroll up.
type ChatViewModel struct {
	Viewport viewport.Model
	Messages MessageListModel
	ready    bool
	atBottom bool
}

// NewChatView creates a chat view. The viewport is sized lazily.
func NewChatView() ChatViewModel {
	return ChatViewModel{atBottom: true}
}

// SetSize sets the viewport dimensions and re-renders.
func (m *ChatViewModel) SetSize(w, h int) {
	m.Messages.SetWidth(w)
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.Viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	m.refresh()
}

// SetMessages replaces the transcript shown.
func (m *ChatViewModel) SetMessages(msgs []domain.ChatMessage) {
	m.Messages.Sync(msgs)
	m.refresh()
	if m.atBottom {
		m.Viewport.GotoBottom()
	}
}

// Update handles scrolling.
func (m ChatViewModel) Update(msg tea.Msg) (ChatViewModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	m.atBottom = m.Viewport.AtBottom()
	return m, cmd
}

// View renders the viewport.
func (m ChatViewModel) View() string {
	if !m.ready {
		return "  Initializing..."
	}
	return m.Viewport.View()
}

func (m *ChatViewModel) refresh() {
	if m.ready {
		m.Viewport.SetContent(m.Messages.View())
	}
}
