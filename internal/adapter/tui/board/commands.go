package board

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ChatSender runs one assistant turn.
type ChatSender interface {
	Send(ctx context.Context, text string) (string, bool)
}

// sendChatCmd runs the turn off the update loop.
func sendChatCmd(ctx context.Context, assistant ChatSender, text string) tea.Cmd {
	return func() tea.Msg {
		reply, _ := assistant.Send(ctx, text)
		return ReplyMsg{Reply: reply}
	}
}
