package board

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// Run starts the Bubble Tea program and blocks until it exits. Bus events
// from the suggestion fields, the store and the assistant are forwarded
// into the update loop with program.Send.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(
		New(ctx, deps),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if bus := deps.Bus; bus != nil {
		unsubs := []func(){
			bus.Subscribe(domain.EventSuggestionUpdated, func(_ context.Context, e domain.Event) {
				var payload domain.SuggestionPayload
				_ = json.Unmarshal(e.Payload, &payload)
				p.Send(SuggestionMsg{Field: payload.Field})
			}),
			bus.Subscribe(domain.EventTasksChanged, func(context.Context, domain.Event) {
				p.Send(TasksChangedMsg{})
			}),
			bus.Subscribe(domain.EventChatMessage, func(context.Context, domain.Event) {
				p.Send(ChatUpdatedMsg{})
			}),
			bus.Subscribe(domain.EventToolCallStarted, func(_ context.Context, e domain.Event) {
				var payload map[string]any
				_ = json.Unmarshal(e.Payload, &payload)
				name, _ := payload["tool"].(string)
				p.Send(ToolStartedMsg{Name: name})
			}),
		}
		defer func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}()
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
