package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// MessageHandler answers one user chat message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, text string) string
}

// Assistant owns the visible chat transcript. The user's message is
// recorded before the model is consulted, so it stays in the transcript
// even when the turn fails.
type Assistant struct {
	handler MessageHandler
	bus     domain.EventBus

	mu       sync.RWMutex
	messages []domain.ChatMessage
	busy     bool
}

// NewAssistant creates an assistant over handler. bus may be nil.
func NewAssistant(handler MessageHandler, bus domain.EventBus) *Assistant {
	return &Assistant{handler: handler, bus: bus}
}

// Send trims text and, if anything is left, runs one chat turn. It reports
// the model's reply and whether a turn happened.
func (a *Assistant) Send(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	a.append(ctx, domain.ChatMessage{Role: domain.ChatRoleUser, Text: text}, true)
	reply := a.handler.HandleMessage(ctx, text)
	a.append(ctx, domain.ChatMessage{Role: domain.ChatRoleModel, Text: reply}, false)
	return reply, true
}

func (a *Assistant) append(ctx context.Context, m domain.ChatMessage, busy bool) {
	a.mu.Lock()
	a.messages = append(a.messages, m)
	a.busy = busy
	a.mu.Unlock()
	publishEvent(a.bus, ctx, domain.EventChatMessage, domain.SessionIDFromContext(ctx), m)
}

// Messages returns a copy of the transcript.
func (a *Assistant) Messages() []domain.ChatMessage {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.ChatMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// Busy reports whether a turn is waiting on the model.
func (a *Assistant) Busy() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.busy
}
