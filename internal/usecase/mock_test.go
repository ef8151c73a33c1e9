package usecase

import (
	"context"
	"sync"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// scriptedLLM replays canned responses in order and records every request.
type scriptedLLM struct {
	mu        sync.Mutex
	responses []scriptedStep
	requests  []domain.ChatRequest
}

type scriptedStep struct {
	msg domain.Message
	err error
}

func (s *scriptedLLM) then(msg domain.Message) *scriptedLLM {
	s.responses = append(s.responses, scriptedStep{msg: msg})
	return s
}

func (s *scriptedLLM) fail(err error) *scriptedLLM {
	s.responses = append(s.responses, scriptedStep{err: err})
	return s
}

func (s *scriptedLLM) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return nil, domain.ErrEmptyReply
	}
	step := s.responses[0]
	s.responses = s.responses[1:]
	if step.err != nil {
		return nil, step.err
	}
	return &domain.ChatResponse{Message: step.msg}, nil
}

func (s *scriptedLLM) Name() string { return "scripted" }

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *scriptedLLM) request(i int) domain.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func text(s string) domain.Message {
	return domain.Message{Role: domain.RoleAssistant, Content: s}
}

func toolCalls(calls ...domain.ToolCall) domain.Message {
	return domain.Message{Role: domain.RoleAssistant, ToolCalls: calls}
}

func callOf(id, name, args string) domain.ToolCall {
	return domain.ToolCall{ID: id, Name: name, Arguments: []byte(args)}
}

// recordingBus keeps published events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBus) Publish(_ context.Context, e domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(domain.EventType, domain.EventHandler) func() { return func() {} }
func (b *recordingBus) SubscribeAll(domain.EventHandler) func()                { return func() {} }
func (b *recordingBus) Close()                                                 {}

func (b *recordingBus) types() []domain.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}
