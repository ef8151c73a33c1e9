package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/tracer"
)

// ChatSession is a stateful conversation with the model. History is
// replayed to the provider on every Send.
type ChatSession struct {
	mu      sync.Mutex
	id      string
	llm     domain.LLMProvider
	system  string
	tools   []domain.ToolSchema
	history []domain.Message
	logger  *slog.Logger
	bus     domain.EventBus
}

var _ domain.ChatSession = (*ChatSession)(nil)

func newChatSession(llm domain.LLMProvider, system string, tools []domain.ToolSchema, logger *slog.Logger, bus domain.EventBus) *ChatSession {
	return &ChatSession{
		id:     ulid.Make().String(),
		llm:    llm,
		system: system,
		tools:  tools,
		logger: logger,
		bus:    bus,
	}
}

// ID returns the session's ULID.
func (s *ChatSession) ID() string { return s.id }

// History returns a copy of the conversation so far.
func (s *ChatSession) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Send appends in to the history, asks the model for the next turn and
// records it. Sends are serialized. On failure the history is left as it
// was before the call and a failed reply is returned. A failed tool output
// also drops the unanswered tool-call turn and the user message behind it,
// since providers reject a call with no result.
func (s *ChatSession) Send(ctx context.Context, in domain.ChatInput) domain.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = domain.ContextWithSessionID(ctx, s.id)
	ctx, span := tracer.StartSpan(ctx, "chat.send",
		trace.WithAttributes(
			tracer.StringAttr("session.id", s.id),
			tracer.BoolAttr("input.tool_output", in.ToolOutput != nil),
		),
	)
	defer span.End()

	msg, ok := s.inputMessage(in)
	if !ok {
		err := domain.NewDomainError("ChatSession.Send", domain.ErrInvalidInput, "empty chat input")
		tracer.RecordError(span, err)
		return domain.FailedReply(err)
	}

	checkpoint := len(s.history)
	s.history = append(s.history, msg)

	req := domain.ChatRequest{
		Messages: make([]domain.Message, 0, len(s.history)+1),
		Tools:    s.tools,
	}
	if s.system != "" {
		req.Messages = append(req.Messages, domain.Message{Role: domain.RoleSystem, Content: s.system})
	}
	req.Messages = append(req.Messages, s.history...)

	resp, err := s.llm.Chat(ctx, req)
	if err != nil {
		if in.ToolOutput != nil {
			checkpoint = s.turnStart(checkpoint)
		}
		s.history = s.history[:checkpoint]
		tracer.RecordError(span, err)
		code := domain.ErrorCodeOf(err)
		s.logger.Warn("chat send failed", "session", s.id, "code", code,
			"retryable", domain.IsRetryableError(err), "error", err)
		publishEvent(s.bus, ctx, domain.EventAgentError, s.id, map[string]string{
			"code":  string(code),
			"error": err.Error(),
		})
		return domain.FailedReply(err)
	}

	reply := resp.Message
	reply.Role = domain.RoleAssistant
	if reply.Timestamp.IsZero() {
		reply.Timestamp = time.Now()
	}
	s.history = append(s.history, reply)
	tracer.SetOK(span)

	if len(reply.ToolCalls) > 0 {
		return domain.ToolCallsReply(reply.ToolCalls)
	}
	return domain.TextReply(reply.Content)
}

// inputMessage converts a ChatInput into a history entry. Tool outputs are
// correlated with the most recent model call of the same tool name.
func (s *ChatSession) inputMessage(in domain.ChatInput) (domain.Message, bool) {
	now := time.Now()
	if out := in.ToolOutput; out != nil {
		if out.Name == "" {
			return domain.Message{}, false
		}
		return domain.Message{
			Role:      domain.RoleTool,
			Name:      out.Name,
			Content:   out.Result,
			ToolCalls: []domain.ToolCall{{ID: s.pendingCallID(out.Name), Name: out.Name}},
			Timestamp: now,
		}, true
	}
	if in.Text == "" {
		return domain.Message{}, false
	}
	return domain.Message{Role: domain.RoleUser, Content: in.Text, Timestamp: now}, true
}

// turnStart returns where the exchange ending at end began: before the
// model's tool-call turn and the user message it answered.
func (s *ChatSession) turnStart(end int) int {
	i := end
	if i > 0 && s.history[i-1].Role == domain.RoleAssistant && len(s.history[i-1].ToolCalls) > 0 {
		i--
	}
	if i > 0 && s.history[i-1].Role == domain.RoleUser {
		i--
	}
	return i
}

func (s *ChatSession) pendingCallID(name string) string {
	for i := len(s.history) - 1; i >= 0; i-- {
		m := s.history[i]
		if m.Role != domain.RoleAssistant {
			continue
		}
		for _, c := range m.ToolCalls {
			if c.Name == name {
				return c.ID
			}
		}
		break
	}
	return ""
}
