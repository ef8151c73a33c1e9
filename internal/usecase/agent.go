package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/tracer"
)

// ErrorReply is shown to the user whenever a chat turn fails.
const ErrorReply = "Sorry, I encountered an error."

// AgentDeps holds injected dependencies for the agent.
type AgentDeps struct {
	Session domain.ChatSession
	Tools   domain.ToolExecutor
	Logger  *slog.Logger
	Bus     domain.EventBus // optional
	// Timeout bounds a whole HandleMessage call; zero means unbounded.
	Timeout time.Duration
}

// Agent runs one tool-calling round per user message: ask the model, run
// at most one requested tool, feed its output back, return the answer.
type Agent struct {
	deps AgentDeps
}

// NewAgent creates an agent with the given dependencies.
func NewAgent(deps AgentDeps) *Agent {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Agent{deps: deps}
}

// HandleMessage sends text to the model and returns its final text. It never
// fails: any model failure yields ErrorReply.
//
// Only the first tool call of a turn is executed. If the model answers the
// tool output with yet another tool call, its (empty) text is returned
// without running it.
func (a *Agent) HandleMessage(ctx context.Context, text string) string {
	if a.deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.deps.Timeout)
		defer cancel()
	}

	if s, ok := a.deps.Session.(interface{ ID() string }); ok {
		ctx = domain.ContextWithSessionID(ctx, s.ID())
	}
	ctx, span := tracer.StartSpan(ctx, "agent.handle_message")
	defer span.End()

	reply := a.deps.Session.Send(ctx, domain.UserInput(text))
	if reply.Failed() {
		return a.fail(span, reply.Err)
	}
	if reply.Kind != domain.ReplyToolCalls || len(reply.Calls) == 0 {
		tracer.SetOK(span)
		return reply.Text
	}

	if len(reply.Calls) > 1 {
		a.deps.Logger.Warn("model requested several tools, running only the first",
			"requested", len(reply.Calls), "tool", reply.Calls[0].Name)
	}
	call := reply.Calls[0]
	result := a.executeTool(ctx, call)

	reply = a.deps.Session.Send(ctx, domain.ToolResultInput(call.Name, result))
	if reply.Failed() {
		return a.fail(span, reply.Err)
	}
	if reply.Kind == domain.ReplyToolCalls {
		a.deps.Logger.Warn("model chained another tool call, not executing", "tool", reply.Calls[0].Name)
	}
	tracer.SetOK(span)
	return reply.Text
}

func (a *Agent) fail(span trace.Span, err error) string {
	if err != nil {
		tracer.RecordError(span, err)
	}
	a.deps.Logger.Error("chat turn failed", "error", err)
	return ErrorReply
}

// executeTool runs call and returns its output text. An unknown tool or a
// tool that returns a Go error yields "".
func (a *Agent) executeTool(ctx context.Context, call domain.ToolCall) string {
	ctx, span := tracer.StartSpan(ctx, "agent.execute_tool",
		trace.WithAttributes(tracer.StringAttr("tool.name", call.Name)),
	)
	defer span.End()

	sessionID := domain.SessionIDFromContext(ctx)

	tool, err := a.deps.Tools.Get(call.Name)
	if err != nil {
		tracer.RecordError(span, err)
		a.deps.Logger.Warn("model requested unknown tool", "tool", call.Name)
		return ""
	}

	publishEvent(a.deps.Bus, ctx, domain.EventToolCallStarted, sessionID, map[string]string{"tool": call.Name})
	result, err := tool.Execute(ctx, call.Arguments)
	publishEvent(a.deps.Bus, ctx, domain.EventToolCallCompleted, sessionID, map[string]any{
		"tool":    call.Name,
		"success": err == nil && result != nil && !result.IsError,
	})

	if err != nil {
		tracer.RecordError(span, err)
		a.deps.Logger.Warn("tool execution failed", "tool", call.Name, "error", err)
		return ""
	}
	if result == nil {
		return ""
	}
	if result.IsError {
		a.deps.Logger.Warn("tool returned error", "tool", call.Name, "content", result.Content)
	} else {
		tracer.SetOK(span)
	}
	return result.Content
}
