package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/tracer"
)

// DefaultMinCompletionChars is the trimmed length below which Complete does
// not bother the model.
const DefaultMinCompletionChars = 15

const completionPrompt = "You are an intelligent autocomplete engine. The user is typing a todo item: \"%s\". " +
	"Predict the most likely next 1 to 5 words that would naturally continue this phrase, " +
	"as if you were completing their thought. Only return the suggested text, " +
	"with no extra words, punctuation, or formatting. Do not include quotes or markdown."

// GatewayOptions configures a Gateway. Zero values select defaults.
type GatewayOptions struct {
	// CompletionModel overrides the provider model for Complete.
	CompletionModel string
	// MinChars is the minimum trimmed input length for Complete.
	MinChars int
	// CompletionTimeout bounds one Complete call; zero means no extra bound.
	CompletionTimeout time.Duration
	Logger            *slog.Logger
	Bus               domain.EventBus
}

// Gateway is the single entry point to the language model: one-shot
// completions for ghost text, and stateful chat sessions for the assistant.
type Gateway struct {
	llm  domain.LLMProvider
	opts GatewayOptions
}

var _ domain.Completer = (*Gateway)(nil)

// NewGateway creates a gateway over llm.
func NewGateway(llm domain.LLMProvider, opts GatewayOptions) *Gateway {
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinCompletionChars
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Gateway{llm: llm, opts: opts}
}

// Complete returns a short continuation for text, trimmed. It returns ""
// without calling the model when the trimmed text is too short, and ""
// on any model failure.
func (g *Gateway) Complete(ctx context.Context, text string) string {
	if len([]rune(strings.TrimSpace(text))) < g.opts.MinChars {
		return ""
	}

	ctx, span := tracer.StartSpan(ctx, "gateway.complete",
		trace.WithAttributes(tracer.IntAttr("input.len", len(text))),
	)
	defer span.End()

	if g.opts.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.CompletionTimeout)
		defer cancel()
	}

	resp, err := g.llm.Chat(ctx, domain.ChatRequest{
		Model: g.opts.CompletionModel,
		Messages: []domain.Message{{
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf(completionPrompt, text),
			Timestamp: time.Now(),
		}},
	})
	if err != nil {
		tracer.RecordError(span, err)
		g.opts.Logger.Debug("completion failed", "code", domain.ErrorCodeOf(err), "error", err)
		return ""
	}

	tracer.SetOK(span)
	return strings.TrimSpace(resp.Message.Content)
}

// StartChat opens a new chat session with the given persona and tool
// declarations.
func (g *Gateway) StartChat(systemInstruction string, tools []domain.ToolSchema) *ChatSession {
	return newChatSession(g.llm, systemInstruction, tools, g.opts.Logger, g.opts.Bus)
}
