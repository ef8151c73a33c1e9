package domain

import "context"

// ReplyKind tags the variant held by a Reply.
type ReplyKind int

const (
	// ReplyText carries a natural-language answer.
	ReplyText ReplyKind = iota
	// ReplyToolCalls carries one or more tool invocation requests.
	ReplyToolCalls
	// ReplyFailed is the sentinel returned when the exchange failed.
	ReplyFailed
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyText:
		return "text"
	case ReplyToolCalls:
		return "tool_calls"
	case ReplyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reply is a chat session response: exactly one of Text, Calls or Err is
// meaningful, selected by Kind.
type Reply struct {
	Kind  ReplyKind
	Text  string
	Calls []ToolCall
	Err   error
}

// TextReply builds a text reply.
func TextReply(text string) Reply { return Reply{Kind: ReplyText, Text: text} }

// ToolCallsReply builds a tool-invocation reply.
func ToolCallsReply(calls []ToolCall) Reply { return Reply{Kind: ReplyToolCalls, Calls: calls} }

// FailedReply builds the failure sentinel.
func FailedReply(err error) Reply { return Reply{Kind: ReplyFailed, Err: err} }

// Failed reports whether the reply is the failure sentinel.
func (r Reply) Failed() bool { return r.Kind == ReplyFailed }

// ToolOutput is the result of a dispatched tool, correlated by tool name.
type ToolOutput struct {
	Name   string
	Result string
}

// ChatInput is what a caller sends into a chat session: user text, or the
// output of a tool the model asked for.
type ChatInput struct {
	Text       string
	ToolOutput *ToolOutput
}

// UserInput wraps user text as a ChatInput.
func UserInput(text string) ChatInput { return ChatInput{Text: text} }

// ToolResultInput wraps a tool output as a ChatInput.
func ToolResultInput(name, result string) ChatInput {
	return ChatInput{ToolOutput: &ToolOutput{Name: name, Result: result}}
}

// ChatSession is a stateful conversation with a model. It keeps history
// across calls and never returns an error: failures come back as
// FailedReply.
type ChatSession interface {
	Send(ctx context.Context, in ChatInput) Reply
}
