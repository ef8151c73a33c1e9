package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

var testTools = []domain.ToolSchema{{Name: "getTodosList", Description: "list"}}

func TestChatSessionTextReply(t *testing.T) {
	llm := (&scriptedLLM{}).then(text("Hello! I can find out today's tasks for you."))
	s := NewGateway(llm, GatewayOptions{}).StartChat("be helpful", testTools)

	reply := s.Send(context.Background(), domain.UserInput("hi"))

	require.Equal(t, domain.ReplyText, reply.Kind)
	assert.Equal(t, "Hello! I can find out today's tasks for you.", reply.Text)

	req := llm.request(0)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "be helpful", req.Messages[0].Content)
	assert.Equal(t, "hi", req.Messages[1].Content)
	assert.Equal(t, testTools, req.Tools)

	hist := s.History()
	require.Len(t, hist, 2)
	assert.Equal(t, domain.RoleUser, hist[0].Role)
	assert.Equal(t, domain.RoleAssistant, hist[1].Role)
}

func TestChatSessionReplaysHistory(t *testing.T) {
	llm := (&scriptedLLM{}).then(text("one")).then(text("two"))
	s := NewGateway(llm, GatewayOptions{}).StartChat("", nil)

	s.Send(context.Background(), domain.UserInput("first"))
	s.Send(context.Background(), domain.UserInput("second"))

	req := llm.request(1)
	require.Len(t, req.Messages, 3, "no system message when instruction is empty")
	assert.Equal(t, "first", req.Messages[0].Content)
	assert.Equal(t, "one", req.Messages[1].Content)
	assert.Equal(t, "second", req.Messages[2].Content)
}

func TestChatSessionFailureRollsBack(t *testing.T) {
	bus := &recordingBus{}
	llm := (&scriptedLLM{}).then(text("ok")).fail(domain.ErrRateLimit).then(text("again"))
	s := NewGateway(llm, GatewayOptions{Bus: bus}).StartChat("", nil)

	s.Send(context.Background(), domain.UserInput("first"))
	reply := s.Send(context.Background(), domain.UserInput("lost"))

	require.True(t, reply.Failed())
	assert.True(t, errors.Is(reply.Err, domain.ErrRateLimit))
	assert.Len(t, s.History(), 2)
	assert.Equal(t, []domain.EventType{domain.EventAgentError}, bus.types())

	s.Send(context.Background(), domain.UserInput("retry"))
	req := llm.request(2)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "retry", req.Messages[2].Content)
}

func TestChatSessionFailedToolOutputDropsUnfinishedTurn(t *testing.T) {
	llm := (&scriptedLLM{}).
		then(text("hello")).
		then(toolCalls(callOf("c1", "addTodo", `{"taskTitle":"Buy milk"}`))).
		fail(domain.ErrTimeout).
		then(text("ok"))
	s := NewGateway(llm, GatewayOptions{}).StartChat("", nil)

	s.Send(context.Background(), domain.UserInput("hi"))
	reply := s.Send(context.Background(), domain.UserInput("add buy milk"))
	require.Equal(t, domain.ReplyToolCalls, reply.Kind)

	reply = s.Send(context.Background(), domain.ToolResultInput("addTodo", `Added task "Buy milk".`))
	require.True(t, reply.Failed())

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, "hello", history[1].Content)

	s.Send(context.Background(), domain.UserInput("what now"))
	req := llm.request(3)
	require.Len(t, req.Messages, 3)
	for _, m := range req.Messages {
		assert.Empty(t, m.ToolCalls, "no dangling tool call is resent")
	}
	assert.Equal(t, "what now", req.Messages[2].Content)
}

func TestChatSessionRejectsEmptyInput(t *testing.T) {
	llm := &scriptedLLM{}
	s := NewGateway(llm, GatewayOptions{}).StartChat("", nil)

	reply := s.Send(context.Background(), domain.UserInput(""))
	assert.True(t, reply.Failed())
	assert.ErrorIs(t, reply.Err, domain.ErrInvalidInput)

	reply = s.Send(context.Background(), domain.ToolResultInput("", "x"))
	assert.True(t, reply.Failed())
	assert.Zero(t, llm.calls())
}

func TestChatSessionToolOutputCorrelatesCallID(t *testing.T) {
	llm := (&scriptedLLM{}).
		then(toolCalls(callOf("call_7", "getTodosList", `{}`))).
		then(text("You have no tasks."))
	s := NewGateway(llm, GatewayOptions{}).StartChat("", testTools)

	reply := s.Send(context.Background(), domain.UserInput("what's on my list?"))
	require.Equal(t, domain.ReplyToolCalls, reply.Kind)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "getTodosList", reply.Calls[0].Name)

	reply = s.Send(context.Background(), domain.ToolResultInput("getTodosList", "[]"))
	require.Equal(t, domain.ReplyText, reply.Kind)

	msgs := llm.request(1).Messages
	require.Len(t, msgs, 3)
	toolMsg := msgs[2]
	assert.Equal(t, domain.RoleTool, toolMsg.Role)
	assert.Equal(t, "getTodosList", toolMsg.Name)
	assert.Equal(t, "[]", toolMsg.Content)
	require.Len(t, toolMsg.ToolCalls, 1)
	assert.Equal(t, "call_7", toolMsg.ToolCalls[0].ID)
}

func TestChatSessionIDIsULID(t *testing.T) {
	g := NewGateway(&scriptedLLM{}, GatewayOptions{})
	a, b := g.StartChat("", nil), g.StartChat("", nil)

	_, err := ulid.ParseStrict(a.ID())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}
