package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/config"
)

func TestOpenAIChat(t *testing.T) {
	var gotAuth string
	var gotReq openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &gotReq))
		w.Write([]byte(`{
			"id": "chatcmpl-1", "model": "gpt-4o-mini", "created": 1700000000,
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "",
				"tool_calls": [{"id": "call_9", "type": "function", "function": {"name": "markComplete", "arguments": "{\"id\":\"2\"}"}}]},
				"finish_reason": "tool_calls"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(config.ProviderConfig{Name: "openai", BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o-mini"}, slog.Default())
	resp, err := p.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "finish task 2"}},
		Tools:    []domain.ToolSchema{{Name: "markComplete", Parameters: json.RawMessage(`{"type":"object"}`)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Tools, 1)
	assert.Equal(t, "function", gotReq.Tools[0].Type)

	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "call_9", resp.Message.ToolCalls[0].ID)
	assert.Equal(t, map[string]string{"id": "2"}, resp.Message.ToolCalls[0].Args())
	assert.Equal(t, 8, resp.Usage.TotalTokens)
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(config.ProviderConfig{Name: "openai", BaseURL: srv.URL}, slog.Default())
	_, err := p.Chat(context.Background(), domain.ChatRequest{Messages: []domain.Message{{Role: domain.RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, domain.ErrEmptyReply)
}

func TestToOpenAIRequestToolMessage(t *testing.T) {
	req := toOpenAIRequest(domain.ChatRequest{
		Model: "m",
		Messages: []domain.Message{
			{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{ID: "call_1", Name: "getTodosList"}}},
			{Role: domain.RoleTool, Name: "getTodosList", Content: "[]", ToolCalls: []domain.ToolCall{{ID: "call_1"}}},
		},
	})

	require.Len(t, req.Messages, 2)
	assert.Equal(t, "{}", req.Messages[0].ToolCalls[0].Function.Arguments)
	assert.Equal(t, "call_1", req.Messages[1].ToolCallID)
	assert.Equal(t, "[]", req.Messages[1].Content)
	assert.Nil(t, req.Temperature)
}

func TestOllamaProviderUsesV1Endpoint(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		if r.URL.Path == "/" {
			w.Write([]byte("Ollama is running"))
			return
		}
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hello"}}]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.ProviderConfig{Name: "local", BaseURL: srv.URL, APIKey: "ignored", Model: "llama3"}, slog.Default())
	assert.True(t, p.IsHealthy(context.Background()))

	resp, err := p.Chat(context.Background(), domain.ChatRequest{Messages: []domain.Message{{Role: domain.RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Message.Content)
	assert.Equal(t, []string{"/", "/v1/chat/completions"}, paths)
}
