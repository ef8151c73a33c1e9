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

func newGeminiTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiProvider(config.ProviderConfig{
		Name:    "gemini",
		BaseURL: srv.URL,
		APIKey:  "test-key",
	}, slog.Default())
}

func TestGeminiChatText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	p := newGeminiTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &gotReq))
		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "with oat "}, {"text": "milk"}]}}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 2, "totalTokenCount": 12}
		}`))
	})

	resp, err := p.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "be brief"},
			{Role: domain.RoleUser, Content: "Buy groceries for"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "be brief", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)

	assert.Equal(t, "with oat milk", resp.Message.Content)
	assert.Equal(t, domain.RoleAssistant, resp.Message.Role)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestGeminiChatFunctionCall(t *testing.T) {
	p := newGeminiTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [
			{"functionCall": {"name": "addTodo", "args": {"taskTitle": "Buy milk", "taskDesc": ""}}}
		]}}]}`))
	})

	resp, err := p.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "add buy milk"}},
		Tools:    []domain.ToolSchema{{Name: "addTodo", Description: "Add", Parameters: json.RawMessage(`{"type":"object"}`)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Message.ToolCalls, 1)

	call := resp.Message.ToolCalls[0]
	assert.Equal(t, "addTodo", call.Name)
	assert.Equal(t, "call_addTodo_0", call.ID)
	assert.Equal(t, map[string]string{"taskTitle": "Buy milk", "taskDesc": ""}, call.Args())
}

func TestGeminiHTTPErrorMapping(t *testing.T) {
	p := newGeminiTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota"}}`))
	})

	_, err := p.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimit)
}

func TestGeminiPromptBlocked(t *testing.T) {
	p := newGeminiTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback": {"blockReason": "SAFETY"}}`))
	})

	_, err := p.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, domain.ErrProviderError)
}

func TestToGeminiRequestToolRoundTrip(t *testing.T) {
	req := toGeminiRequest(domain.ChatRequest{
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "add buy milk"},
			{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{ID: "c1", Name: "addTodo", Arguments: json.RawMessage(`{"taskTitle":"Buy milk"}`)}}},
			{Role: domain.RoleTool, Name: "addTodo", Content: `Added task "Buy milk".`},
		},
		Tools:       []domain.ToolSchema{{Name: "addTodo"}, {Name: "getTodosList"}},
		Temperature: 0.2,
	})

	require.Len(t, req.Contents, 3)
	assert.Equal(t, "model", req.Contents[1].Role)
	require.NotNil(t, req.Contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "addTodo", req.Contents[1].Parts[0].FunctionCall.Name)

	fr := req.Contents[2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "user", req.Contents[2].Role)
	assert.Equal(t, "addTodo", fr.Name)
	assert.Equal(t, `Added task "Buy milk".`, fr.Response["result"])

	require.Len(t, req.Tools, 1)
	assert.Len(t, req.Tools[0].FunctionDeclarations, 2)
	require.NotNil(t, req.GenerationConfig)
	assert.Equal(t, 0.2, *req.GenerationConfig.Temperature)
}
