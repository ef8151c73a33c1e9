package tool

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoParams struct {
	Value string `json:"value"`
}

func TestExecuteStringResult(t *testing.T) {
	res, err := Execute(context.Background(), "tool.echo", slog.Default(), json.RawMessage(`{"value":"hi"}`),
		func(_ context.Context, _ trace.Span, p echoParams) (any, error) { return p.Value, nil })
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Content)
	assert.False(t, res.IsError)
}

func TestExecuteStructResultIsJSON(t *testing.T) {
	res, err := Execute(context.Background(), "tool.echo", slog.Default(), json.RawMessage(`{"value":"x"}`),
		func(_ context.Context, _ trace.Span, p echoParams) (any, error) { return p, nil })
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"x"}`, res.Content)
}

func TestExecuteHandlerError(t *testing.T) {
	res, err := Execute(context.Background(), "tool.echo", slog.Default(), json.RawMessage(`{}`),
		func(_ context.Context, _ trace.Span, _ echoParams) (any, error) { return nil, errors.New("store down") })
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "store down", res.Content)
}

func TestExecuteInvalidParams(t *testing.T) {
	called := false
	res, err := Execute(context.Background(), "tool.echo", slog.Default(), json.RawMessage(`{"value":3}`),
		func(_ context.Context, _ trace.Span, _ echoParams) (any, error) {
			called = true
			return "", nil
		})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "invalid params")
	assert.False(t, called)
}

func TestExecutePassesToolResultThrough(t *testing.T) {
	want := &domain.ToolResult{Content: "custom", IsError: true}
	res, err := Execute(context.Background(), "tool.echo", slog.Default(), nil,
		func(_ context.Context, _ trace.Span, _ echoParams) (any, error) { return want, nil })
	require.NoError(t, err)
	assert.Same(t, want, res)
}
