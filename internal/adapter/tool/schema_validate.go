package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// SchemaValidatingTool validates call arguments against the tool's JSON
// Schema before delegating. In advisory mode a mismatch is logged and the
// call still goes through.
type SchemaValidatingTool struct {
	inner    domain.Tool
	schema   *jsonschema.Schema
	advisory bool
	logger   *slog.Logger
}

// LenientTool is implemented by tools that take whatever arguments the
// model sends. The registry validates them in advisory mode only.
type LenientTool interface {
	LenientArgs() bool
}

// WithSchemaValidation wraps t so Execute rejects arguments that do not
// match its declared parameters. Tools without a schema are returned as-is.
func WithSchemaValidation(t domain.Tool) (domain.Tool, error) {
	raw := t.Schema().Parameters
	if len(raw) == 0 || string(raw) == "null" {
		return t, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource for %q: %w", t.Name(), err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema for %q: %w", t.Name(), err)
	}
	return &SchemaValidatingTool{inner: t, schema: compiled}, nil
}

// WithAdvisorySchemaValidation wraps t so arguments that do not match its
// schema are logged but still passed to Execute.
func WithAdvisorySchemaValidation(t domain.Tool, logger *slog.Logger) (domain.Tool, error) {
	wrapped, err := WithSchemaValidation(t)
	if err != nil {
		return nil, err
	}
	sv, ok := wrapped.(*SchemaValidatingTool)
	if !ok {
		return wrapped, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	sv.advisory = true
	sv.logger = logger
	return sv, nil
}

func (s *SchemaValidatingTool) Name() string              { return s.inner.Name() }
func (s *SchemaValidatingTool) Description() string       { return s.inner.Description() }
func (s *SchemaValidatingTool) Schema() domain.ToolSchema { return s.inner.Schema() }

func (s *SchemaValidatingTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	if len(params) == 0 || string(params) == "null" {
		params = json.RawMessage(`{}`)
	}

	var v any
	if err := json.Unmarshal(params, &v); err != nil {
		if s.advisory {
			s.logger.Warn("tool arguments are not valid JSON", "tool", s.inner.Name(), "error", err)
			return s.inner.Execute(ctx, params)
		}
		return ErrResult("invalid JSON: %v", err)
	}
	if err := s.schema.Validate(v); err != nil {
		if s.advisory {
			s.logger.Warn("tool arguments do not match schema", "tool", s.inner.Name(), "error", err)
			return s.inner.Execute(ctx, params)
		}
		return ErrResult("schema validation failed: %v", err)
	}
	return s.inner.Execute(ctx, params)
}
