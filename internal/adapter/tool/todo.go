package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/tracer"
)

// Tool names declared to the model.
const (
	AddTodoName      = "addTodo"
	MarkCompleteName = "markComplete"
	GetTodosListName = "getTodosList"
)

// looseString decodes any JSON value: strings as-is, null as "", anything
// else as its JSON text.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*s = looseString(b)
		return nil
	}
	*s = looseString(v)
	return nil
}

// taskID decodes only JSON strings. Any other value becomes "", which
// matches no task.
type taskID string

func (id *taskID) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		*id = ""
		return nil
	}
	*id = taskID(v)
	return nil
}

// AddTodoTool adds a task to the store.
type AddTodoTool struct {
	store  domain.TaskStore
	logger *slog.Logger
}

// NewAddTodoTool creates the addTodo tool.
func NewAddTodoTool(store domain.TaskStore, logger *slog.Logger) *AddTodoTool {
	return &AddTodoTool{store: store, logger: logger}
}

func (t *AddTodoTool) Name() string        { return AddTodoName }
func (t *AddTodoTool) Description() string { return "Add a new task to the user's todo list." }

func (t *AddTodoTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"taskTitle": {"type": "string", "description": "The title of the task to add"},
				"taskDesc": {"type": "string", "description": "The description of the task to add"}
			},
			"required": ["taskTitle", "taskDesc"]
		}`),
	}
}

type addTodoParams struct {
	TaskTitle looseString `json:"taskTitle"`
	TaskDesc  looseString `json:"taskDesc"`
}

// LenientArgs reports that missing or mistyped arguments still reach the
// store.
func (t *AddTodoTool) LenientArgs() bool { return true }

func (t *AddTodoTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.add_todo", t.logger, params,
		func(_ context.Context, span trace.Span, p addTodoParams) (any, error) {
			span.SetAttributes(tracer.IntAttr("task.title_len", len(p.TaskTitle)))
			return t.store.AddTask(string(p.TaskTitle), string(p.TaskDesc)), nil
		},
	)
}

// MarkCompleteTool toggles a task's completion state.
type MarkCompleteTool struct {
	store  domain.TaskStore
	logger *slog.Logger
}

// NewMarkCompleteTool creates the markComplete tool.
func NewMarkCompleteTool(store domain.TaskStore, logger *slog.Logger) *MarkCompleteTool {
	return &MarkCompleteTool{store: store, logger: logger}
}

func (t *MarkCompleteTool) Name() string { return MarkCompleteName }
func (t *MarkCompleteTool) Description() string {
	return "Mark a task as complete. Requires the exact ID of the task."
}

func (t *MarkCompleteTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "The ID of the task to complete"}
			},
			"required": ["id"]
		}`),
	}
}

type markCompleteParams struct {
	ID taskID `json:"id"`
}

func (t *MarkCompleteTool) LenientArgs() bool { return true }

// Execute toggles rather than sets: calling it on a completed task marks it
// incomplete again.
func (t *MarkCompleteTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.mark_complete", t.logger, params,
		func(_ context.Context, span trace.Span, p markCompleteParams) (any, error) {
			span.SetAttributes(tracer.StringAttr("task.id", string(p.ID)))
			return t.store.ToggleComplete(string(p.ID)), nil
		},
	)
}

// GetTodosListTool returns the whole task list as JSON.
type GetTodosListTool struct {
	store  domain.TaskStore
	logger *slog.Logger
}

// NewGetTodosListTool creates the getTodosList tool.
func NewGetTodosListTool(store domain.TaskStore, logger *slog.Logger) *GetTodosListTool {
	return &GetTodosListTool{store: store, logger: logger}
}

func (t *GetTodosListTool) Name() string { return GetTodosListName }
func (t *GetTodosListTool) Description() string {
	return "Get the current list of all todos, including their IDs and completion status."
}

// Schema declares no parameters at all; Gemini rejects an object schema
// with empty properties.
func (t *GetTodosListTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{Name: t.Name(), Description: t.Description()}
}

func (t *GetTodosListTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.get_todos_list", t.logger, params,
		func(_ context.Context, _ trace.Span, _ struct{}) (any, error) {
			return t.store.ListTasks(), nil
		},
	)
}

// RegisterTodoTools registers the three task tools in declaration order.
func RegisterTodoTools(reg *Registry, store domain.TaskStore, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, t := range []domain.Tool{
		NewAddTodoTool(store, logger),
		NewMarkCompleteTool(store, logger),
		NewGetTodosListTool(store, logger),
	} {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
