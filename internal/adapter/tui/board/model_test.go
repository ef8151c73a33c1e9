package board

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/usecase"
	"github.com/Dattachavhan/todo-ai/internal/usecase/suggest"
	"github.com/Dattachavhan/todo-ai/internal/usecase/todo"
)

type echoHandler struct{}

func (echoHandler) HandleMessage(_ context.Context, text string) string { return "ok: " + text }

type fixedCompleter string

func (c fixedCompleter) Complete(context.Context, string) string { return string(c) }

func newTestModel(t *testing.T, completion string) (Model, *todo.Store) {
	t.Helper()
	store := todo.NewStore()
	opts := suggest.Options{Debounce: time.Millisecond}
	form := usecase.NewForm(store,
		suggest.NewField(fixedCompleter(completion), opts),
		suggest.NewField(fixedCompleter(completion), opts),
	)
	m := New(context.Background(), Deps{
		Store:     store,
		Tabs:      usecase.NewTabs(store),
		Form:      form,
		Assistant: usecase.NewAssistant(echoHandler{}, nil),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), store
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewTaskThroughForm(t *testing.T) {
	m, store := newTestModel(t, "")

	m = press(t, m, runes("n"))
	require.True(t, m.deps.Form.Visible())

	m = press(t, m, runes("B"), runes("u"), runes("y"), runes(" "), runes("m"), runes("i"), runes("l"), runes("k"))
	assert.Equal(t, "Buy milk", m.deps.Form.Title.Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.deps.Form.Visible())
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Contains(t, m.View(), "Buy milk")
}

func TestTabAcceptsGhostText(t *testing.T) {
	m, _ := newTestModel(t, "and eggs")
	m = press(t, m, runes("n"), runes("Buy milk and bread"))

	require.Eventually(t, func() bool { return m.deps.Form.Title.Suggestion() != "" }, time.Second, time.Millisecond)
	assert.Contains(t, m.View(), "and eggs")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Buy milk and bread and eggs", m.titleIn.Value())
	assert.Equal(t, usecase.FieldTitle, m.formField, "accepting keeps focus")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, usecase.FieldDesc, m.formField, "tab without suggestion moves on")
}

func TestToggleAndFilter(t *testing.T) {
	m, store := newTestModel(t, "")
	store.AddTask("Walk the dog", "")
	updated, _ := m.Update(TasksChangedMsg{})
	m = updated.(Model)

	m = press(t, m, runes(" "))
	task, _ := store.Get("1")
	assert.True(t, task.Completed)

	m = press(t, m, runes("l"))
	assert.Equal(t, domain.TabIncomplete, m.deps.Tabs.Active())
	assert.NotContains(t, m.View(), "Walk the dog")
}

func TestChatTurn(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("hello"))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)

	updated, _ = m.Update(sendChatCmd(context.Background(), m.deps.Assistant, "hello")())
	m = updated.(Model)
	assert.False(t, m.waiting)
	assert.Equal(t, 2, m.chat.Messages.Len())
}
