package usecase

import (
	"strings"
	"sync"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/usecase/suggest"
)

// FieldID selects one of the form inputs.
type FieldID int

const (
	FieldTitle FieldID = iota
	FieldDesc
)

// Key is the subset of keystrokes the form reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyTab
	KeyRight
	KeyEnter
)

// Form is the add/edit task dialog. Each input carries its own suggestion
// pipeline; rendering is left to the view.
type Form struct {
	Title *suggest.Field
	Desc  *suggest.Field

	store domain.TaskStore

	mu        sync.Mutex
	visible   bool
	editingID string
}

// NewForm creates a hidden form over store.
func NewForm(store domain.TaskStore, title, desc *suggest.Field) *Form {
	return &Form{Title: title, Desc: desc, store: store}
}

// Open shows an empty form for a new task.
func (f *Form) Open() {
	f.Title.Reset()
	f.Desc.Reset()
	f.mu.Lock()
	f.visible = true
	f.editingID = ""
	f.mu.Unlock()
}

// Edit shows the form preloaded with task.
func (f *Form) Edit(task domain.Task) {
	f.Title.Reset()
	f.Desc.Reset()
	f.Title.SetValue(task.Title)
	f.Desc.SetValue(task.Description)
	f.mu.Lock()
	f.visible = true
	f.editingID = task.ID
	f.mu.Unlock()
}

// Close hides the form and clears both suggestions.
func (f *Form) Close() {
	f.mu.Lock()
	f.visible = false
	f.editingID = ""
	f.mu.Unlock()
	f.Title.ClearSuggestion()
	f.Desc.ClearSuggestion()
}

// Save stores the form contents and closes it. A blank title does nothing
// and reports false.
func (f *Form) Save() bool {
	title := f.Title.Value()
	if strings.TrimSpace(title) == "" {
		return false
	}
	desc := f.Desc.Value()

	if id := f.EditingID(); id != "" {
		f.store.UpdateTask(id, title, desc)
	} else {
		f.store.AddTask(title, desc)
	}
	f.Close()
	return true
}

// HandleKey applies a keystroke to the given input. It reports whether the
// key was consumed, in which case the view must suppress its default
// effect. Tab and Right accept a visible suggestion; Enter saves.
func (f *Form) HandleKey(id FieldID, key Key) bool {
	switch key {
	case KeyTab, KeyRight:
		return f.field(id).Accept()
	case KeyEnter:
		f.Save()
		return true
	default:
		return false
	}
}

func (f *Form) field(id FieldID) *suggest.Field {
	if id == FieldDesc {
		return f.Desc
	}
	return f.Title
}

// Visible reports whether the form is shown.
func (f *Form) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// EditingID is the id of the task being edited, or "" for a new task.
func (f *Form) EditingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID
}

// Tabs tracks which subset of the task list is shown.
type Tabs struct {
	store  domain.TaskStore
	active domain.Tab
}

// NewTabs starts on the "all" tab.
func NewTabs(store domain.TaskStore) *Tabs {
	return &Tabs{store: store, active: domain.TabAll}
}

// Active returns the selected tab.
func (t *Tabs) Active() domain.Tab { return t.active }

// Set selects tab.
func (t *Tabs) Set(tab domain.Tab) { t.active = tab }

// Next cycles forward through the tabs.
func (t *Tabs) Next() { t.step(1) }

// Prev cycles backward through the tabs.
func (t *Tabs) Prev() { t.step(len(domain.Tabs) - 1) }

func (t *Tabs) step(n int) {
	for i, tab := range domain.Tabs {
		if tab == t.active {
			t.active = domain.Tabs[(i+n)%len(domain.Tabs)]
			return
		}
	}
	t.active = domain.TabAll
}

// Displayed returns the tasks visible under the active tab.
func (t *Tabs) Displayed() []domain.Task {
	return t.store.Filter(t.active)
}
