package domain

import "time"

// Task is a single entry of the todo list.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Tab selects which subset of tasks the list view shows.
type Tab string

const (
	TabAll        Tab = "all"
	TabIncomplete Tab = "incomplete"
	TabComplete   Tab = "complete"
)

// Tabs lists the view tabs in display order.
var Tabs = []Tab{TabAll, TabIncomplete, TabComplete}

// TaskStore is the in-memory task collection. Every mutating operation
// returns a short human-readable summary; none of them fail.
type TaskStore interface {
	AddTask(title, description string) string
	UpdateTask(id, title, description string) string
	ToggleComplete(id string) string
	// ListTasks returns a machine-readable snapshot of every task.
	ListTasks() string
	// Tasks returns a copy of all tasks, most recent first.
	Tasks() []Task
	Filter(tab Tab) []Task
}
