// Package todo holds the in-memory task list.
package todo

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// Store is an in-memory, most-recent-first task list. All operations are
// serialized by an RWMutex; none of them fail.
type Store struct {
	mu    sync.RWMutex
	tasks []domain.Task

	bus    domain.EventBus
	logger *slog.Logger
	now    func() time.Time
}

var _ domain.TaskStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithEventBus publishes EventTasksChanged after every mutation.
func WithEventBus(bus domain.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddTask prepends a new incomplete task. Input is stored as given; callers
// are responsible for trimming and rejecting empty titles.
func (s *Store) AddTask(title, description string) string {
	s.mu.Lock()
	task := domain.Task{
		ID:          s.nextIDLocked(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	s.tasks = append([]domain.Task{task}, s.tasks...)
	s.mu.Unlock()

	s.logger.Debug("task added", "id", task.ID)
	s.publish("add", task.ID)
	return `Added task "` + title + `".`
}

// nextIDLocked returns one more than the largest numeric id. Ids that do not
// parse count as zero.
func (s *Store) nextIDLocked() string {
	max := 0
	for _, t := range s.tasks {
		if n, err := strconv.Atoi(t.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// UpdateTask replaces the title and description of the task with id,
// keeping its completion state and position. An unknown id changes
// nothing but still reports success.
func (s *Store) UpdateTask(id, title, description string) string {
	s.mu.Lock()
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Title = title
			s.tasks[i].Description = description
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.publish("update", id)
	} else {
		s.logger.Debug("update of unknown task ignored", "id", id)
	}
	return "Task updated successfully."
}

// ToggleComplete flips the completion flag of the task with id and reports
// the resulting state. An unknown id changes nothing and yields
// "Task marked as ."
func (s *Store) ToggleComplete(id string) string {
	s.mu.Lock()
	state := ""
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			state = "Incomplete"
			if s.tasks[i].Completed {
				state = "Complete"
			}
			break
		}
	}
	s.mu.Unlock()

	if state != "" {
		s.publish("toggle", id)
	} else {
		s.logger.Debug("toggle of unknown task ignored", "id", id)
	}
	return "Task marked as " + state + "."
}

// ListTasks returns every task as a JSON array, in store order.
func (s *Store) ListTasks() string {
	tasks := s.Tasks()
	data, err := json.Marshal(tasks)
	if err != nil {
		// Task holds only strings, a bool and a time; encoding cannot fail.
		s.logger.Error("encode task list", "error", err)
		return "[]"
	}
	return string(data)
}

// Tasks returns a copy of all tasks, most recent first.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Filter returns the tasks shown under tab.
func (s *Store) Filter(tab domain.Tab) []domain.Task {
	switch tab {
	case domain.TabIncomplete:
		return s.Incomplete()
	case domain.TabComplete:
		return s.Completed()
	default:
		return s.Tasks()
	}
}

// Incomplete returns the tasks not yet completed.
func (s *Store) Incomplete() []domain.Task {
	return s.where(func(t domain.Task) bool { return !t.Completed })
}

// Completed returns the completed tasks.
func (s *Store) Completed() []domain.Task {
	return s.where(func(t domain.Task) bool { return t.Completed })
}

func (s *Store) where(keep func(domain.Task) bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the task with id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) publish(op, id string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(context.Background(), domain.NewEvent(domain.EventTasksChanged, "",
		domain.TasksChangedPayload{Op: op, TaskID: id}))
}
