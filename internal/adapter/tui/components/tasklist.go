package components

import (
	"strings"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// TaskListModel shows tasks with a movable cursor.
type TaskListModel struct {
	tasks  []domain.Task
	cursor int
	offset int
	width  int
	height int
}

// SetSize updates the available dimensions.
func (m *TaskListModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.scroll()
}

// SetTasks replaces the shown tasks, keeping the cursor on the same task
// id where possible.
func (m *TaskListModel) SetTasks(tasks []domain.Task) {
	var selected string
	if t, ok := m.Selected(); ok {
		selected = t.ID
	}
	m.tasks = tasks
	m.cursor = 0
	for i, t := range tasks {
		if t.ID == selected {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// Selected returns the task under the cursor.
func (m TaskListModel) Selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return domain.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// Up moves the cursor up.
func (m *TaskListModel) Up() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.scroll()
}

// Down moves the cursor down.
func (m *TaskListModel) Down() {
	if m.cursor < len(m.tasks)-1 {
		m.cursor++
	}
	m.scroll()
}

// rows each task takes: title line and description line.
const taskRows = 2

func (m *TaskListModel) visible() int {
	if m.height <= 0 {
		return len(m.tasks)
	}
	return max(1, m.height/taskRows)
}

func (m *TaskListModel) scroll() {
	n := m.visible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+n {
		m.offset = m.cursor - n + 1
	}
	m.offset = theme.Clamp(m.offset, 0, max(0, len(m.tasks)-1))
}

// View renders the visible window of tasks.
func (m TaskListModel) View() string {
	if len(m.tasks) == 0 {
		return theme.TextMuted.Render("  No tasks here. Press n to add one.")
	}

	end := min(len(m.tasks), m.offset+m.visible())
	var sb strings.Builder
	for i := m.offset; i < end; i++ {
		t := m.tasks[i]
		cursor := "  "
		if i == m.cursor {
			cursor = theme.TaskSelected.Render(theme.SymbolCursor) + " "
		}

		mark := theme.TextMuted.Render(theme.SymbolTodo)
		title := theme.TaskTitle.Render(t.Title)
		if t.Completed {
			mark = theme.TextSuccess.Render(theme.SymbolDone)
			title = theme.TaskDone.Render(t.Title)
		}
		if i == m.cursor && !t.Completed {
			title = theme.TaskSelected.Render(t.Title)
		}

		sb.WriteString(cursor + mark + " " + title + theme.Dim.Render("  #"+t.ID) + "\n")
		desc := t.Description
		if limit := m.width - 6; limit > 1 && len([]rune(desc)) > limit {
			desc = string([]rune(desc)[:limit-1]) + theme.SymbolEllipsis
		}
		sb.WriteString("    " + theme.TextMuted.Render(desc) + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
