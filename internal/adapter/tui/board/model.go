package board

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/components"
	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/usecase"
	"github.com/Dattachavhan/todo-ai/internal/usecase/suggest"
)

// Deps are the usecase objects the screen drives.
type Deps struct {
	Store     domain.TaskStore
	Tabs      *usecase.Tabs
	Form      *usecase.Form
	Assistant *usecase.Assistant
	Bus       domain.EventBus // optional; without it the screen refreshes only on its own actions
	Logger    *slog.Logger
	Provider  string
	ModelName string
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	ctx  context.Context

	tabBar  components.TabBarModel
	tasks   components.TaskListModel
	chat    components.ChatViewModel
	chatIn  textinput.Model
	titleIn components.GhostInputModel
	descIn  components.GhostInputModel
	split   components.SplitPaneModel
	status  components.StatusBarModel
	spinner spinner.Model

	formField usecase.FieldID
	waiting   bool
	width     int
	height    int
	quitting  bool
}

// New creates the screen. ctx bounds the chat turns it starts.
func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	chatIn := textinput.New()
	chatIn.Prompt = "> "
	chatIn.Placeholder = "Ask the assistant..."
	chatIn.PromptStyle = theme.InputPrompt
	chatIn.PlaceholderStyle = theme.InputPlaceholder

	m := Model{
		deps:    deps,
		ctx:     ctx,
		tabBar:  components.NewTabBar(),
		chat:    components.NewChatView(),
		chatIn:  chatIn,
		titleIn: components.NewGhostInput("Title", "What needs doing?"),
		descIn:  components.NewGhostInput("Description", "Any details?"),
		split:   components.NewSplitPane(0.5),
		status: components.StatusBarModel{
			Provider: deps.Provider,
			Model:    deps.ModelName,
		},
		spinner: s,
	}
	m.refreshTasks()
	m.status.Hints = m.hints()
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SuggestionMsg:
		// Ghost text is read from the form at render time.
		return m, nil

	case TasksChangedMsg:
		m.refreshTasks()
		return m, nil

	case ChatUpdatedMsg:
		m.chat.SetMessages(m.deps.Assistant.Messages())
		return m, nil

	case ToolStartedMsg:
		if m.waiting {
			m.status.Extra = "Running " + msg.Name + theme.SymbolEllipsis
		}
		return m, nil

	case ReplyMsg:
		m.waiting = false
		m.status.Extra = ""
		m.chat.SetMessages(m.deps.Assistant.Messages())
		m.refreshTasks()
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.deps.Form.Visible() {
		return m.handleFormKey(msg)
	}
	if msg.Type == tea.KeyTab {
		m.split.SwitchFocus()
		if m.split.Focused == components.PaneChat {
			m.chatIn.Focus()
		} else {
			m.chatIn.Blur()
		}
		m.status.Hints = m.hints()
		return m, nil
	}
	if m.split.Focused == components.PaneChat {
		return m.handleChatKey(msg)
	}
	return m.handleTaskKey(msg)
}

func (m Model) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.tasks.Up()
	case "down", "j":
		m.tasks.Down()
	case "left", "h":
		m.deps.Tabs.Prev()
		m.refreshTasks()
	case "right", "l":
		m.deps.Tabs.Next()
		m.refreshTasks()
	case " ", "x":
		if t, ok := m.tasks.Selected(); ok {
			m.deps.Store.ToggleComplete(t.ID)
			m.refreshTasks()
		}
	case "e":
		if t, ok := m.tasks.Selected(); ok {
			m.deps.Form.Edit(t)
			return m, m.openForm()
		}
	case "n":
		m.deps.Form.Open()
		return m, m.openForm()
	}
	return m, nil
}

func (m *Model) openForm() tea.Cmd {
	m.titleIn.SetValue(m.deps.Form.Title.Value())
	m.descIn.SetValue(m.deps.Form.Desc.Value())
	m.formField = usecase.FieldTitle
	m.descIn.Blur()
	m.status.Hints = m.hints()
	return m.titleIn.Focus()
}

func (m *Model) closeForm() {
	m.titleIn.Blur()
	m.descIn.Blur()
	m.refreshTasks()
	m.status.Hints = m.hints()
}

func (m *Model) formInput() (*components.GhostInputModel, *suggest.Field) {
	if m.formField == usecase.FieldDesc {
		return &m.descIn, m.deps.Form.Desc
	}
	return &m.titleIn, m.deps.Form.Title
}

func (m *Model) switchFormField() tea.Cmd {
	if m.formField == usecase.FieldTitle {
		m.formField = usecase.FieldDesc
		m.titleIn.Blur()
		return m.descIn.Focus()
	}
	m.formField = usecase.FieldTitle
	m.descIn.Blur()
	return m.titleIn.Focus()
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in, field := m.formInput()

	switch msg.Type {
	case tea.KeyEsc:
		m.deps.Form.Close()
		m.closeForm()
		return m, nil
	case tea.KeyTab, tea.KeyRight:
		key := usecase.KeyRight
		if msg.Type == tea.KeyTab {
			key = usecase.KeyTab
		}
		if m.deps.Form.HandleKey(m.formField, key) {
			in.SetValue(field.Value())
			return m, nil
		}
		if msg.Type == tea.KeyTab {
			return m, m.switchFormField()
		}
	case tea.KeyShiftTab:
		return m, m.switchFormField()
	case tea.KeyEnter:
		m.deps.Form.HandleKey(m.formField, usecase.KeyEnter)
		if !m.deps.Form.Visible() {
			m.closeForm()
		}
		return m, nil
	}

	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != field.Value() {
		field.OnTyping(in.Value())
	}
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.split.SwitchFocus()
		m.chatIn.Blur()
		m.status.Hints = m.hints()
		return m, nil
	case tea.KeyEnter:
		text := m.chatIn.Value()
		if m.waiting || strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.chatIn.Reset()
		m.waiting = true
		m.status.Extra = "Thinking" + theme.SymbolEllipsis
		return m, tea.Batch(sendChatCmd(m.ctx, m.deps.Assistant, text), m.spinner.Tick)
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatIn, cmd = m.chatIn.Update(msg)
	return m, cmd
}

func (m *Model) refreshTasks() {
	counts := make(map[domain.Tab]int, len(domain.Tabs))
	for _, tab := range domain.Tabs {
		counts[tab] = len(m.deps.Store.Filter(tab))
	}
	m.tabBar.SetCounts(counts)
	m.tabBar.Active = m.deps.Tabs.Active()
	m.tasks.SetTasks(m.deps.Tabs.Displayed())
}

func (m Model) hints() []components.KeyHint {
	switch {
	case m.deps.Form.Visible():
		return []components.KeyHint{
			{Key: "Tab/→", Desc: "Accept"},
			{Key: "Enter", Desc: "Save"},
			{Key: "Esc", Desc: "Cancel"},
		}
	case m.split.Focused == components.PaneChat:
		return []components.KeyHint{
			{Key: "Enter", Desc: "Send"},
			{Key: "PgUp/PgDn", Desc: "Scroll"},
			{Key: "Tab", Desc: "Tasks"},
		}
	default:
		return []components.KeyHint{
			{Key: "n", Desc: "New"},
			{Key: "e", Desc: "Edit"},
			{Key: "Space", Desc: "Toggle"},
			{Key: "←/→", Desc: "Filter"},
			{Key: "Tab", Desc: "Chat"},
			{Key: "q", Desc: "Quit"},
		}
	}
}

// layout recalculates sub-model sizes.
func (m *Model) layout() {
	contentH := max(m.height-1, 5)

	m.status.SetWidth(m.width)
	m.split.SetSize(m.width, contentH)

	leftW := m.split.LeftWidth()
	m.tabBar.SetWidth(leftW)
	m.tasks.SetSize(leftW, contentH-2)

	rightW := m.split.RightWidth()
	m.chat.SetSize(rightW, max(contentH-3, 1))
	m.chatIn.Width = max(rightW-4, 10)
}

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	var left string
	if m.deps.Form.Visible() {
		left = m.formView()
	} else {
		left = lipgloss.JoinVertical(lipgloss.Left, m.tabBar.View(), "", m.tasks.View())
	}

	chatIn := m.chatIn.View()
	if m.waiting {
		chatIn = m.spinner.View() + " " + theme.Dim.Render(m.status.Extra)
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.chat.View(),
		components.Divider(m.split.RightWidth()),
		chatIn,
	)

	return lipgloss.JoinVertical(lipgloss.Left, m.split.Render(left, right), m.status.View())
}

func (m Model) formView() string {
	heading := "New task"
	if id := m.deps.Form.EditingID(); id != "" {
		heading = "Edit task #" + id
	}

	title := m.titleIn
	title.SetGhost(m.deps.Form.Title.Suggestion())
	desc := m.descIn
	desc.SetGhost(m.deps.Form.Desc.Suggestion())

	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.TextAccent.Bold(true).Render(heading),
		"",
		title.View(),
		"",
		desc.View(),
		"",
		theme.Dim.Render("Tab/→ accept suggestion  Enter save  Esc cancel"),
	)
	return theme.FormBox.Width(theme.Clamp(m.split.LeftWidth()-4, 20, 90)).Render(body)
}
