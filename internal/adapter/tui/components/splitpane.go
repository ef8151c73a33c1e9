package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
)

// Pane identifies which pane has keyboard focus.
type Pane int

const (
	PaneTasks Pane = iota
	PaneChat
)

// SplitPaneModel lays the task list and the chat side by side. On narrow
// terminals only the focused pane is shown.
type SplitPaneModel struct {
	Focused Pane
	Ratio   float64
	width   int
	height  int
}

// NewSplitPane creates a split; ratio is the task pane's share of the width.
func NewSplitPane(ratio float64) SplitPaneModel {
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	return SplitPaneModel{Focused: PaneTasks, Ratio: ratio}
}

// SetSize updates the available dimensions.
func (m *SplitPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Split reports whether both panes fit.
func (m SplitPaneModel) Split() bool {
	return m.width >= theme.MinSplitWidth
}

// SwitchFocus moves focus to the other pane.
func (m *SplitPaneModel) SwitchFocus() {
	if m.Focused == PaneTasks {
		m.Focused = PaneChat
	} else {
		m.Focused = PaneTasks
	}
}

// LeftWidth is the width given to the task pane.
func (m SplitPaneModel) LeftWidth() int {
	if !m.Split() {
		return m.width
	}
	return int(float64(m.width-1) * m.Ratio)
}

// RightWidth is the width given to the chat pane.
func (m SplitPaneModel) RightWidth() int {
	if !m.Split() {
		return m.width
	}
	return m.width - 1 - m.LeftWidth()
}

// Height returns the content height.
func (m SplitPaneModel) Height() int {
	return m.height
}

// Render joins both panes with a divider that lights up on the focused
// side, or shows only the focused pane when narrow.
func (m SplitPaneModel) Render(left, right string) string {
	if !m.Split() {
		if m.Focused == PaneChat {
			return right
		}
		return left
	}

	color := theme.ColorBorder
	if m.Focused == PaneChat {
		color = theme.ColorBorderActive
	}
	bar := lipgloss.NewStyle().Foreground(color).Render("│")
	col := strings.TrimSuffix(strings.Repeat(bar+"\n", m.height), "\n")

	left = lipgloss.NewStyle().Width(m.LeftWidth()).Height(m.height).Render(left)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, col, right)
}
