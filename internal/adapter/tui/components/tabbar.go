// Package components provides Bubble Tea sub-models for the TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/theme"
	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// Tab is one entry of the tab bar.
type Tab struct {
	ID    domain.Tab
	Label string
	Badge int // task count; 0 hides it
}

// TabBarModel renders the list filter tabs. Selection lives in
// usecase.Tabs; the bar only draws it.
type TabBarModel struct {
	Tabs   []Tab
	Active domain.Tab
	width  int
}

// NewTabBar creates a bar for the standard All/Incomplete/Complete tabs.
func NewTabBar() TabBarModel {
	return TabBarModel{
		Tabs: []Tab{
			{ID: domain.TabAll, Label: "All"},
			{ID: domain.TabIncomplete, Label: "Incomplete"},
			{ID: domain.TabComplete, Label: "Complete"},
		},
		Active: domain.TabAll,
	}
}

// SetWidth updates the available width.
func (m *TabBarModel) SetWidth(w int) {
	m.width = w
}

// SetCounts updates the per-tab badges.
func (m *TabBarModel) SetCounts(counts map[domain.Tab]int) {
	for i := range m.Tabs {
		m.Tabs[i].Badge = counts[m.Tabs[i].ID]
	}
}

// View renders the tab bar, padded to the full width.
func (m TabBarModel) View() string {
	parts := make([]string, 0, len(m.Tabs))
	for _, t := range m.Tabs {
		label := t.Label
		if t.Badge > 0 {
			label += " " + strconv.Itoa(t.Badge)
		}
		if t.ID == m.Active {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabNormal.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, parts...)

	if m.width > 0 {
		if remaining := m.width - lipgloss.Width(bar); remaining > 0 {
			bar += theme.TabNormal.UnsetPadding().Render(strings.Repeat(" ", remaining))
		}
	}
	return bar
}
