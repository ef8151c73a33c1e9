// Package board is the main todo-ai screen: the task list, the add/edit
// form with ghost-text suggestions, and the assistant chat.
package board

// The bus delivers events on separate goroutines, so these messages carry
// no state: the model re-reads the usecase objects when one arrives.

// SuggestionMsg signals that a form field's suggestion changed.
type SuggestionMsg struct {
	Field string
}

// TasksChangedMsg signals that the task store was mutated.
type TasksChangedMsg struct{}

// ChatUpdatedMsg signals that the assistant transcript grew.
type ChatUpdatedMsg struct{}

// ToolStartedMsg signals that the agent began running a tool.
type ToolStartedMsg struct {
	Name string
}

// ReplyMsg is sent when a chat turn finishes.
type ReplyMsg struct {
	Reply string
}

// QuitMsg asks the program to exit.
type QuitMsg struct{}
