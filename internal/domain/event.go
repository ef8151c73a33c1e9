package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventType identifies the kind of event being published.
type EventType string

const (
	EventTasksChanged      EventType = "tasks.changed"
	EventSuggestionUpdated EventType = "suggestion.updated"
	EventChatMessage       EventType = "chat.message"
	EventToolCallStarted   EventType = "tool.call.started"
	EventToolCallCompleted EventType = "tool.call.completed"
	EventAgentError        EventType = "agent.error"
)

// Event is the envelope published on the event bus.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// EventHandler receives published events.
type EventHandler func(ctx context.Context, event Event)

// EventBus is an in-process publish/subscribe hub.
type EventBus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler) func()
	SubscribeAll(handler EventHandler) func()
	Close()
}

// SuggestionPayload accompanies EventSuggestionUpdated.
type SuggestionPayload struct {
	Field      string `json:"field"`
	Suggestion string `json:"suggestion"`
}

// TasksChangedPayload accompanies EventTasksChanged.
type TasksChangedPayload struct {
	Op     string `json:"op"`
	TaskID string `json:"task_id"`
}

// NewEvent builds an event with a JSON-encoded payload. A payload that fails
// to encode is dropped.
func NewEvent(eventType EventType, sessionID string, payload any) Event {
	var raw json.RawMessage
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			raw = data
		}
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Payload:   raw,
	}
}
